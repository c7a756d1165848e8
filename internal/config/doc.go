// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the care-sync client and server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. A .env file, loaded into the process environment
//  3. Environment variables
//  4. Command-line flags (server only; the client uses cobra flags)
//  5. JSON config file
//
// The main entry points are [GetServerConfig] and [GetClientConfig].
package config
