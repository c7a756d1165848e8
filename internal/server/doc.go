// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the sync server: the HTTP listener and the background
// workers share one lifecycle that ends on SIGTERM, SIGINT or SIGQUIT.
package server
