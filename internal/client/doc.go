// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the care-sync command line client.
//
// It wires the local SQLite store, the server and collaborator adapters and
// the client services into an [App], and exposes them as cobra commands:
// a long-running sync daemon plus one-shot commands for the offline queue,
// manual merges and the handoff publish pipeline.
package client
