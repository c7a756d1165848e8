// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST transport of the sync server.
//
// It wires the chi router, the pull, push and revision handlers, and the
// middleware chain that traces, logs and authenticates every request before
// it reaches the service layer.
package http
