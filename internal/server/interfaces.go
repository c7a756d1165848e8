// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server is the lifecycle contract of the process.
//
// RunServer blocks until a stop signal arrives and every component has
// stopped. Shutdown stops the listener without waiting for a signal.
type Server interface {
	RunServer()
	Shutdown()
}
