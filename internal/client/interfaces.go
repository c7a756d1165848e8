// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/service"
)

// Client defines the lifecycle contract of the client process.
type Client interface {
	// Run syncs in the background and blocks until ctx is done.
	Run(ctx context.Context) error

	// Close releases the local database.
	Close() error
}

// Backend is what the commands operate on. [App] is the production backend.
type Backend interface {
	Client

	Coordinator() service.SyncCoordinator
	Pipeline() service.PublishPipeline
	Config() *config.ClientConfig
}

// BackendLoader builds a Backend from the configuration file at configPath.
// An empty path falls back to the CONFIG environment variable.
type BackendLoader func(ctx context.Context, configPath string) (Backend, error)
