// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/service"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/workers"
)

const clientRole = "care-sync-client"

// App owns the client's local database, services and background workers.
type App struct {
	services *service.ClientServices
	workers  *workers.Workers
	cfg      *config.ClientConfig
	closer   io.Closer

	logger *logger.Logger
}

// NewApp opens and migrates the local database and builds the client
// services over the configured server and collaborators.
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	db, err := store.NewConnectSQLite(ctx, cfg.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local store: %w", err)
	}

	adapters, err := newAdapters(cfg.Adapter, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	local := store.NewLocalStore(db, store.RetryPolicy{
		Base:        cfg.Sync.RetryBase,
		MaxAttempts: cfg.Sync.MaxAttempts,
	}, log)
	services := service.NewClientServices(local, adapters, cfg, log)

	return &App{
		services: services,
		workers:  workers.NewWorkers(workers.NewPipelineResumer(services.Pipeline, cfg.Workers.PipelineInterval, log)),
		cfg:      cfg,
		closer:   db,
		logger:   log,
	}, nil
}

func newAdapters(cfg config.ClientAdapter, log *logger.Logger) (service.ClientAdapters, error) {
	remote, err := adapter.NewHTTPRemoteStore(cfg, log)
	if err != nil {
		return service.ClientAdapters{}, fmt.Errorf("create sync server adapter: %w", err)
	}
	storage, err := adapter.NewHTTPObjectStorage(cfg.ObjectStorageAddress, cfg.RequestTimeout, cfg.Token)
	if err != nil {
		return service.ClientAdapters{}, fmt.Errorf("create object storage adapter: %w", err)
	}
	transcription, err := adapter.NewHTTPJobService(cfg.TranscriptionAddress, cfg.RequestTimeout, cfg.Token)
	if err != nil {
		return service.ClientAdapters{}, fmt.Errorf("create transcription adapter: %w", err)
	}
	structuring, err := adapter.NewHTTPJobService(cfg.StructuringAddress, cfg.RequestTimeout, cfg.Token)
	if err != nil {
		return service.ClientAdapters{}, fmt.Errorf("create structuring adapter: %w", err)
	}

	return service.ClientAdapters{
		Remote:        remote,
		Storage:       storage,
		Transcription: transcription,
		Structuring:   structuring,
	}, nil
}

// Run performs one sync of every scope, then keeps syncing on the configured
// interval and resuming pipelines until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)

	for _, scopeID := range a.cfg.Sync.Scopes {
		if _, err := a.services.Coordinator.Sync(ctx, scopeID); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			// offline start is normal; the job retries on its interval
			a.logger.Warn().Err(err).Str("func", "App.Run").Str("scope_id", scopeID).Msg("initial sync failed")
		}
	}

	a.services.SyncJob.Start(ctx, a.cfg.Workers.SyncInterval)
	defer a.services.SyncJob.Stop()

	a.logger.Info().Strs("scopes", a.cfg.Sync.Scopes).Msg("client sync running")
	a.workers.Run(ctx)

	return nil
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) Coordinator() service.SyncCoordinator {
	return a.services.Coordinator
}

func (a *App) Pipeline() service.PublishPipeline {
	return a.services.Pipeline
}

func (a *App) Config() *config.ClientConfig {
	return a.cfg
}

// LoadApp reads the client configuration, sets up the rotating file logger
// and builds the App. It is the default [BackendLoader].
func LoadApp(ctx context.Context, configPath string) (Backend, error) {
	cfg, err := config.GetClientConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}

	log := logger.NewClientLogger(clientRole, logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	log.SetLevel(cfg.Log.Level)

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		log.Err(err).Str("func", "LoadApp").Msg("init client app error")
		return nil, err
	}
	return app, nil
}
