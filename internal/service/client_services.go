// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/internal/validators"
)

// ClientAdapters groups the client's outbound collaborators.
type ClientAdapters struct {
	Remote        adapter.RemoteStore
	Storage       adapter.ObjectStorage
	Transcription adapter.AsyncJobService
	Structuring   adapter.AsyncJobService
}

type ClientServices struct {
	Coordinator SyncCoordinator
	Pipeline    PublishPipeline
	SyncJob     ClientSyncJob
}

func NewClientServices(local *store.LocalStore, adapters ClientAdapters, cfg *config.ClientConfig, logger *logger.Logger) *ClientServices {
	briefs := validators.NewBriefValidator()

	coordinator := NewSyncCoordinator(
		local,
		local.Pipelines(),
		adapters.Remote,
		NewConflictResolver(DefaultFieldPolicies()),
		validators.NewRequestValidator(briefs),
		utils.NewUUIDGenerator(),
		cfg.Sync,
		logger,
	)

	pipeline := NewPublishPipeline(
		local.Pipelines(),
		coordinator,
		adapters.Remote,
		adapters.Storage,
		adapters.Transcription,
		adapters.Structuring,
		briefs,
		cfg.Pipeline,
		logger,
	)

	return &ClientServices{
		Coordinator: coordinator,
		Pipeline:    pipeline,
		SyncJob:     NewClientSyncJob(coordinator, cfg.Sync.Scopes, logger),
	}
}
