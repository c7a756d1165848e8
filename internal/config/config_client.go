// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"time"
)

// ClientAdapter holds the outbound endpoints used by the client.
type ClientAdapter struct {
	HTTPAddress          string
	RequestTimeout       time.Duration
	Token                string
	ObjectStorageAddress string
	TranscriptionAddress string
	StructuringAddress   string
}

// ClientSync holds offline queue and pull settings.
type ClientSync struct {
	Scopes         []string
	PageSize       int
	RetryBase      time.Duration
	MaxAttempts    int
	ManualMergeTTL time.Duration
}

// ClientPipeline holds publish pipeline settings.
type ClientPipeline struct {
	PollInterval         time.Duration
	StageTimeout         time.Duration
	CollaboratorAttempts int
	CollaboratorBackoff  time.Duration
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	SyncInterval     time.Duration
	PipelineInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Adapter  ClientAdapter
	DSN      string
	Sync     ClientSync
	Pipeline ClientPipeline
	Workers  ClientWorkers
	Log      Log
}

// GetClientConfig builds and validates the client configuration. jsonPath,
// when non-empty, overrides the CONFIG environment variable.
func GetClientConfig(jsonPath string) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withDotEnv(os.Getenv("DOTENV")).
		withEnv().
		withJSON(jsonPath).
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:          cfg.Adapter.HTTPAddress,
			RequestTimeout:       cfg.Adapter.RequestTimeout.Std(),
			Token:                cfg.Adapter.Token,
			ObjectStorageAddress: cfg.Adapter.ObjectStorageAddress,
			TranscriptionAddress: cfg.Adapter.TranscriptionAddress,
			StructuringAddress:   cfg.Adapter.StructuringAddress,
		},
		DSN: cfg.Storage.DB.DSN,
		Sync: ClientSync{
			Scopes:         cfg.Sync.Scopes,
			PageSize:       cfg.Sync.PageSize,
			RetryBase:      cfg.Sync.RetryBase.Std(),
			MaxAttempts:    cfg.Sync.MaxAttempts,
			ManualMergeTTL: cfg.Sync.ManualMergeTTL.Std(),
		},
		Pipeline: ClientPipeline{
			PollInterval:         cfg.Pipeline.PollInterval.Std(),
			StageTimeout:         cfg.Pipeline.StageTimeout.Std(),
			CollaboratorAttempts: cfg.Pipeline.CollaboratorAttempts,
			CollaboratorBackoff:  cfg.Pipeline.CollaboratorBackoff.Std(),
		},
		Workers: ClientWorkers{
			SyncInterval:     cfg.Workers.SyncInterval.Std(),
			PipelineInterval: cfg.Workers.PipelineInterval.Std(),
		},
		Log: cfg.Log,
	}
}
