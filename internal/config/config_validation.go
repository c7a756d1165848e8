// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"strings"
)

func (cfg *ServerConfig) validate() error {
	var err error
	if cfg.DSN == "" {
		err = errors.Join(err, ErrInvalidStorageConfigs)
	}
	if cfg.HTTPAddress == "" || cfg.RequestTimeout <= 0 {
		err = errors.Join(err, ErrInvalidServerConfigs)
	}
	if cfg.TokenSignKey == "" || cfg.TokenIssuer == "" {
		err = errors.Join(err, ErrInvalidAppConfigs)
	}
	if cfg.PruneInterval <= 0 || cfg.Retention <= 0 {
		err = errors.Join(err, ErrInvalidWorkerConfigs)
	}
	return err
}

func (cfg *ClientConfig) validate() error {
	var err error
	if cfg.DSN == "" || strings.Contains(cfg.DSN, ":memory:") {
		err = errors.Join(err, ErrInvalidStorageConfigs)
	}
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.Token == "" {
		err = errors.Join(err, ErrInvalidAdapterConfigs)
	}
	if len(cfg.Sync.Scopes) == 0 || cfg.Sync.PageSize <= 0 || cfg.Sync.MaxAttempts <= 0 || cfg.Sync.RetryBase <= 0 {
		err = errors.Join(err, ErrInvalidSyncConfigs)
	}
	if cfg.Pipeline.PollInterval <= 0 || cfg.Pipeline.StageTimeout <= 0 || cfg.Pipeline.CollaboratorAttempts <= 0 {
		err = errors.Join(err, ErrInvalidPipelineConfigs)
	}
	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.PipelineInterval <= 0 {
		err = errors.Join(err, ErrInvalidWorkerConfigs)
	}
	return err
}
