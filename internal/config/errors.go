// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid. Several may be joined into one error.
var (
	ErrInvalidAdapterConfigs  = errors.New("invalid adapter configuration")
	ErrInvalidStorageConfigs  = errors.New("invalid storage configuration")
	ErrInvalidServerConfigs   = errors.New("invalid server configuration")
	ErrInvalidAppConfigs      = errors.New("invalid app configuration")
	ErrInvalidSyncConfigs     = errors.New("invalid sync configuration")
	ErrInvalidPipelineConfigs = errors.New("invalid pipeline configuration")
	ErrInvalidWorkerConfigs   = errors.New("invalid worker configuration")
)

// ErrInvalidAddress is returned by [NetAddress.Set].
var ErrInvalidAddress = errors.New("invalid listen address")
