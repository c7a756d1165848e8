// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			Cache: Cache{ReplayTTL: Duration(24 * time.Hour)},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: Duration(30 * time.Second),
		},
		Adapter: Adapter{
			RequestTimeout: Duration(15 * time.Second),
		},
		Sync: Sync{
			PageSize:       100,
			RetryBase:      Duration(time.Second),
			MaxAttempts:    5,
			ManualMergeTTL: Duration(72 * time.Hour),
		},
		Pipeline: Pipeline{
			PollInterval:         Duration(2 * time.Second),
			StageTimeout:         Duration(10 * time.Minute),
			CollaboratorAttempts: 4,
			CollaboratorBackoff:  Duration(time.Second),
		},
		Workers: Workers{
			SyncInterval:     Duration(time.Minute),
			PipelineInterval: Duration(30 * time.Second),
			PruneInterval:    Duration(time.Hour),
			AppliedRetention: Duration(30 * 24 * time.Hour),
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}
