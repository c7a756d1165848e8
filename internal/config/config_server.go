// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"time"
)

// ServerConfig is the validated view of [StructuredConfig] used by cmd/server.
type ServerConfig struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	DSN            string
	RedisURL       string
	ReplayTTL      time.Duration
	PruneInterval  time.Duration
	Retention      time.Duration
	TokenSignKey   string
	TokenIssuer    string
	Version        string
	LogLevel       string
}

// GetServerConfig loads, merges, and validates the server configuration from
// defaults, .env, environment, os.Args flags and the JSON file.
func GetServerConfig() (*ServerConfig, error) {
	return loadServerConfig(os.Args[1:])
}

func loadServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withDotEnv(os.Getenv("DOTENV")).
		withEnv().
		withFlags(args).
		withJSON("").
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout.Std(),
		DSN:            cfg.Storage.DB.DSN,
		RedisURL:       cfg.Storage.Cache.RedisURL,
		ReplayTTL:      cfg.Storage.Cache.ReplayTTL.Std(),
		PruneInterval:  cfg.Workers.PruneInterval.Std(),
		Retention:      cfg.Workers.AppliedRetention.Std(),
		TokenSignKey:   cfg.App.TokenSignKey,
		TokenIssuer:    cfg.App.TokenIssuer,
		Version:        cfg.App.Version,
		LogLevel:       cfg.Log.Level,
	}

	return serverCfg, serverCfg.validate()
}
