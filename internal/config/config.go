// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// StructuredConfig is the top-level configuration container shared by the
// client and the server. It is populated by merging defaults, environment
// variables, command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//   - json: key in the JSON config file.
type StructuredConfig struct {
	App      App      `envPrefix:"APP_" json:"app"`
	Storage  Storage  `envPrefix:"STORAGE_" json:"storage"`
	Server   Server   `envPrefix:"SERVER_" json:"server"`
	Adapter  Adapter  `envPrefix:"ADAPTER_" json:"adapter"`
	Sync     Sync     `envPrefix:"SYNC_" json:"sync"`
	Pipeline Pipeline `envPrefix:"PIPELINE_" json:"pipeline"`
	Workers  Workers  `envPrefix:"WORKERS_" json:"workers"`
	Log      Log      `envPrefix:"LOG_" json:"log"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG" json:"-"`

	// DotEnvPath is the .env file loaded before environment parsing.
	DotEnvPath string `env:"DOTENV" json:"-"`
}

// App holds token and versioning settings.
type App struct {
	// TokenSignKey verifies bearer tokens issued by the authentication provider.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY" json:"token_sign_key"`

	// TokenIssuer is the expected "iss" claim.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER" json:"token_issuer"`

	// Version is exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION" json:"version"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	DB    DB    `envPrefix:"DB_" json:"db"`
	Cache Cache `envPrefix:"CACHE_" json:"cache"`
}

// DB holds the database connection string: a PostgreSQL DSN on the server,
// a SQLite file path on the client.
type DB struct {
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI" json:"dsn"`
}

// Cache configures the Redis replay cache for push responses.
// An empty URL disables the cache.
type Cache struct {
	// Env: STORAGE_CACHE_REDIS_URL
	RedisURL string `env:"REDIS_URL" json:"redis_url"`

	// ReplayTTL is how long a push response is kept for replay.
	// Env: STORAGE_CACHE_REPLAY_TTL
	ReplayTTL Duration `env:"REPLAY_TTL" json:"replay_ttl"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS" json:"http_address"`

	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
}

// Adapter holds the client's outbound endpoints.
type Adapter struct {
	// HTTPAddress is the base URL of the authoritative store API.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS" json:"http_address"`

	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`

	// Token is the bearer token issued by the authentication provider.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN" json:"token"`

	// Env: ADAPTER_OBJECT_STORAGE_ADDRESS
	ObjectStorageAddress string `env:"OBJECT_STORAGE_ADDRESS" json:"object_storage_address"`

	// Env: ADAPTER_TRANSCRIPTION_ADDRESS
	TranscriptionAddress string `env:"TRANSCRIPTION_ADDRESS" json:"transcription_address"`

	// Env: ADAPTER_STRUCTURING_ADDRESS
	StructuringAddress string `env:"STRUCTURING_ADDRESS" json:"structuring_address"`
}

// Sync tunes pull paging, push retries and manual-merge escalation.
type Sync struct {
	// Scopes lists the care circles the client keeps in sync.
	// Env: SYNC_SCOPES (comma separated)
	Scopes []string `env:"SCOPES" envSeparator:"," json:"scopes"`

	// Env: SYNC_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE" json:"page_size"`

	// RetryBase is the first backoff delay; it doubles per attempt.
	// Env: SYNC_RETRY_BASE
	RetryBase Duration `env:"RETRY_BASE" json:"retry_base"`

	// Env: SYNC_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS" json:"max_attempts"`

	// ManualMergeTTL is how long a manual merge may stay unresolved before
	// it is escalated.
	// Env: SYNC_MANUAL_MERGE_TTL
	ManualMergeTTL Duration `env:"MANUAL_MERGE_TTL" json:"manual_merge_ttl"`
}

// Pipeline tunes collaborator polling and retries of the publish pipeline.
type Pipeline struct {
	// Env: PIPELINE_POLL_INTERVAL
	PollInterval Duration `env:"POLL_INTERVAL" json:"poll_interval"`

	// StageTimeout bounds how long one collaborator stage may run.
	// Env: PIPELINE_STAGE_TIMEOUT
	StageTimeout Duration `env:"STAGE_TIMEOUT" json:"stage_timeout"`

	// Env: PIPELINE_COLLABORATOR_ATTEMPTS
	CollaboratorAttempts int `env:"COLLABORATOR_ATTEMPTS" json:"collaborator_attempts"`

	// Env: PIPELINE_COLLABORATOR_BACKOFF
	CollaboratorBackoff Duration `env:"COLLABORATOR_BACKOFF" json:"collaborator_backoff"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval Duration `env:"SYNC_INTERVAL" json:"sync_interval"`

	// PipelineInterval is how often interrupted pipelines are resumed.
	// Env: WORKERS_PIPELINE_INTERVAL
	PipelineInterval Duration `env:"PIPELINE_INTERVAL" json:"pipeline_interval"`

	// PruneInterval is how often the server drops old applied-operation rows.
	// Env: WORKERS_PRUNE_INTERVAL
	PruneInterval Duration `env:"PRUNE_INTERVAL" json:"prune_interval"`

	// AppliedRetention is how long an operation id stays deduplicated.
	// Env: WORKERS_APPLIED_RETENTION
	AppliedRetention Duration `env:"APPLIED_RETENTION" json:"applied_retention"`
}

// Log configures verbosity and, on the client, the rotating log file.
type Log struct {
	// Env: LOG_LEVEL
	Level string `env:"LEVEL" json:"level"`

	// Env: LOG_FILE
	File string `env:"FILE" json:"file"`

	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB" json:"max_size_mb"`

	// Env: LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS" json:"max_backups"`

	// Env: LOG_MAX_AGE_DAYS
	MaxAgeDays int `env:"MAX_AGE_DAYS" json:"max_age_days"`
}
