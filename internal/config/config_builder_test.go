package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterSourcesOverride verifies that non-zero fields of later
// configs win while zero fields keep earlier values.
func TestBuild_LaterSourcesOverride(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs,
		&StructuredConfig{Sync: Sync{PageSize: 50}},
		&StructuredConfig{Sync: Sync{Scopes: []string{"circle-1"}}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.Equal(t, []string{"circle-1"}, cfg.Sync.Scopes)
	assert.Equal(t, 5, cfg.Sync.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Sync.RetryBase.Std())
}

// ── sources ───────────────────────────────────────────────────────────────────

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{
		"SYNC_SCOPES":           "circle-1,circle-2",
		"SYNC_MANUAL_MERGE_TTL": "48h",
	})

	cfg, err := newConfigBuilder().withDefaults().withEnv().build()
	require.NoError(t, err)
	assert.Equal(t, []string{"circle-1", "circle-2"}, cfg.Sync.Scopes)
	assert.Equal(t, 48*time.Hour, cfg.Sync.ManualMergeTTL.Std())
}

func TestWithDotEnv_MissingFileIsIgnored(t *testing.T) {
	b := newConfigBuilder().withDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, b.err)
}

func TestWithDotEnv_LoadsValues(t *testing.T) {
	clearEnvVars(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADAPTER_TOKEN=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("ADAPTER_TOKEN") })

	cfg, err := newConfigBuilder().withDotEnv(path).withEnv().build()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Adapter.Token)
}

func TestWithFlags_InvalidFlagSetsError(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-a", "not-an-address"})
	assert.Error(t, b.err)
}

func TestWithJSON_NoOpWhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON("")
	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_UsesLastPath(t *testing.T) {
	first := writeTempJSONConfig(t, map[string]any{"app": map[string]any{"version": "first"}})
	second := writeTempJSONConfig(t, map[string]any{"app": map[string]any{"version": "second"}})

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: first},
		&StructuredConfig{JSONFilePath: second},
	)

	cfg, err := b.withJSON("").build()
	require.NoError(t, err)
	assert.Equal(t, "second", cfg.App.Version)
}

func TestWithJSON_ExplicitPathWins(t *testing.T) {
	fromEnv := writeTempJSONConfig(t, map[string]any{"app": map[string]any{"version": "env"}})
	explicit := writeTempJSONConfig(t, map[string]any{"app": map[string]any{"version": "explicit"}})

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: fromEnv})

	cfg, err := b.withJSON(explicit).build()
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.App.Version)
	assert.Equal(t, explicit, cfg.JSONFilePath)
}

func TestWithJSON_SetsErrorWhenFileNotFound(t *testing.T) {
	b := newConfigBuilder().withJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, b.err)
}

// ── entry points ──────────────────────────────────────────────────────────────

func TestGetClientConfig_FromJSON(t *testing.T) {
	clearEnvVars(t)
	path := writeTempJSONConfig(t, map[string]any{
		"storage": map[string]any{"db": map[string]any{"dsn": filepath.Join(t.TempDir(), "care.db")}},
		"adapter": map[string]any{"http_address": "http://localhost:8080", "token": "tkn"},
		"sync":    map[string]any{"scopes": []string{"circle-1"}, "retry_base": "2s"},
	})

	cfg, err := GetClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tkn", cfg.Adapter.Token)
	assert.Equal(t, 2*time.Second, cfg.Sync.RetryBase)
	assert.Equal(t, 100, cfg.Sync.PageSize)
	assert.Equal(t, 72*time.Hour, cfg.Sync.ManualMergeTTL)
}

func TestLoadServerConfig_FlagsOverrideEnv(t *testing.T) {
	setEnvVars(t, map[string]string{
		"STORAGE_DB_DATABASE_URI": "postgres://env",
		"APP_TOKEN_SIGN_KEY":      "secret",
		"APP_TOKEN_ISSUER":        "auth",
	})

	cfg, err := loadServerConfig([]string{"-d", "postgres://flag", "-a", "localhost:9000"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag", cfg.DSN)
	assert.Equal(t, "localhost:9000", cfg.HTTPAddress)
	assert.Equal(t, 24*time.Hour, cfg.ReplayTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Retention)
}
