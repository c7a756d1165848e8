package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// newSyncServer отвечает пустой страницей на любой pull
func newSyncServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var pulls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			pulls.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	return srv, &pulls
}

func newTestClientConfig(t *testing.T, address string) *config.ClientConfig {
	return &config.ClientConfig{
		Adapter: config.ClientAdapter{
			HTTPAddress:          address,
			RequestTimeout:       2 * time.Second,
			ObjectStorageAddress: address,
			TranscriptionAddress: address,
			StructuringAddress:   address,
		},
		DSN: filepath.Join(t.TempDir(), "data", "care-sync.db"),
		Sync: config.ClientSync{
			Scopes:      []string{"circle-1"},
			PageSize:    50,
			RetryBase:   time.Second,
			MaxAttempts: 5,
		},
		Workers: config.ClientWorkers{
			SyncInterval:     time.Hour,
			PipelineInterval: time.Hour,
		},
	}
}

// ── NewApp ───────────────────────────────────────────────────────────────────

func TestNewApp(t *testing.T) {
	srv, _ := newSyncServer(t)
	ctx := context.Background()

	app, err := NewApp(ctx, newTestClientConfig(t, srv.URL), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.NotNil(t, app.Coordinator())
	assert.NotNil(t, app.Pipeline())
	assert.Equal(t, []string{"circle-1"}, app.Config().Sync.Scopes)

	// свежая база: очередь пуста
	status, err := app.Coordinator().Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.QueuedOps)
}

func TestNewApp_InvalidAdapterAddress(t *testing.T) {
	cfg := newTestClientConfig(t, "")

	app, err := NewApp(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.Nil(t, app)
}

func TestApp_CloseWithoutDatabase(t *testing.T) {
	app := &App{}
	assert.NoError(t, app.Close())
}

// ── Run ──────────────────────────────────────────────────────────────────────

func TestApp_Run(t *testing.T) {
	srv, pulls := newSyncServer(t)

	app, err := NewApp(context.Background(), newTestClientConfig(t, srv.URL), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	// начальная синхронизация тянет каждый тип сущностей
	require.Eventually(t, func() bool {
		return int(pulls.Load()) >= len(models.SyncedEntityTypes)
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// сервер недоступен: клиент стартует офлайн и не падает
func TestApp_Run_Offline(t *testing.T) {
	srv, _ := newSyncServer(t)
	address := srv.URL
	srv.Close()

	app, err := NewApp(context.Background(), newTestClientConfig(t, address), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, app.Run(ctx))
}
