package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/handler"
	myHTTP "github.com/MKhiriev/go-care-sync/internal/handler/http"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/service"
	"github.com/MKhiriev/go-care-sync/internal/workers"
)

// blockingWorker работает до отмены контекста.
type blockingWorker struct {
	stopped atomic.Bool
}

func (w *blockingWorker) Run(ctx context.Context) {
	<-ctx.Done()
	w.stopped.Store(true)
}

func testHandlers() *handler.Handlers {
	return &handler.Handlers{HTTP: myHTTP.NewHandler(&service.Services{}, logger.Nop())}
}

// ── NewServer ───────────────────────────────────────────────────────────────

func TestNewServer(t *testing.T) {
	cfg := &config.ServerConfig{HTTPAddress: "127.0.0.1:0", RequestTimeout: 5 * time.Second}

	t.Run("http handler present", func(t *testing.T) {
		s, err := NewServer(testHandlers(), nil, cfg, logger.Nop())

		require.NoError(t, err)
		require.NotNil(t, s)
	})

	t.Run("no handlers", func(t *testing.T) {
		_, err := NewServer(&handler.Handlers{}, nil, cfg, logger.Nop())

		assert.ErrorIs(t, err, errNoServersAreCreated)
	})

	t.Run("no address", func(t *testing.T) {
		_, err := NewServer(testHandlers(), nil, &config.ServerConfig{}, logger.Nop())

		assert.ErrorIs(t, err, errNoServersAreCreated)
	})
}

func TestNewHTTPServer_AppliesTimeouts(t *testing.T) {
	cfg := &config.ServerConfig{HTTPAddress: ":8080", RequestTimeout: 7 * time.Second}

	h := newHTTPServer(http.NewServeMux(), cfg, logger.Nop())

	assert.Equal(t, ":8080", h.server.Addr)
	assert.Equal(t, 7*time.Second, h.server.ReadTimeout)
	assert.Equal(t, 7*time.Second, h.server.WriteTimeout)
	assert.Equal(t, 7*time.Second, h.server.ReadHeaderTimeout)
}

// ── run ─────────────────────────────────────────────────────────────────────

func TestServer_RunStopsWorkersOnCancel(t *testing.T) {
	cfg := &config.ServerConfig{HTTPAddress: "127.0.0.1:0", RequestTimeout: time.Second}
	worker := &blockingWorker{}

	s, err := NewServer(testHandlers(), workers.NewWorkers(worker), cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.(*server).run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
	assert.True(t, worker.stopped.Load())
}
