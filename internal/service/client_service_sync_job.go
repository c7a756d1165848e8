// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
)

type clientSyncJob struct {
	coordinator SyncCoordinator
	scopes      []string
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that syncs every scope on a
// ticker. The job is idle until Start is called. Interrupted pipelines are
// resumed separately by workers.PipelineResumer.
func NewClientSyncJob(coordinator SyncCoordinator, scopes []string, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{
		coordinator: coordinator,
		scopes:      scopes,
		logger:      logger,
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that runs a cycle every interval. If
// interval is zero or negative it defaults to 5 minutes. The goroutine exits
// when ctx is cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(j.logger.WithContext(ctx))
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.cycle(jobCtx)
			}
		}
	}()
}

// cycle syncs each scope independently so one failing scope does not starve
// the others.
func (j *clientSyncJob) cycle(ctx context.Context) {
	for _, scopeID := range j.scopes {
		report, err := j.coordinator.Sync(ctx, scopeID)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			j.logger.Err(err).
				Str("func", "clientSyncJob.cycle").
				Str("scope_id", scopeID).
				Msg("background sync failed")
			if errors.Is(err, ErrUnauthorized) {
				return
			}
			continue
		}

		j.logger.Debug().
			Str("func", "clientSyncJob.cycle").
			Str("scope_id", scopeID).
			Int("acked", len(report.Push.Acked)).
			Int("failed", len(report.Push.Failed)).
			Int("manual_merge", len(report.Push.ManualMerge)).
			Int("applied", report.Pull.Applied).
			Msg("background sync finished")
	}
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
