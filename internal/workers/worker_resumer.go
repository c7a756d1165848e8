// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

const defaultResumeInterval = 30 * time.Second

// PipelineResumer picks up publish pipelines left in an automatic stage, for
// example by a restart or a dropped connection, and drives them on.
type PipelineResumer struct {
	pipelines Pipelines
	interval  time.Duration
	logger    *logger.Logger
}

func NewPipelineResumer(pipelines Pipelines, interval time.Duration, logger *logger.Logger) *PipelineResumer {
	if interval <= 0 {
		interval = defaultResumeInterval
	}
	return &PipelineResumer{pipelines: pipelines, interval: interval, logger: logger}
}

// Run resumes once immediately and then every interval until ctx is done.
func (r *PipelineResumer) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.resume(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.resume(ctx)
		}
	}
}

func (r *PipelineResumer) resume(ctx context.Context) {
	records, err := r.pipelines.Resume(r.logger.WithContext(ctx))
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Err(err).Str("func", "PipelineResumer.resume").Msg("failed to resume pipelines")
		}
		return
	}

	for _, rec := range records {
		event := r.logger.Info()
		if rec.State == models.StateFailed {
			event = r.logger.Warn().Str("reason", rec.FailureReason)
		}
		event.Str("func", "PipelineResumer.resume").
			Str("handoff_id", rec.HandoffID).
			Str("state", string(rec.State)).
			Msg("pipeline resumed")
	}
}
