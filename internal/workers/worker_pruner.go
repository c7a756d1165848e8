// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
)

const (
	defaultPruneInterval = time.Hour
	defaultRetention     = 30 * 24 * time.Hour
)

// AppliedOperationsPruner bounds the applied-operations table. An operation
// id older than the retention window is no longer deduplicated, so the
// window must outlast the longest time a client may stay offline.
type AppliedOperationsPruner struct {
	repo      AppliedOperations
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	logger    *logger.Logger
}

func NewAppliedOperationsPruner(repo AppliedOperations, interval, retention time.Duration, logger *logger.Logger) *AppliedOperationsPruner {
	if interval <= 0 {
		interval = defaultPruneInterval
	}
	if retention <= 0 {
		retention = defaultRetention
	}
	return &AppliedOperationsPruner{
		repo:      repo,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

// Run prunes once immediately and then every interval until ctx is done.
func (p *AppliedOperationsPruner) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.prune(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *AppliedOperationsPruner) prune(ctx context.Context) {
	before := p.now().Add(-p.retention)

	pruned, err := p.repo.PruneAppliedOperations(ctx, before)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Err(err).Str("func", "AppliedOperationsPruner.prune").Msg("failed to prune applied operations")
		}
		return
	}

	p.logger.Debug().
		Str("func", "AppliedOperationsPruner.prune").
		Time("before", before).
		Int64("pruned", pruned).
		Msg("applied operations pruned")
}
