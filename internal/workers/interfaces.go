// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs periodic background jobs of the server and the client.
//
// A [Worker] blocks in Run until its context is cancelled; [Workers] runs a
// set of them side by side and returns once all of them have stopped.
package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-care-sync/models"
)

// Worker is a long-running background job.
//
// Implementations block in Run and return promptly after ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// AppliedOperations is the part of the entity repository the pruner needs.
type AppliedOperations interface {
	// PruneAppliedOperations deletes idempotency records applied before the
	// given time and returns how many were removed.
	PruneAppliedOperations(ctx context.Context, before time.Time) (int64, error)
}

// Pipelines is the part of the publish pipeline the resumer needs.
type Pipelines interface {
	Resume(ctx context.Context) ([]models.PipelineRecord, error)
}
