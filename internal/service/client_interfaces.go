// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock -exclude_interfaces=LocalState,ConflictResolver,IDGenerator

// LocalState is the client's transactional local store.
type LocalState interface {
	// Reader runs single statements outside a transaction.
	Reader() store.LocalTx
	// WithinTx commits every change made through tx together or none of them.
	WithinTx(ctx context.Context, fn func(tx store.LocalTx) error) error
}

// SyncCoordinator is the single writer of the client's local state. It
// records intents as pending operations, pushes them in order and merges
// remote changes back into the local store.
type SyncCoordinator interface {
	// Enqueue validates intent, queues it and applies it optimistically to the
	// local copy in one transaction. It returns the targeted entity id.
	Enqueue(ctx context.Context, intent models.Intent) (entityID string, err error)

	// Pull fetches and merges every page after the stored cursor of each
	// entity type in scopeID. No types means every synced type.
	Pull(ctx context.Context, scopeID string, entityTypes ...models.EntityType) (models.MergeResult, error)

	// Push drains pushable operations in enqueue order. Per-operation failures
	// are reported in the result; the error is set only when the drain stopped.
	Push(ctx context.Context) (models.PushResult, error)

	// Sync pushes, then pulls scopeID, as one serialized cycle.
	Sync(ctx context.Context, scopeID string) (models.SyncReport, error)

	// ResolveManualMerge settles an operation waiting for a manual merge.
	ResolveManualMerge(ctx context.Context, operationID string, resolution models.ManualResolution) error

	// RetryOperation makes an exhausted or backing-off operation pushable now.
	RetryOperation(ctx context.Context, operationID string) error

	Operations(ctx context.Context, statuses ...models.OperationStatus) ([]models.PendingOperation, error)
	Entity(ctx context.Context, entityType models.EntityType, id string) (models.LocalEntity, error)
	Entities(ctx context.Context, scopeID string, entityType models.EntityType) ([]models.LocalEntity, error)
	Status(ctx context.Context) (models.SyncStatus, error)
}

// ConflictResolver decides what happens to an operation the server rejected
// because its expected version was stale.
type ConflictResolver interface {
	Resolve(op models.PendingOperation, current models.Entity) Resolution
}

// PublishPipeline drives a handoff from captured audio to a published revision.
// Stage failures are recorded on the returned record, not returned as errors.
type PublishPipeline interface {
	Capture(ctx context.Context, req models.CaptureRequest) (models.PipelineRecord, error)

	// Run advances the pipeline until it reaches REVIEW, PUBLISHED or FAILED.
	Run(ctx context.Context, handoffID string) (models.PipelineRecord, error)

	// Resume runs every pipeline left in an automatic stage, e.g. after a restart.
	Resume(ctx context.Context) ([]models.PipelineRecord, error)

	// Retry moves a retryable FAILED pipeline back to its failed stage and runs it.
	Retry(ctx context.Context, handoffID string) (models.PipelineRecord, error)

	Confirm(ctx context.Context, handoffID, fieldID string) (models.PipelineRecord, error)
	EditBrief(ctx context.Context, handoffID string, brief models.StructuredBrief) (models.PipelineRecord, error)

	// Publish appends the reviewed brief to the revision ledger. Unconfirmed
	// medication changes block it with a ConfirmationRequired outcome.
	Publish(ctx context.Context, req models.PublishRequest) (models.PublishOutcome, error)

	Get(ctx context.Context, handoffID string) (models.PipelineRecord, error)
	List(ctx context.Context, states ...models.PipelineState) ([]models.PipelineRecord, error)
}

// ClientSyncJob defines the contract for a background worker that
// periodically syncs every configured scope and resumes pipelines.
type ClientSyncJob interface {
	// Start launches the background goroutine. It runs every interval,
	// defaulting to 5 minutes if interval is zero or negative. Any previously
	// running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}

// IDGenerator issues operation and entity ids.
type IDGenerator interface {
	Generate() string
}
