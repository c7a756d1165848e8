// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-care-sync/models"
)

// EntityStore is the client's durable cache of entities, keyed by
// (entity type, id) and indexed by scope.
type EntityStore interface {
	// GetEntity returns ErrEntityNotFound when nothing is cached under the key.
	GetEntity(ctx context.Context, entityType models.EntityType, id string) (models.LocalEntity, error)
	// ListEntities returns the live entities of one collection in a scope.
	ListEntities(ctx context.Context, scopeID string, entityType models.EntityType) ([]models.LocalEntity, error)
	SaveEntity(ctx context.Context, entity models.LocalEntity) error
}

// OfflineQueue is the durable log of operations not yet acknowledged by the server.
type OfflineQueue interface {
	Enqueue(ctx context.Context, op models.PendingOperation) (models.PendingOperation, error)
	// PeekNext returns the earliest pushable operation or ErrQueueEmpty.
	// An operation is pushable when it is pending, its backoff has elapsed and
	// no earlier operation on the same entity is still queued.
	PeekNext(ctx context.Context) (models.PendingOperation, error)
	Ack(ctx context.Context, operationID string) error
	// MarkFailed records a failed attempt and schedules the next one.
	MarkFailed(ctx context.Context, operationID string, cause error) (models.PendingOperation, error)
	GetOperation(ctx context.Context, operationID string) (models.PendingOperation, error)
	UpdateOperation(ctx context.Context, op models.PendingOperation) error
	// ListOperations returns operations in enqueue order, optionally filtered by status.
	ListOperations(ctx context.Context, statuses ...models.OperationStatus) ([]models.PendingOperation, error)
	// EntityOperations returns the queued operations of one entity in enqueue order.
	EntityOperations(ctx context.Context, key models.Key) ([]models.PendingOperation, error)
}

// CursorStore persists pull high-water marks.
type CursorStore interface {
	// GetCursor returns a zero cursor when the collection was never pulled.
	GetCursor(ctx context.Context, scopeID string, entityType models.EntityType) (models.SyncCursor, error)
	SaveCursor(ctx context.Context, cursor models.SyncCursor) error
	// ListCursors returns every saved cursor ordered by scope and type.
	ListCursors(ctx context.Context) ([]models.SyncCursor, error)
}

// LocalTx is every local-state operation bound to one connection or transaction.
type LocalTx interface {
	EntityStore
	OfflineQueue
	CursorStore
}

// PipelineRepository persists publish pipeline records.
type PipelineRepository interface {
	// GetPipeline returns ErrPipelineNotFound when no record exists.
	GetPipeline(ctx context.Context, handoffID string) (models.PipelineRecord, error)
	SavePipeline(ctx context.Context, record models.PipelineRecord) error
	ListPipelines(ctx context.Context, states ...models.PipelineState) ([]models.PipelineRecord, error)
	// ClaimPipeline takes or renews owner's lease on a record until ttl
	// passes. It reports false when another owner holds a live lease and
	// returns ErrPipelineNotFound when no record exists.
	ClaimPipeline(ctx context.Context, handoffID, owner string, ttl time.Duration) (bool, error)
	// ReleasePipeline drops owner's lease. Releasing a lease held by
	// someone else is a no-op.
	ReleasePipeline(ctx context.Context, handoffID, owner string) error
}
