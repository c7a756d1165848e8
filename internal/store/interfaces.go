// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-care-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// EntityRepository is the authoritative, version-checked entity store.
type EntityRepository interface {
	// PullPage returns records ordered by (updated_at, id) strictly after the cursor.
	PullPage(ctx context.Context, req models.PullRequest) ([]models.Entity, error)
	GetEntity(ctx context.Context, entityType models.EntityType, id string) (models.Entity, error)
	// ApplyOperation applies a push in one transaction: the version is read,
	// compared and incremented atomically and the operation id is recorded
	// for deduplication. replayed is true when the operation id was seen before.
	ApplyOperation(ctx context.Context, req models.PushRequest) (entity models.Entity, replayed bool, err error)
	// PruneAppliedOperations forgets operation ids applied before the cutoff
	// and returns how many were removed.
	PruneAppliedOperations(ctx context.Context, before time.Time) (int64, error)
}

// RevisionRepository is the append-only handoff revision ledger.
type RevisionRepository interface {
	// AppendRevision inserts rev as revision expectedCurrent+1 and advances the
	// handoff's current revision pointer in the same transaction.
	AppendRevision(ctx context.Context, rev models.Revision, expectedCurrent int64) (models.Revision, error)
	GetRevision(ctx context.Context, handoffID string, number int64) (models.Revision, error)
	ListRevisions(ctx context.Context, handoffID string) ([]models.Revision, error)
}

// ReplayCache remembers push results by operation id.
type ReplayCache interface {
	// GetResult returns ErrCacheMiss when nothing is cached.
	GetResult(ctx context.Context, operationID string) (models.Entity, error)
	PutResult(ctx context.Context, operationID string, entity models.Entity, ttl time.Duration) error
}
