// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-care-sync/models"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	ErrEntityNotFound = errors.New("entity was not found")

	// ErrVersionConflict is returned when the expected version of a push does
	// not match the stored version. It is always wrapped in a
	// [*VersionConflictError] carrying the current record.
	ErrVersionConflict = errors.New("entity version conflict occurred")

	// ErrRevisionConflict is returned when a revision append names a stale
	// current revision. It is wrapped in a [*RevisionConflictError].
	ErrRevisionConflict = errors.New("handoff revision conflict occurred")

	ErrRevisionNotFound  = errors.New("revision was not found")
	ErrOperationNotFound = errors.New("pending operation was not found")
	ErrQueueEmpty        = errors.New("no pushable pending operation")
	ErrPipelineNotFound  = errors.New("pipeline was not found")
	ErrCacheMiss         = errors.New("replay cache miss")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
	ErrEncodingColumn       = errors.New("failed to encode column value")

	// ErrTransient marks failures the classifier considers retryable
	// (connection loss, serialization failure, deadlock).
	ErrTransient = errors.New("transient database error")
)

// VersionConflictError carries the record that won the race.
type VersionConflictError struct {
	Current models.Entity
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: %s/%s is at version %d", ErrVersionConflict, e.Current.Type, e.Current.ID, e.Current.Version)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}

// RevisionConflictError carries the handoff's actual current revision.
type RevisionConflictError struct {
	HandoffID       string
	CurrentRevision int64
}

func (e *RevisionConflictError) Error() string {
	return fmt.Sprintf("%s: handoff %s is at revision %d", ErrRevisionConflict, e.HandoffID, e.CurrentRevision)
}

func (e *RevisionConflictError) Unwrap() error {
	return ErrRevisionConflict
}
