// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// RetryPolicy is the per-operation exponential backoff of the offline queue.
type RetryPolicy struct {
	// Base is the delay after the first failure; it doubles per attempt.
	Base time.Duration
	// MaxAttempts is the number of failures after which an operation is exhausted.
	MaxAttempts int
	// MaxDelay caps a single delay.
	MaxDelay time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Base <= 0 {
		p.Base = time.Second
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 5
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 5 * time.Minute
	}
	return p
}

// Delay returns the wait after the given number of failed attempts.
func (p RetryPolicy) Delay(attempts int) time.Duration {
	if attempts < 1 {
		return 0
	}
	delay := p.Base
	for i := 1; i < attempts && delay < p.MaxDelay; i++ {
		delay *= 2
	}
	return min(delay, p.MaxDelay)
}

func scanOperation(row rowScanner) (models.PendingOperation, error) {
	var (
		op                                         models.PendingOperation
		payload, base                              string
		expectedVersion                            sql.NullInt64
		enqueuedAt, nextAttemptAt, statusChangedAt int64
		conflict                                   sql.NullString
	)

	err := row.Scan(
		&op.Seq,
		&op.ID,
		&op.ScopeID,
		&op.EntityType,
		&op.EntityID,
		&op.Kind,
		&payload,
		&base,
		&expectedVersion,
		&enqueuedAt,
		&op.Attempts,
		&op.LastError,
		&nextAttemptAt,
		&op.Status,
		&statusChangedAt,
		&conflict,
	)
	if err != nil {
		return models.PendingOperation{}, err
	}

	if op.Payload, err = decodeFields(payload); err != nil {
		return models.PendingOperation{}, err
	}
	if op.Base, err = decodeFields(base); err != nil {
		return models.PendingOperation{}, err
	}
	if op.Conflict, err = decodeJSON[models.MergeConflict](conflict); err != nil {
		return models.PendingOperation{}, err
	}
	op.ExpectedVersion = fromNullInt64(expectedVersion)
	op.EnqueuedAt = fromMicros(enqueuedAt)
	op.NextAttemptAt = fromMicros(nextAttemptAt)
	op.StatusChangedAt = fromMicros(statusChangedAt)

	return op, nil
}

// Enqueue appends op to the queue and returns it with Seq and defaults filled in.
func (q *localQueries) Enqueue(ctx context.Context, op models.PendingOperation) (models.PendingOperation, error) {
	now := q.now()
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = now
	}
	if op.NextAttemptAt.IsZero() {
		op.NextAttemptAt = op.EnqueuedAt
	}
	if op.Status == "" {
		op.Status = models.OperationPending
	}
	op.StatusChangedAt = now

	payload, err := encodeFields(op.Payload)
	if err != nil {
		return models.PendingOperation{}, err
	}
	base, err := encodeFields(op.Base)
	if err != nil {
		return models.PendingOperation{}, err
	}
	conflict, err := encodeJSON(op.Conflict)
	if err != nil {
		return models.PendingOperation{}, err
	}

	err = q.db.QueryRowContext(ctx, insertOperation,
		op.ID,
		op.ScopeID,
		op.EntityType,
		op.EntityID,
		op.Kind,
		payload,
		base,
		nullInt64(op.ExpectedVersion),
		toMicros(op.EnqueuedAt),
		op.Attempts,
		op.LastError,
		toMicros(op.NextAttemptAt),
		op.Status,
		toMicros(op.StatusChangedAt),
		conflict,
	).Scan(&op.Seq)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localQueries.Enqueue").
			Str("operation_id", op.ID).
			Str("entity_id", op.EntityID).
			Msg("failed to enqueue operation")
		return models.PendingOperation{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return op, nil
}

func (q *localQueries) PeekNext(ctx context.Context) (models.PendingOperation, error) {
	op, err := scanOperation(q.db.QueryRowContext(ctx, peekNextOperation, toMicros(q.now())))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PendingOperation{}, ErrQueueEmpty
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localQueries.PeekNext").Msg("failed to peek next operation")
		return models.PendingOperation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return op, nil
}

// Ack removes an acknowledged or definitively resolved operation.
func (q *localQueries) Ack(ctx context.Context, operationID string) error {
	res, err := q.db.ExecContext(ctx, deleteOperation, operationID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localQueries.Ack").
			Str("operation_id", operationID).
			Msg("failed to delete acknowledged operation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOperationNotFound
	}

	return nil
}

// MarkFailed increments the attempt count and either schedules the next
// attempt with exponential backoff or, once MaxAttempts is reached, moves the
// operation to OperationExhausted.
func (q *localQueries) MarkFailed(ctx context.Context, operationID string, cause error) (models.PendingOperation, error) {
	op, err := q.GetOperation(ctx, operationID)
	if err != nil {
		return models.PendingOperation{}, err
	}

	now := q.now()
	op.Attempts++
	if cause != nil {
		op.LastError = cause.Error()
	}
	if op.Attempts >= q.policy.MaxAttempts {
		op.Status = models.OperationExhausted
		op.StatusChangedAt = now
	} else {
		op.NextAttemptAt = now.Add(q.policy.Delay(op.Attempts))
	}

	if err = q.UpdateOperation(ctx, op); err != nil {
		return models.PendingOperation{}, err
	}

	logger.FromContext(ctx).Debug().
		Str("func", "localQueries.MarkFailed").
		Str("operation_id", operationID).
		Int("attempts", op.Attempts).
		Str("status", string(op.Status)).
		Time("next_attempt_at", op.NextAttemptAt).
		Msg("operation attempt failed")

	return op, nil
}

func (q *localQueries) GetOperation(ctx context.Context, operationID string) (models.PendingOperation, error) {
	op, err := scanOperation(q.db.QueryRowContext(ctx, getOperation, operationID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PendingOperation{}, ErrOperationNotFound
	}
	if err != nil {
		return models.PendingOperation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return op, nil
}

// UpdateOperation rewrites the mutable columns of op. Target and queue
// position never change; kind changes only when a conflicting CREATE is
// merged into an UPDATE of the existing record.
func (q *localQueries) UpdateOperation(ctx context.Context, op models.PendingOperation) error {
	payload, err := encodeFields(op.Payload)
	if err != nil {
		return err
	}
	base, err := encodeFields(op.Base)
	if err != nil {
		return err
	}
	conflict, err := encodeJSON(op.Conflict)
	if err != nil {
		return err
	}
	if op.StatusChangedAt.IsZero() {
		op.StatusChangedAt = q.now()
	}

	res, err := q.db.ExecContext(ctx, updateOperation,
		op.Kind,
		payload,
		base,
		nullInt64(op.ExpectedVersion),
		op.Attempts,
		op.LastError,
		toMicros(op.NextAttemptAt),
		op.Status,
		toMicros(op.StatusChangedAt),
		conflict,
		op.ID,
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localQueries.UpdateOperation").
			Str("operation_id", op.ID).
			Msg("failed to update operation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOperationNotFound
	}

	return nil
}

func (q *localQueries) ListOperations(ctx context.Context, statuses ...models.OperationStatus) ([]models.PendingOperation, error) {
	query := listOperations
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (?` + strings.Repeat(`, ?`, len(statuses)-1) + `)`
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	query += ` ORDER BY seq;`

	return q.queryOperations(ctx, "localQueries.ListOperations", query, args...)
}

func (q *localQueries) EntityOperations(ctx context.Context, key models.Key) ([]models.PendingOperation, error) {
	return q.queryOperations(ctx, "localQueries.EntityOperations", listEntityOperations, key.Type, key.ID)
}

func (q *localQueries) queryOperations(ctx context.Context, funcName, query string, args ...any) ([]models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to execute query for listing operations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ops := make([]models.PendingOperation, 0, 16)
	for rows.Next() {
		op, scanErr := scanOperation(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", funcName).Msg("failed to scan operation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		ops = append(ops, op)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ops, nil
}
