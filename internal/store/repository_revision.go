// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// revisionRepository is the PostgreSQL-backed [RevisionRepository].
type revisionRepository struct {
	*DB
	logger *logger.Logger
}

// NewRevisionRepository constructs a [RevisionRepository] over db.
func NewRevisionRepository(db *DB, logger *logger.Logger) RevisionRepository {
	return &revisionRepository{
		DB:     db,
		logger: logger,
	}
}

func scanRevision(row rowScanner) (models.Revision, error) {
	var (
		rev     models.Revision
		content []byte
	)

	err := row.Scan(
		&rev.HandoffID,
		&rev.Number,
		&rev.ScopeID,
		&content,
		&rev.ContentHash,
		&rev.EditorID,
		&rev.ChangeNote,
		&rev.CreatedAt,
	)
	if err != nil {
		return models.Revision{}, err
	}
	if err = json.Unmarshal(content, &rev.Content); err != nil {
		return models.Revision{}, err
	}
	rev.CreatedAt = rev.CreatedAt.UTC()

	return rev, nil
}

// AppendRevision writes rev as revision expectedCurrent+1.
//
// The handoff row is locked for the duration of the transaction, so two
// publishers racing on the same number are serialized and the loser gets a
// [*RevisionConflictError]. Re-sending an already committed append (same
// number, same content hash) returns the stored revision instead.
func (r *revisionRepository) AppendRevision(ctx context.Context, rev models.Revision, expectedCurrent int64) (models.Revision, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "revisionRepository.AppendRevision").
		Str("handoff_id", rev.HandoffID).
		Int64("expected_current", expectedCurrent).
		Logger()

	content, err := json.Marshal(rev.Content)
	if err != nil {
		return models.Revision{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTxTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error during opening transaction")
		return models.Revision{}, r.wrapError(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var (
		scopeID string
		current int64
	)
	err = tx.QueryRowContext(ctx, lockHandoff, rev.HandoffID).Scan(&scopeID, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Revision{}, ErrEntityNotFound
	}
	if err != nil {
		log.Err(err).Msg("failed to lock handoff")
		return models.Revision{}, r.wrapError(ErrExecutingQuery, err)
	}
	if rev.ScopeID != "" && rev.ScopeID != scopeID {
		return models.Revision{}, ErrEntityNotFound
	}

	next := expectedCurrent + 1
	if current != expectedCurrent {
		if current >= next {
			stored, getErr := scanRevision(tx.QueryRowContext(ctx, getRevision, rev.HandoffID, next))
			if getErr == nil && stored.ContentHash == rev.ContentHash && stored.EditorID == rev.EditorID {
				log.Debug().Int64("revision", next).Msg("revision already appended, replaying")
				return stored, nil
			}
		}
		log.Debug().Int64("current", current).Msg("stale expected revision")
		return models.Revision{}, &RevisionConflictError{HandoffID: rev.HandoffID, CurrentRevision: current}
	}

	rev.ScopeID = scopeID
	rev.Number = next
	err = tx.QueryRowContext(ctx, insertRevision,
		rev.HandoffID,
		rev.Number,
		rev.ScopeID,
		content,
		rev.ContentHash,
		rev.EditorID,
		rev.ChangeNote,
	).Scan(&rev.CreatedAt)
	if isUniqueViolation(err, handoffRevisionConstraint) {
		return models.Revision{}, &RevisionConflictError{HandoffID: rev.HandoffID, CurrentRevision: next}
	}
	if err != nil {
		log.Err(err).Msg("failed to insert revision")
		return models.Revision{}, r.wrapError(ErrExecutingStatement, err)
	}
	rev.CreatedAt = rev.CreatedAt.UTC()

	published, err := json.Marshal(models.Fields{
		"status":       models.HandoffStatusPublished,
		"published_at": rev.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return models.Revision{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	if _, err = tx.ExecContext(ctx, advanceHandoffRevision, rev.HandoffID, rev.Number, published); err != nil {
		log.Err(err).Msg("failed to advance current revision")
		return models.Revision{}, r.wrapError(ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return models.Revision{}, r.wrapError(ErrCommitingTransaction, err)
	}

	log.Info().Int64("revision", rev.Number).Msg("revision appended")
	return rev, nil
}

func (r *revisionRepository) GetRevision(ctx context.Context, handoffID string, number int64) (models.Revision, error) {
	rev, err := scanRevision(r.DB.QueryRowContext(ctx, getRevision, handoffID, number))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Revision{}, ErrRevisionNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "revisionRepository.GetRevision").
			Str("handoff_id", handoffID).
			Int64("revision", number).
			Msg("failed to read revision")
		return models.Revision{}, r.wrapError(ErrScanningRow, err)
	}
	return rev, nil
}

func (r *revisionRepository) ListRevisions(ctx context.Context, handoffID string) ([]models.Revision, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listRevisions, handoffID)
	if err != nil {
		log.Err(err).
			Str("func", "revisionRepository.ListRevisions").
			Str("handoff_id", handoffID).
			Msg("failed to list revisions")
		return nil, r.wrapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	revisions := make([]models.Revision, 0, 8)
	for rows.Next() {
		rev, scanErr := scanRevision(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		revisions = append(revisions, rev)
	}

	if err = rows.Err(); err != nil {
		return nil, r.wrapError(ErrScanningRows, err)
	}

	return revisions, nil
}
