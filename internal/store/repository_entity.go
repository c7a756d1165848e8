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

// entityRepository is the PostgreSQL-backed [EntityRepository]. All synced
// collections share the "entities" table; fields live in a JSONB column.
type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] over db.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

func scanServerEntity(row rowScanner) (models.Entity, error) {
	var (
		e         models.Entity
		fields    []byte
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&e.Type,
		&e.ID,
		&e.ScopeID,
		&e.Version,
		&fields,
		&e.CurrentRevision,
		&e.CreatedAt,
		&e.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return models.Entity{}, err
	}

	e.Fields = models.Fields{}
	if len(fields) > 0 {
		if err = json.Unmarshal(fields, &e.Fields); err != nil {
			return models.Entity{}, err
		}
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	if deletedAt.Valid {
		t := deletedAt.Time.UTC()
		e.DeletedAt = &t
	}

	return e, nil
}

// PullPage returns up to req.Limit records strictly after req.Cursor.
func (r *entityRepository) PullPage(ctx context.Context, req models.PullRequest) ([]models.Entity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildPullQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.PullPage").
			Str("entity_type", string(req.EntityType)).
			Str("scope_id", req.ScopeID).
			Msg("failed to execute pull query")
		return nil, r.wrapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	page := make([]models.Entity, 0, defaultPullLimit)
	for rows.Next() {
		entity, scanErr := scanServerEntity(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "entityRepository.PullPage").
				Msg("failed to scan entity row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		page = append(page, entity)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "entityRepository.PullPage").
			Msg("error occurred during rows iteration")
		return nil, r.wrapError(ErrScanningRows, err)
	}

	return page, nil
}

func (r *entityRepository) GetEntity(ctx context.Context, entityType models.EntityType, id string) (models.Entity, error) {
	return r.getEntity(ctx, r.DB.DB, entityType, id)
}

func (r *entityRepository) getEntity(ctx context.Context, db dbtx, entityType models.EntityType, id string) (models.Entity, error) {
	entity, err := scanServerEntity(db.QueryRowContext(ctx, getServerEntity, entityType, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, ErrEntityNotFound
	}
	if err != nil {
		return models.Entity{}, r.wrapError(ErrScanningRow, err)
	}
	return entity, nil
}

// ApplyOperation applies one push inside a transaction.
//
// A previously applied operation id returns the current record with
// replayed set. Otherwise CREATE inserts at version 1, while UPDATE and
// DELETE succeed only when the stored version equals req.ExpectedVersion.
// A lost race returns a [*VersionConflictError] holding the record that won.
func (r *entityRepository) ApplyOperation(ctx context.Context, req models.PushRequest) (models.Entity, bool, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "entityRepository.ApplyOperation").
		Str("operation_id", req.OperationID).
		Str("entity_type", string(req.EntityType)).
		Str("entity_id", req.EntityID).
		Logger()

	ctx, cancel := context.WithTimeout(ctx, writeTxTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error during opening transaction")
		return models.Entity{}, false, r.wrapError(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var appliedType models.EntityType
	var appliedID string
	err = tx.QueryRowContext(ctx, findAppliedOperation, req.OperationID).Scan(&appliedType, &appliedID)
	switch {
	case err == nil:
		current, getErr := r.getEntity(ctx, tx, appliedType, appliedID)
		if getErr != nil {
			return models.Entity{}, false, getErr
		}
		log.Debug().Msg("operation was applied before, replaying result")
		return current, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		log.Err(err).Msg("failed to look up applied operation")
		return models.Entity{}, false, r.wrapError(ErrExecutingQuery, err)
	}

	var entity models.Entity
	switch req.Kind {
	case models.OperationCreate:
		entity, err = r.create(ctx, tx, req)
	case models.OperationUpdate:
		entity, err = r.update(ctx, tx, req)
	case models.OperationDelete:
		entity, err = r.delete(ctx, tx, req)
	default:
		return models.Entity{}, false, fmt.Errorf("%w: unknown operation kind %q", ErrExecutingStatement, req.Kind)
	}
	if err != nil {
		return models.Entity{}, false, err
	}

	if _, err = tx.ExecContext(ctx, insertAppliedOperation, req.OperationID, entity.Type, entity.ID, entity.Version); err != nil {
		log.Err(err).Msg("failed to record applied operation")
		return models.Entity{}, false, r.wrapError(ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return models.Entity{}, false, r.wrapError(ErrCommitingTransaction, err)
	}

	log.Debug().Int64("version", entity.Version).Msg("operation applied")
	return entity, false, nil
}

// PruneAppliedOperations removes dedup records older than before. A retried
// push of a pruned operation id is treated as new and version-checked again.
func (r *entityRepository) PruneAppliedOperations(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, pruneAppliedOperations, before)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.PruneAppliedOperations").
			Time("before", before).
			Msg("failed to prune applied operations")
		return 0, r.wrapError(ErrExecutingStatement, err)
	}

	removed, _ := res.RowsAffected()
	return removed, nil
}

func (r *entityRepository) create(ctx context.Context, tx *sql.Tx, req models.PushRequest) (models.Entity, error) {
	fields, err := json.Marshal(nonNilFields(req.Fields))
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}

	entity, err := scanServerEntity(tx.QueryRowContext(ctx, createEntity, req.EntityType, req.EntityID, req.ScopeID, fields))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, r.conflict(ctx, tx, req)
	}
	if err != nil {
		return models.Entity{}, r.wrapError(ErrExecutingStatement, err)
	}
	return entity, nil
}

func (r *entityRepository) update(ctx context.Context, tx *sql.Tx, req models.PushRequest) (models.Entity, error) {
	patch, err := json.Marshal(nonNilFields(req.Fields))
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}

	entity, err := scanServerEntity(tx.QueryRowContext(ctx, updateEntity,
		patch, req.EntityType, req.EntityID, req.ScopeID, expectedVersion(req)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, r.conflict(ctx, tx, req)
	}
	if err != nil {
		return models.Entity{}, r.wrapError(ErrExecutingStatement, err)
	}
	return entity, nil
}

func (r *entityRepository) delete(ctx context.Context, tx *sql.Tx, req models.PushRequest) (models.Entity, error) {
	entity, err := scanServerEntity(tx.QueryRowContext(ctx, deleteEntity,
		req.EntityType, req.EntityID, req.ScopeID, expectedVersion(req)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, r.conflict(ctx, tx, req)
	}
	if err != nil {
		return models.Entity{}, r.wrapError(ErrExecutingStatement, err)
	}
	return entity, nil
}

// conflict explains why a versioned write matched no row.
func (r *entityRepository) conflict(ctx context.Context, tx *sql.Tx, req models.PushRequest) error {
	current, err := r.getEntity(ctx, tx, req.EntityType, req.EntityID)
	if err != nil {
		return err
	}
	if current.ScopeID != req.ScopeID {
		return ErrEntityNotFound
	}
	return &VersionConflictError{Current: current}
}

func expectedVersion(req models.PushRequest) int64 {
	if req.ExpectedVersion == nil {
		return 0
	}
	return *req.ExpectedVersion
}

func nonNilFields(f models.Fields) models.Fields {
	if f == nil {
		return models.Fields{}
	}
	return f
}
