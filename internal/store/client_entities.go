// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocalEntity(row rowScanner) (models.LocalEntity, error) {
	var (
		e                    models.LocalEntity
		fields, serverFields string
		createdAt, updatedAt int64
		deletedAt            sql.NullInt64
		serverDeletedAt      sql.NullInt64
	)

	err := row.Scan(
		&e.Type,
		&e.ID,
		&e.ScopeID,
		&e.Version,
		&fields,
		&serverFields,
		&e.CurrentRevision,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&serverDeletedAt,
		&e.PendingOps,
	)
	if err != nil {
		return models.LocalEntity{}, err
	}

	if e.Fields, err = decodeFields(fields); err != nil {
		return models.LocalEntity{}, err
	}
	if e.ServerFields, err = decodeFields(serverFields); err != nil {
		return models.LocalEntity{}, err
	}
	e.CreatedAt = fromMicros(createdAt)
	e.UpdatedAt = fromMicros(updatedAt)
	e.DeletedAt = fromNullMicros(deletedAt)
	e.ServerDeletedAt = fromNullMicros(serverDeletedAt)

	return e, nil
}

func (q *localQueries) GetEntity(ctx context.Context, entityType models.EntityType, id string) (models.LocalEntity, error) {
	entity, err := scanLocalEntity(q.db.QueryRowContext(ctx, getLocalEntity, entityType, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LocalEntity{}, ErrEntityNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localQueries.GetEntity").
			Str("entity_type", string(entityType)).
			Str("entity_id", id).
			Msg("failed to get local entity")
		return models.LocalEntity{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entity, nil
}

func (q *localQueries) ListEntities(ctx context.Context, scopeID string, entityType models.EntityType) ([]models.LocalEntity, error) {
	log := logger.FromContext(ctx)

	rows, err := q.db.QueryContext(ctx, listLocalEntities, scopeID, entityType)
	if err != nil {
		log.Err(err).
			Str("func", "localQueries.ListEntities").
			Str("scope_id", scopeID).
			Msg("failed to execute query for listing local entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entities := make([]models.LocalEntity, 0, 32)
	for rows.Next() {
		entity, scanErr := scanLocalEntity(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "localQueries.ListEntities").Msg("failed to scan local entity row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		entities = append(entities, entity)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entities, nil
}

func (q *localQueries) SaveEntity(ctx context.Context, entity models.LocalEntity) error {
	fields, err := encodeFields(entity.Fields)
	if err != nil {
		return err
	}
	serverFields, err := encodeFields(entity.ServerFields)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx, upsertLocalEntity,
		entity.Type,
		entity.ID,
		entity.ScopeID,
		entity.Version,
		fields,
		serverFields,
		entity.CurrentRevision,
		toMicros(entity.CreatedAt),
		toMicros(entity.UpdatedAt),
		nullMicros(entity.DeletedAt),
		nullMicros(entity.ServerDeletedAt),
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localQueries.SaveEntity").
			Str("entity_type", string(entity.Type)).
			Str("entity_id", entity.ID).
			Int64("version", entity.Version).
			Msg("failed to save local entity")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
