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

func (q *localQueries) GetCursor(ctx context.Context, scopeID string, entityType models.EntityType) (models.SyncCursor, error) {
	cursor := models.SyncCursor{ScopeID: scopeID, EntityType: entityType}

	var lastUpdatedAt int64
	err := q.db.QueryRowContext(ctx, getCursor, scopeID, entityType).Scan(&lastUpdatedAt, &cursor.LastSeenID)
	if errors.Is(err, sql.ErrNoRows) {
		return cursor, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localQueries.GetCursor").
			Str("scope_id", scopeID).
			Str("entity_type", string(entityType)).
			Msg("failed to read sync cursor")
		return models.SyncCursor{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	cursor.LastSeenUpdatedAt = fromMicros(lastUpdatedAt)

	return cursor, nil
}

func (q *localQueries) SaveCursor(ctx context.Context, cursor models.SyncCursor) error {
	_, err := q.db.ExecContext(ctx, upsertCursor,
		cursor.ScopeID,
		cursor.EntityType,
		toMicros(cursor.LastSeenUpdatedAt),
		cursor.LastSeenID,
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localQueries.SaveCursor").
			Str("scope_id", cursor.ScopeID).
			Str("entity_type", string(cursor.EntityType)).
			Msg("failed to save sync cursor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (q *localQueries) ListCursors(ctx context.Context) ([]models.SyncCursor, error) {
	log := logger.FromContext(ctx).With().Str("func", "localQueries.ListCursors").Logger()

	rows, err := q.db.QueryContext(ctx, listCursors)
	if err != nil {
		log.Err(err).Msg("failed to list sync cursors")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	cursors := []models.SyncCursor{}
	for rows.Next() {
		var (
			cursor        models.SyncCursor
			lastUpdatedAt int64
		)
		if err = rows.Scan(&cursor.ScopeID, &cursor.EntityType, &lastUpdatedAt, &cursor.LastSeenID); err != nil {
			log.Err(err).Msg("failed to scan sync cursor")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		cursor.LastSeenUpdatedAt = fromMicros(lastUpdatedAt)
		cursors = append(cursors, cursor)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return cursors, nil
}
