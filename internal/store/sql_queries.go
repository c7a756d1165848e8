// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

const defaultPullLimit = 100

// updated_at is taken at transaction start but becomes visible at commit, so
// a pull only serves rows older than pullSettleWindow. Write transactions are
// cut off at writeTxTimeout, which keeps every row behind the horizon
// committed before a cursor can pass it.
const (
	writeTxTimeout   = 2 * time.Second
	pullSettleWindow = 5 * time.Second
)

var entityColumns = []string{
	"entity_type", "id", "scope_id", "version", "fields",
	"current_revision", "created_at", "updated_at", "deleted_at",
}

const (
	entityReturning = ` RETURNING entity_type, id, scope_id, version, fields,
		current_revision, created_at, updated_at, deleted_at`

	getServerEntity = `SELECT entity_type, id, scope_id, version, fields,
		current_revision, created_at, updated_at, deleted_at
		FROM entities
		WHERE entity_type = $1 AND id = $2;`

	findAppliedOperation = `SELECT entity_type, entity_id
		FROM applied_operations
		WHERE operation_id = $1;`

	insertAppliedOperation = `INSERT INTO applied_operations (
			operation_id, entity_type, entity_id, result_version
		) VALUES ($1, $2, $3, $4);`

	pruneAppliedOperations = `DELETE FROM applied_operations
		WHERE applied_at < $1;`

	// updated_at never moves backwards for one row even if the clock does.
	nextUpdatedAt = `GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')`

	createEntity = `INSERT INTO entities (
			entity_type, id, scope_id, version, fields, created_at, updated_at
		) VALUES ($1, $2, $3, 1, $4, NOW(), NOW())
		ON CONFLICT (entity_type, id) DO NOTHING` + entityReturning + `;`

	updateEntity = `UPDATE entities SET
			fields = fields || $1::jsonb,
			version = version + 1,
			updated_at = ` + nextUpdatedAt + `
		WHERE entity_type = $2 AND id = $3 AND scope_id = $4
			AND version = $5 AND deleted_at IS NULL` + entityReturning + `;`

	deleteEntity = `UPDATE entities SET
			deleted_at = NOW(),
			version = version + 1,
			updated_at = ` + nextUpdatedAt + `
		WHERE entity_type = $1 AND id = $2 AND scope_id = $3
			AND version = $4 AND deleted_at IS NULL` + entityReturning + `;`

	lockHandoff = `SELECT scope_id, current_revision
		FROM entities
		WHERE entity_type = 'handoffs' AND id = $1 AND deleted_at IS NULL
		FOR UPDATE;`

	revisionColumns = `handoff_id, revision_number, scope_id, content, content_hash,
		editor_id, change_note, created_at`

	getRevision = `SELECT ` + revisionColumns + `
		FROM handoff_revisions
		WHERE handoff_id = $1 AND revision_number = $2;`

	listRevisions = `SELECT ` + revisionColumns + `
		FROM handoff_revisions
		WHERE handoff_id = $1
		ORDER BY revision_number;`

	insertRevision = `INSERT INTO handoff_revisions (
			handoff_id, revision_number, scope_id, content, content_hash, editor_id, change_note
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at;`

	advanceHandoffRevision = `UPDATE entities SET
			current_revision = $2,
			fields = fields || $3::jsonb,
			version = version + 1,
			updated_at = ` + nextUpdatedAt + `
		WHERE entity_type = 'handoffs' AND id = $1;`

	handoffRevisionConstraint = "handoff_revisions_pkey"
)

// buildPullQuery builds the keyset page query: records of one collection in
// one scope ordered by (updated_at, id) strictly after the cursor and older
// than the settle horizon. Tombstones are included so clients learn about
// deletions.
func buildPullQuery(ctx context.Context, req models.PullRequest) (string, []any, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPullLimit
	}

	builder := sq.Select(entityColumns...).
		From("entities").
		Where(sq.Eq{"entity_type": string(req.EntityType), "scope_id": req.ScopeID}).
		OrderBy("updated_at ASC", "id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	if !req.Cursor.IsZero() {
		builder = builder.Where(sq.Or{
			sq.Gt{"updated_at": req.Cursor.LastSeenUpdatedAt},
			sq.And{
				sq.Eq{"updated_at": req.Cursor.LastSeenUpdatedAt},
				sq.Gt{"id": req.Cursor.LastSeenID},
			},
		})
	}
	builder = builder.Where("updated_at < NOW() - ?::bigint * INTERVAL '1 microsecond'", pullSettleWindow.Microseconds())

	query, args, err := builder.ToSql()
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "buildPullQuery").
			Str("entity_type", string(req.EntityType)).
			Msg("failed to build pull query")
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
