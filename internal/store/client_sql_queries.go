// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	localEntityColumns = `e.entity_type, e.id, e.scope_id, e.version, e.fields, e.server_fields,
		e.current_revision, e.created_at, e.updated_at, e.deleted_at, e.server_deleted_at,
		(SELECT COUNT(*) FROM pending_operations p
			WHERE p.entity_type = e.entity_type AND p.entity_id = e.id)`

	getLocalEntity = `SELECT ` + localEntityColumns + `
		FROM entities e
		WHERE e.entity_type = ? AND e.id = ?;`

	listLocalEntities = `SELECT ` + localEntityColumns + `
		FROM entities e
		WHERE e.scope_id = ? AND e.entity_type = ? AND e.deleted_at IS NULL
		ORDER BY e.updated_at, e.id;`

	upsertLocalEntity = `INSERT INTO entities (
			entity_type, id, scope_id, version, fields, server_fields,
			current_revision, created_at, updated_at, deleted_at, server_deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (entity_type, id) DO UPDATE SET
			scope_id = excluded.scope_id,
			version = excluded.version,
			fields = excluded.fields,
			server_fields = excluded.server_fields,
			current_revision = excluded.current_revision,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			server_deleted_at = excluded.server_deleted_at;`

	operationColumns = `seq, operation_id, scope_id, entity_type, entity_id, kind, payload, base,
		expected_version, enqueued_at, attempts, last_error, next_attempt_at,
		status, status_changed_at, conflict`

	insertOperation = `INSERT INTO pending_operations (
			operation_id, scope_id, entity_type, entity_id, kind, payload, base,
			expected_version, enqueued_at, attempts, last_error, next_attempt_at,
			status, status_changed_at, conflict
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING seq;`

	// peekNextOperation skips operations whose entity still has an earlier
	// queued operation in any status, so per-entity order holds while other
	// entities keep flowing.
	peekNextOperation = `SELECT ` + operationColumns + `
		FROM pending_operations p
		WHERE p.status = 'pending'
			AND p.next_attempt_at <= ?
			AND NOT EXISTS (
				SELECT 1 FROM pending_operations e
				WHERE e.entity_type = p.entity_type
					AND e.entity_id = p.entity_id
					AND e.seq < p.seq
			)
		ORDER BY p.seq
		LIMIT 1;`

	getOperation = `SELECT ` + operationColumns + `
		FROM pending_operations
		WHERE operation_id = ?;`

	listOperations = `SELECT ` + operationColumns + `
		FROM pending_operations`

	listEntityOperations = `SELECT ` + operationColumns + `
		FROM pending_operations
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY seq;`

	deleteOperation = `DELETE FROM pending_operations WHERE operation_id = ?;`

	updateOperation = `UPDATE pending_operations SET
			kind = ?, payload = ?, base = ?, expected_version = ?, attempts = ?, last_error = ?,
			next_attempt_at = ?, status = ?, status_changed_at = ?, conflict = ?
		WHERE operation_id = ?;`

	getCursor = `SELECT last_updated_at, last_id
		FROM sync_cursors
		WHERE scope_id = ? AND entity_type = ?;`

	listCursors = `SELECT scope_id, entity_type, last_updated_at, last_id
		FROM sync_cursors
		ORDER BY scope_id, entity_type;`

	upsertCursor = `INSERT INTO sync_cursors (scope_id, entity_type, last_updated_at, last_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (scope_id, entity_type) DO UPDATE SET
			last_updated_at = excluded.last_updated_at,
			last_id = excluded.last_id;`

	pipelineColumns = `handoff_id, scope_id, state, failed_stage, failure_reason, retryable,
		audio_path, object_key, transcription_job_id, transcript, structuring_job_id,
		brief, base_revision, target_revision, published_revision, created_at, updated_at`

	getPipeline = `SELECT ` + pipelineColumns + `
		FROM pipelines
		WHERE handoff_id = ?;`

	listPipelines = `SELECT ` + pipelineColumns + `
		FROM pipelines`

	upsertPipeline = `INSERT INTO pipelines (` + pipelineColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (handoff_id) DO UPDATE SET
			scope_id = excluded.scope_id,
			state = excluded.state,
			failed_stage = excluded.failed_stage,
			failure_reason = excluded.failure_reason,
			retryable = excluded.retryable,
			audio_path = excluded.audio_path,
			object_key = excluded.object_key,
			transcription_job_id = excluded.transcription_job_id,
			transcript = excluded.transcript,
			structuring_job_id = excluded.structuring_job_id,
			brief = excluded.brief,
			base_revision = excluded.base_revision,
			target_revision = excluded.target_revision,
			published_revision = excluded.published_revision,
			updated_at = excluded.updated_at;`

	// A claim is taken when the record is free, already held by owner or
	// its holder let it expire. SQLite serializes writers, so at most one
	// process wins.
	claimPipeline = `UPDATE pipelines SET claimed_by = ?, claim_expires_at = ?
		WHERE handoff_id = ?
			AND (claimed_by = '' OR claimed_by = ? OR claim_expires_at < ?);`

	releasePipeline = `UPDATE pipelines SET claimed_by = '', claim_expires_at = 0
		WHERE handoff_id = ? AND claimed_by = ?;`

	pipelineExists = `SELECT 1 FROM pipelines WHERE handoff_id = ?;`
)
