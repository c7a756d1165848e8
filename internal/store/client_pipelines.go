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

// pipelineRepository stores publish pipeline records in the client database.
type pipelineRepository struct {
	db  dbtx
	now func() time.Time
}

func scanPipeline(row rowScanner) (models.PipelineRecord, error) {
	var (
		r                    models.PipelineRecord
		brief                sql.NullString
		createdAt, updatedAt int64
	)

	err := row.Scan(
		&r.HandoffID,
		&r.ScopeID,
		&r.State,
		&r.FailedStage,
		&r.FailureReason,
		&r.Retryable,
		&r.AudioPath,
		&r.ObjectKey,
		&r.TranscriptionJobID,
		&r.Transcript,
		&r.StructuringJobID,
		&brief,
		&r.BaseRevision,
		&r.TargetRevision,
		&r.PublishedRevision,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.PipelineRecord{}, err
	}

	if r.Brief, err = decodeJSON[models.StructuredBrief](brief); err != nil {
		return models.PipelineRecord{}, err
	}
	r.CreatedAt = fromMicros(createdAt)
	r.UpdatedAt = fromMicros(updatedAt)

	return r, nil
}

func (p *pipelineRepository) GetPipeline(ctx context.Context, handoffID string) (models.PipelineRecord, error) {
	record, err := scanPipeline(p.db.QueryRowContext(ctx, getPipeline, handoffID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PipelineRecord{}, ErrPipelineNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "pipelineRepository.GetPipeline").
			Str("handoff_id", handoffID).
			Msg("failed to read pipeline record")
		return models.PipelineRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

// SavePipeline durably writes record. CreatedAt is kept from the first save.
func (p *pipelineRepository) SavePipeline(ctx context.Context, record models.PipelineRecord) error {
	now := p.now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	brief, err := encodeJSON(record.Brief)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, upsertPipeline,
		record.HandoffID,
		record.ScopeID,
		record.State,
		record.FailedStage,
		record.FailureReason,
		record.Retryable,
		record.AudioPath,
		record.ObjectKey,
		record.TranscriptionJobID,
		record.Transcript,
		record.StructuringJobID,
		brief,
		record.BaseRevision,
		record.TargetRevision,
		record.PublishedRevision,
		toMicros(record.CreatedAt),
		toMicros(record.UpdatedAt),
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "pipelineRepository.SavePipeline").
			Str("handoff_id", record.HandoffID).
			Str("state", string(record.State)).
			Msg("failed to save pipeline record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (p *pipelineRepository) ListPipelines(ctx context.Context, states ...models.PipelineState) ([]models.PipelineRecord, error) {
	log := logger.FromContext(ctx)

	query := listPipelines
	args := make([]any, 0, len(states))
	if len(states) > 0 {
		query += ` WHERE state IN (?` + strings.Repeat(`, ?`, len(states)-1) + `)`
		for _, s := range states {
			args = append(args, s)
		}
	}
	query += ` ORDER BY created_at, handoff_id;`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "pipelineRepository.ListPipelines").Msg("failed to list pipeline records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.PipelineRecord, 0, 8)
	for rows.Next() {
		record, scanErr := scanPipeline(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

func (p *pipelineRepository) ClaimPipeline(ctx context.Context, handoffID, owner string, ttl time.Duration) (bool, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "pipelineRepository.ClaimPipeline").
		Str("handoff_id", handoffID).
		Str("owner", owner).
		Logger()

	now := p.now()
	res, err := p.db.ExecContext(ctx, claimPipeline, owner, toMicros(now.Add(ttl)), handoffID, owner, toMicros(now))
	if err != nil {
		log.Err(err).Msg("failed to claim pipeline record")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if claimed, _ := res.RowsAffected(); claimed > 0 {
		return true, nil
	}

	var exists int
	err = p.db.QueryRowContext(ctx, pipelineExists, handoffID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrPipelineNotFound
	}
	if err != nil {
		log.Err(err).Msg("failed to check pipeline record")
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	log.Debug().Msg("pipeline record is claimed by another owner")
	return false, nil
}

func (p *pipelineRepository) ReleasePipeline(ctx context.Context, handoffID, owner string) error {
	if _, err := p.db.ExecContext(ctx, releasePipeline, handoffID, owner); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "pipelineRepository.ReleasePipeline").
			Str("handoff_id", handoffID).
			Str("owner", owner).
			Msg("failed to release pipeline record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
