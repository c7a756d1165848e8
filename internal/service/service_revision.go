// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/internal/validators"
	"github.com/MKhiriev/go-care-sync/models"
)

type revisionService struct {
	revisions store.RevisionRepository
	entities  store.EntityRepository
	validator validators.Validator

	logger *logger.Logger
}

// NewRevisionService returns the RevisionService over the append-only ledger.
func NewRevisionService(revisions store.RevisionRepository, entities store.EntityRepository, validator validators.Validator, logger *logger.Logger) RevisionService {
	return &revisionService{
		revisions: revisions,
		entities:  entities,
		validator: validator,
		logger:    logger,
	}
}

// AppendRevision records req.Content as revision ExpectedCurrentRevision+1.
//
// The editor must be the caller. The content hash lets the ledger answer a
// re-sent append with the revision it already stored.
func (s *revisionService) AppendRevision(ctx context.Context, req models.AppendRevisionRequest) (models.Revision, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return models.Revision{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	handoff, err := s.authorizeHandoff(ctx, req.HandoffID)
	if err != nil {
		return models.Revision{}, err
	}

	if userID, _ := utils.GetUserIDFromContext(ctx); userID != req.EditorID {
		return models.Revision{}, ErrEditorMismatch
	}

	hash, err := utils.ContentHash(req.Content)
	if err != nil {
		return models.Revision{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return s.revisions.AppendRevision(ctx, models.Revision{
		HandoffID:   req.HandoffID,
		ScopeID:     handoff.ScopeID,
		Content:     req.Content,
		ContentHash: hash,
		EditorID:    req.EditorID,
		ChangeNote:  req.ChangeNote,
	}, req.ExpectedCurrentRevision)
}

func (s *revisionService) ListRevisions(ctx context.Context, handoffID string) ([]models.Revision, error) {
	if _, err := s.authorizeHandoff(ctx, handoffID); err != nil {
		return nil, err
	}
	return s.revisions.ListRevisions(ctx, handoffID)
}

func (s *revisionService) GetRevision(ctx context.Context, handoffID string, number int64) (models.Revision, error) {
	if _, err := s.authorizeHandoff(ctx, handoffID); err != nil {
		return models.Revision{}, err
	}
	return s.revisions.GetRevision(ctx, handoffID, number)
}

// authorizeHandoff loads the handoff and checks the caller may see its scope.
func (s *revisionService) authorizeHandoff(ctx context.Context, handoffID string) (models.Entity, error) {
	handoff, err := s.entities.GetEntity(ctx, models.EntityHandoffs, handoffID)
	if err != nil {
		return models.Entity{}, err
	}
	if err = authorizeScope(ctx, handoff.ScopeID); err != nil {
		return models.Entity{}, err
	}
	return handoff, nil
}
