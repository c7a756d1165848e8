// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/models"
)

type entityService struct {
	entities  store.EntityRepository
	cache     store.ReplayCache
	replayTTL time.Duration

	logger *logger.Logger
}

// NewEntityService returns the EntityService backed by the authoritative
// repository. Push results are cached by operation id for replayTTL so a
// retried push is answered without touching the database.
func NewEntityService(entities store.EntityRepository, cache store.ReplayCache, replayTTL time.Duration, logger *logger.Logger) EntityService {
	return &entityService{
		entities:  entities,
		cache:     cache,
		replayTTL: replayTTL,
		logger:    logger,
	}
}

func (s *entityService) Pull(ctx context.Context, req models.PullRequest) ([]models.Entity, error) {
	if err := authorizeScope(ctx, req.ScopeID); err != nil {
		return nil, err
	}

	return s.entities.PullPage(ctx, req)
}

func (s *entityService) Push(ctx context.Context, req models.PushRequest) (models.Entity, bool, error) {
	if err := authorizeScope(ctx, req.ScopeID); err != nil {
		return models.Entity{}, false, err
	}

	log := logger.FromContext(ctx).With().
		Str("func", "entityService.Push").
		Str("operation_id", req.OperationID).
		Logger()

	cached, err := s.cache.GetResult(ctx, req.OperationID)
	switch {
	case err == nil && cached.ScopeID == req.ScopeID:
		log.Debug().Msg("push answered from replay cache")
		return cached, true, nil
	case err != nil && !errors.Is(err, store.ErrCacheMiss):
		log.Warn().Err(err).Msg("replay cache lookup failed, falling back to database")
	}

	entity, replayed, err := s.entities.ApplyOperation(ctx, req)
	if err != nil {
		return models.Entity{}, false, err
	}
	if entity.ScopeID != req.ScopeID {
		// an operation id reused against another scope must not leak the record
		return models.Entity{}, false, ErrScopeForbidden
	}

	if !replayed {
		if err = s.cache.PutResult(ctx, req.OperationID, entity, s.replayTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache push result")
		}
	}

	return entity, replayed, nil
}

// authorizeScope requires the token in ctx to grant scopeID.
func authorizeScope(ctx context.Context, scopeID string) error {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok {
		return ErrNoTokenInContext
	}
	if !token.HasScope(scopeID) {
		return ErrScopeForbidden
	}
	return nil
}
