// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-care-sync/internal/validators"
	"github.com/MKhiriev/go-care-sync/models"
)

// EntityValidationService rejects malformed pulls and pushes before they
// reach the wrapped EntityService.
type EntityValidationService struct {
	inner     EntityService
	validator validators.Validator
}

func NewEntityValidationService(validator validators.Validator) EntityServiceWrapper {
	return &EntityValidationService{validator: validator}
}

func (v *EntityValidationService) Pull(ctx context.Context, req models.PullRequest) ([]models.Entity, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Pull(ctx, req)
}

func (v *EntityValidationService) Push(ctx context.Context, req models.PushRequest) (models.Entity, bool, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.Entity{}, false, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Push(ctx, req)
}

func (v *EntityValidationService) Wrap(inner EntityService) EntityService {
	v.inner = inner
	return v
}
