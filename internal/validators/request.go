// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/MKhiriev/go-care-sync/models"
)

// Field names accepted by RequestValidator.
const (
	FieldScopeID         = "scope_id"
	FieldEntityType      = "entity_type"
	FieldEntityID        = "entity_id"
	FieldOperationID     = "operation_id"
	FieldKind            = "kind"
	FieldExpectedVersion = "expected_version"
	FieldFields          = "fields"
	FieldLimit           = "limit"
	FieldRevision        = "expected_current_revision"
	FieldEditorID        = "editor_id"
	FieldContent         = "content"
)

// MaxPullLimit bounds the page size a client may request.
const MaxPullLimit = 500

var fieldNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// RequestValidator validates pull, push and revision requests on the server
// and local intents on the client.
type RequestValidator struct {
	briefs *BriefValidator
}

// NewRequestValidator returns a Validator for sync requests. Revision
// content is checked with briefs.
func NewRequestValidator(briefs *BriefValidator) Validator {
	return &RequestValidator{briefs: briefs}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.PushRequest:
		return v.validatePush(ctx, value, fields...)
	case *models.PushRequest:
		return v.validatePush(ctx, *value, fields...)

	case models.PullRequest:
		return v.validatePull(ctx, value, fields...)
	case *models.PullRequest:
		return v.validatePull(ctx, *value, fields...)

	case models.AppendRevisionRequest:
		return v.validateAppendRevision(ctx, value, fields...)
	case *models.AppendRevisionRequest:
		return v.validateAppendRevision(ctx, *value, fields...)

	case models.Intent:
		return v.validateIntent(ctx, value, fields...)
	case *models.Intent:
		return v.validateIntent(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validatePush(ctx context.Context, req models.PushRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOperationID, FieldScopeID, FieldEntityType, FieldEntityID, FieldKind, FieldExpectedVersion, FieldFields}
	}

	for _, f := range fields {
		switch f {
		case FieldOperationID:
			if req.OperationID == "" {
				return ErrInvalidOperationID
			}
		case FieldScopeID:
			if req.ScopeID == "" {
				return ErrInvalidScopeID
			}
		case FieldEntityType:
			if !req.EntityType.Valid() {
				return ErrInvalidEntityType
			}
		case FieldEntityID:
			if req.EntityID == "" {
				return ErrInvalidEntityID
			}
		case FieldKind:
			if !validKind(req.Kind) {
				return ErrInvalidOperationKind
			}
		case FieldExpectedVersion:
			if err := checkExpectedVersion(req.Kind, req.ExpectedVersion); err != nil {
				return err
			}
		case FieldFields:
			if err := checkFields(req.Kind, req.Fields); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validatePull(ctx context.Context, req models.PullRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldScopeID, FieldEntityType, FieldLimit}
	}

	for _, f := range fields {
		switch f {
		case FieldScopeID:
			if req.ScopeID == "" {
				return ErrInvalidScopeID
			}
		case FieldEntityType:
			if !req.EntityType.Valid() {
				return ErrInvalidEntityType
			}
		case FieldLimit:
			if req.Limit < 0 || req.Limit > MaxPullLimit {
				return ErrInvalidLimit
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateAppendRevision(ctx context.Context, req models.AppendRevisionRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntityID, FieldRevision, FieldEditorID, FieldContent}
	}

	for _, f := range fields {
		switch f {
		case FieldEntityID:
			if req.HandoffID == "" {
				return ErrInvalidEntityID
			}
		case FieldRevision:
			if req.ExpectedCurrentRevision < 0 {
				return ErrInvalidRevision
			}
		case FieldEditorID:
			if req.EditorID == "" {
				return ErrInvalidEditorID
			}
		case FieldContent:
			if err := v.briefs.Validate(ctx, req.Content, FieldSchema, FieldMedicationConfirmed); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateIntent(ctx context.Context, intent models.Intent, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldScopeID, FieldEntityType, FieldEntityID, FieldKind, FieldFields}
	}

	for _, f := range fields {
		switch f {
		case FieldScopeID:
			if intent.ScopeID == "" {
				return ErrInvalidScopeID
			}
		case FieldEntityType:
			if !intent.EntityType.Valid() {
				return ErrInvalidEntityType
			}
		case FieldEntityID:
			if intent.Kind != models.OperationCreate && intent.EntityID == "" {
				return ErrInvalidEntityID
			}
		case FieldKind:
			if !validKind(intent.Kind) {
				return ErrInvalidOperationKind
			}
		case FieldFields:
			if err := checkFields(intent.Kind, intent.Fields); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validKind(kind models.OperationKind) bool {
	switch kind {
	case models.OperationCreate, models.OperationUpdate, models.OperationDelete:
		return true
	default:
		return false
	}
}

// checkExpectedVersion requires a positive version for UPDATE and DELETE and
// none for CREATE.
func checkExpectedVersion(kind models.OperationKind, expected *int64) error {
	switch kind {
	case models.OperationCreate:
		if expected != nil && *expected != 0 {
			return ErrInvalidExpectedVersion
		}
	default:
		if expected == nil || *expected < 1 {
			return ErrInvalidExpectedVersion
		}
	}
	return nil
}

func checkFields(kind models.OperationKind, fields models.Fields) error {
	if kind == models.OperationUpdate && len(fields) == 0 {
		return ErrNoFieldsToUpdate
	}
	for name := range fields {
		if !fieldNamePattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidFieldName, name)
		}
	}
	return nil
}
