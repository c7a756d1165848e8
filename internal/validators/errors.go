// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidScopeID         = errors.New("invalid scope id")
	ErrInvalidEntityType      = errors.New("invalid entity type")
	ErrInvalidEntityID        = errors.New("invalid entity id")
	ErrInvalidOperationID     = errors.New("invalid operation id")
	ErrInvalidOperationKind   = errors.New("invalid operation kind")
	ErrInvalidExpectedVersion = errors.New("invalid expected version")
	ErrNoFieldsToUpdate       = errors.New("at least one field must be provided for update")
	ErrInvalidFieldName       = errors.New("invalid field name")
	ErrInvalidLimit           = errors.New("invalid page limit")
	ErrInvalidRevision        = errors.New("invalid expected current revision")
	ErrInvalidEditorID        = errors.New("invalid editor id")

	// ErrInvalidBrief wraps every structural problem of a structured brief.
	ErrInvalidBrief = errors.New("structured brief does not match schema")

	ErrUnknownBriefFieldKind       = errors.New("unknown brief field kind")
	ErrBriefVariantMismatch        = errors.New("brief field variant does not match its kind")
	ErrDuplicateBriefFieldID       = errors.New("duplicate brief field id")
	ErrUnconfirmedMedicationChange = errors.New("medication change is not confirmed")
)
