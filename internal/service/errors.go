// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Server-side business errors.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrScopeForbidden is returned when the caller's token does not grant
	// access to the requested scope.
	ErrScopeForbidden = errors.New("scope is not granted to caller")

	// ErrEditorMismatch is returned when a revision names an editor other than the caller.
	ErrEditorMismatch = errors.New("revision editor must be the caller")

	ErrNoTokenInContext        = errors.New("no token in request context")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")
)

// Client-side business errors.
var (
	ErrEntityUnknown   = errors.New("entity is not cached locally")
	ErrEntityExists    = errors.New("entity already exists locally")
	ErrEntityDeleted   = errors.New("entity is deleted")
	ErrScopeMismatch   = errors.New("intent scope does not match entity scope")
	ErrNoChanges       = errors.New("intent changes nothing")
	ErrUnauthorized    = errors.New("sync server rejected credentials")
	ErrServerForbidden = errors.New("sync server denied access to scope")

	// ErrNotInManualMerge is returned when resolving an operation that is not
	// waiting for a manual merge.
	ErrNotInManualMerge = errors.New("operation is not waiting for a manual merge")

	// ErrNeedsManualMerge is returned when retrying an operation that must be
	// resolved by the user first.
	ErrNeedsManualMerge = errors.New("operation needs a manual merge")

	// ErrServerDeleted is returned when keeping client values for a record the
	// server has deleted.
	ErrServerDeleted      = errors.New("record was deleted on the server")
	ErrUnknownMergeChoice = errors.New("unknown merge choice")
)

// Publish pipeline errors. Failures of pipeline stages are recorded on the
// pipeline record; these errors are returned for invalid requests only.
var (
	ErrAudioNotFound      = errors.New("captured audio file not found")
	ErrPipelineActive     = errors.New("handoff already has an active pipeline")
	ErrPipelineBusy       = errors.New("pipeline is being advanced by another caller")
	ErrNotInReview        = errors.New("pipeline is not in review")
	ErrNotRetryable       = errors.New("pipeline failure is not retryable")
	ErrBriefFieldNotFound = errors.New("brief field not found")
	ErrNotMedicationField = errors.New("brief field is not a medication change")

	// ErrSchemaInvalid is returned when structured content fails the canonical schema.
	ErrSchemaInvalid = errors.New("structured content fails schema validation")

	// ErrCollaboratorUnavailable is returned once a collaborator kept failing
	// through every retry attempt.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrHandoffNotSynced is returned when publishing a handoff the server does
	// not know yet. Syncing and publishing again resolves it.
	ErrHandoffNotSynced = errors.New("handoff has not been pushed to the server yet")

	ErrRevisionConflict = errors.New("handoff revision conflict")
)
