// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// sync server handlers and the client's error mapping.
//
// All Msg* constants are human-readable message strings written into HTTP
// error bodies. The client matches on them to turn a status code back into a
// precise service error, so wording changes are protocol changes.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgNoTokenProvided is returned when the Authorization header is missing
	// or is not a bearer token.
	MsgNoTokenProvided = "no bearer token provided"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is expired
	// or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgAccessDenied is returned when the token does not grant the scope the
	// request targets.
	MsgAccessDenied = "access to scope denied"

	// MsgEditorMismatch is returned when a revision names an editor other
	// than the authenticated user.
	MsgEditorMismatch = "editor does not match authenticated user"

	MsgUnknownEntityType = "unknown entity type"

	MsgEntityNotFound   = "entity not found"
	MsgRevisionNotFound = "revision not found"

	// MsgVersionIsNotSpecified is returned when an update or delete omits the
	// expected version required for the optimistic check.
	MsgVersionIsNotSpecified = "expected version is not specified"

	// MsgVersionConflict accompanies a 409 whose body carries the current
	// record. The client resolves the conflict and retries.
	MsgVersionConflict = "expected version is stale"

	// MsgRevisionConflict accompanies a 409 whose body carries the current
	// revision number.
	MsgRevisionConflict = "expected current revision is stale"
)
