// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-care-sync/models"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrUnavailable         = errors.New("service unavailable")

	// ErrTransport wraps failures where no HTTP response was received.
	ErrTransport = errors.New("transport error")

	ErrVersionConflict  = errors.New("version conflict")
	ErrRevisionConflict = errors.New("revision conflict")

	ErrInvalidResponse = errors.New("invalid response")
)

// VersionConflictError is returned by Push on HTTP 409. Current is the
// server's record at the time of the conflict.
type VersionConflictError struct {
	Current models.Entity
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: server is at version %d", ErrVersionConflict, e.Current.Version)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}

// RevisionConflictError is returned by AppendRevision on HTTP 409.
type RevisionConflictError struct {
	CurrentRevision int64
}

func (e *RevisionConflictError) Error() string {
	return fmt.Sprintf("%s: handoff is at revision %d", ErrRevisionConflict, e.CurrentRevision)
}

func (e *RevisionConflictError) Unwrap() error {
	return ErrRevisionConflict
}

// IsRetryable reports whether err may succeed on a later attempt: transport
// failures and 5xx or 429 responses.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrInternalServerError) ||
		errors.Is(err, ErrBadGateway) ||
		errors.Is(err, ErrUnavailable)
}
