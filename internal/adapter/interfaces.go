// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client's transport to remote collaborators:
// the sync server, object storage and the asynchronous transcription and
// structuring services.
//
// HTTP status codes are mapped by mapHTTPError onto the sentinel errors in
// errors.go so callers can use [errors.Is] without knowing the protocol.
// Version and revision conflicts carry the server's current state in
// [*VersionConflictError] and [*RevisionConflictError].
package adapter

import (
	"context"
	"io"

	"github.com/MKhiriev/go-care-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteStore is the client's view of the sync server.
type RemoteStore interface {
	// SetToken stores the bearer token attached to every request.
	SetToken(token string)

	// Token returns the current bearer token or an empty string.
	Token() string

	// Pull fetches one page of records strictly after req.Cursor, ordered by
	// (updated_at, id).
	Pull(ctx context.Context, req models.PullRequest) ([]models.Entity, error)

	// Push sends one operation with its id as the idempotency key and returns
	// the resulting record. A stale expected version returns a
	// [*VersionConflictError].
	Push(ctx context.Context, req models.PushRequest) (models.Entity, error)

	// AppendRevision appends a handoff revision. A stale expected current
	// revision returns a [*RevisionConflictError].
	AppendRevision(ctx context.Context, req models.AppendRevisionRequest) (models.AppendRevisionResponse, error)
}

// ObjectStorage stores captured audio.
type ObjectStorage interface {
	// Put uploads body under key. Uploading the same key again overwrites it.
	Put(ctx context.Context, key string, body io.Reader) error
}

// AsyncJobService is a submit-then-poll collaborator. Transcription and
// structuring both speak it.
type AsyncJobService interface {
	// Submit starts a job and returns its id.
	Submit(ctx context.Context, req models.JobRequest) (string, error)

	// Poll returns the job's current state and, once it succeeded, its output.
	Poll(ctx context.Context, jobID string) (models.JobResult, error)
}
