// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Error codes carried in conflict response bodies.
const (
	CodeVersionMismatch  = "SYNC_VERSION_MISMATCH"
	CodeRevisionConflict = "REVISION_CONFLICT"
)

// Header names shared by client and server.
const (
	HeaderIdempotencyKey  = "Idempotency-Key"
	HeaderIdempotentReply = "X-Idempotent-Replay"
	HeaderTraceID         = "X-Trace-ID"
)

// PullRequest asks for one page of records after Cursor.
type PullRequest struct {
	EntityType EntityType
	ScopeID    string
	Cursor     SyncCursor
	Limit      int
}

// PushRequest is the body of a push. The operation id is the idempotency key.
type PushRequest struct {
	OperationID     string        `json:"operation_id"`
	ScopeID         string        `json:"scope_id"`
	EntityType      EntityType    `json:"-"`
	EntityID        string        `json:"entity_id"`
	Kind            OperationKind `json:"kind"`
	ExpectedVersion *int64        `json:"expected_version,omitempty"`
	Fields          Fields        `json:"fields,omitempty"`
}

// ConflictResponse is the 409 body of a push whose expected version is stale.
type ConflictResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Current Entity `json:"current"`
}

// AppendRevisionRequest appends a revision to a handoff's ledger.
type AppendRevisionRequest struct {
	HandoffID               string          `json:"-"`
	ExpectedCurrentRevision int64           `json:"expected_current_revision"`
	Content                 StructuredBrief `json:"content"`
	EditorID                string          `json:"editor_id"`
	ChangeNote              string          `json:"change_note,omitempty"`
}

type AppendRevisionResponse struct {
	HandoffID      string    `json:"handoff_id"`
	RevisionNumber int64     `json:"revision_number"`
	CreatedAt      time.Time `json:"created_at"`
}

// RevisionConflictResponse is the 409 body of a stale revision append.
type RevisionConflictResponse struct {
	Code            string `json:"code"`
	Message         string `json:"message"`
	CurrentRevision int64  `json:"current_revision"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ServerInfo is served by GET /api/version.
type ServerInfo struct {
	Version     string       `json:"version"`
	EntityTypes []EntityType `json:"entity_types"`
}
