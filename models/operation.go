// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// OperationKind is the mutation a pending operation performs.
type OperationKind string

const (
	OperationCreate OperationKind = "CREATE"
	OperationUpdate OperationKind = "UPDATE"
	OperationDelete OperationKind = "DELETE"
)

// OperationStatus tracks where a queued operation is in its lifecycle.
type OperationStatus string

const (
	// OperationPending operations are eligible for push once NextAttemptAt passes.
	OperationPending OperationStatus = "pending"

	// OperationNeedsManualMerge operations hit a same-field conflict. They are
	// never retried automatically and keep later operations on the entity blocked.
	OperationNeedsManualMerge OperationStatus = "needs_manual_merge"

	// OperationExhausted operations ran out of retry attempts.
	OperationExhausted OperationStatus = "exhausted"
)

// PendingOperation is a mutation that has not been acknowledged by the server.
type PendingOperation struct {
	// ID is generated on the client and doubles as the server-side idempotency key.
	ID string `json:"operation_id"`

	// Seq is the queue position. Lower values were enqueued earlier.
	Seq int64 `json:"seq"`

	ScopeID    string        `json:"scope_id"`
	EntityType EntityType    `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	Kind       OperationKind `json:"kind"`

	// Payload holds the fields the operation changes.
	Payload Fields `json:"payload,omitempty"`

	// Base is the field snapshot the user edited from. The conflict resolver
	// diffs it against the server record to find concurrent changes.
	Base Fields `json:"base,omitempty"`

	// ExpectedVersion is the version the client believed was current.
	// Nil for CREATE.
	ExpectedVersion *int64 `json:"expected_version,omitempty"`

	EnqueuedAt      time.Time       `json:"enqueued_at"`
	Attempts        int             `json:"attempts"`
	LastError       string          `json:"last_error,omitempty"`
	NextAttemptAt   time.Time       `json:"next_attempt_at"`
	Status          OperationStatus `json:"status"`
	StatusChangedAt time.Time       `json:"status_changed_at"`

	// Conflict is set while Status is OperationNeedsManualMerge.
	Conflict *MergeConflict `json:"conflict,omitempty"`
}

// Key returns the identity of the targeted entity.
func (o PendingOperation) Key() Key {
	return Key{Type: o.EntityType, ID: o.EntityID}
}

// FieldConflict carries both sides of a field changed by client and server.
type FieldConflict struct {
	Field       string `json:"field"`
	BaseValue   string `json:"base_value"`
	ClientValue string `json:"client_value"`
	ServerValue string `json:"server_value"`
}

// MergeConflict describes why an operation needs a manual merge.
type MergeConflict struct {
	Reason        string          `json:"reason"`
	ServerVersion int64           `json:"server_version"`
	ServerDeleted bool            `json:"server_deleted,omitempty"`
	Fields        []FieldConflict `json:"fields,omitempty"`
}

// Intent is a local mutation requested by the user, before it is queued.
// EntityID may be empty for CREATE; one is generated.
type Intent struct {
	ScopeID    string        `json:"scope_id"`
	EntityType EntityType    `json:"entity_type"`
	EntityID   string        `json:"entity_id,omitempty"`
	Kind       OperationKind `json:"kind"`
	Fields     Fields        `json:"fields,omitempty"`
}

// MergeChoice selects how a manual merge is settled.
type MergeChoice string

const (
	// KeepServer drops the client's conflicting values.
	KeepServer MergeChoice = "keep_server"
	// KeepClient re-pushes the client's values over the server record.
	KeepClient MergeChoice = "keep_client"
	// UseFields re-pushes caller-provided values for the conflicting fields.
	UseFields MergeChoice = "use_fields"
)

// ManualResolution is the caller's decision for an operation in manual merge.
type ManualResolution struct {
	Choice MergeChoice `json:"choice"`
	Fields Fields      `json:"fields,omitempty"`
}
