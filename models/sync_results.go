// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// MergeResult summarizes one pull.
type MergeResult struct {
	ScopeID string `json:"scope_id"`

	// Applied counts records that replaced or created a local copy.
	Applied int `json:"applied"`

	// Deleted counts applied tombstones.
	Deleted int `json:"deleted"`

	// Skipped counts records whose version was not newer than the local one.
	Skipped int `json:"skipped"`

	Pages   int                        `json:"pages"`
	Cursors map[EntityType]SyncCursor `json:"cursors"`
}

// OperationFailure is an operation that stayed queued after a push attempt.
type OperationFailure struct {
	OperationID string `json:"operation_id"`
	EntityID    string `json:"entity_id"`
	Attempts    int    `json:"attempts"`
	Error       string `json:"error"`
	Exhausted   bool   `json:"exhausted,omitempty"`
}

// PushResult summarizes one drain of the offline queue.
//
// Operations succeed or fail independently; a non-empty Failed list next to
// a non-empty Acked list is a partial failure.
type PushResult struct {
	Acked       []string           `json:"acked,omitempty"`
	AutoMerged  []string           `json:"auto_merged,omitempty"`
	ServerWins  []string           `json:"server_wins,omitempty"`
	ManualMerge []PendingOperation `json:"manual_merge,omitempty"`
	Failed      []OperationFailure `json:"failed,omitempty"`

	// Escalated lists manual merges left unresolved past the configured TTL.
	Escalated []PendingOperation `json:"escalated,omitempty"`
}

// PartialFailure reports whether some operations were acknowledged while others failed.
func (r PushResult) PartialFailure() bool {
	return len(r.Acked) > 0 && len(r.Failed) > 0
}

// SyncStatus is a snapshot of the client's sync state.
type SyncStatus struct {
	Syncing         bool         `json:"syncing"`
	LastPullAt      time.Time    `json:"last_pull_at,omitzero"`
	LastPushAt      time.Time    `json:"last_push_at,omitzero"`
	LastError       string       `json:"last_error,omitempty"`
	QueuedOps       int          `json:"queued_ops"`
	ManualMerges    int          `json:"manual_merges"`
	ExhaustedOps    int          `json:"exhausted_ops"`
	ActivePipelines int          `json:"active_pipelines"`
	Cursors         []SyncCursor `json:"cursors"`
}

// SyncReport is the outcome of one push-then-pull cycle.
type SyncReport struct {
	Push PushResult  `json:"push"`
	Pull MergeResult `json:"pull"`
}
