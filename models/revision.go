// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

const (
	HandoffStatusDraft     = "draft"
	HandoffStatusPublished = "published"
)

// Revision is an immutable snapshot of a handoff's structured content.
//
// Numbers form a gapless sequence per handoff starting at 1.
type Revision struct {
	HandoffID   string          `json:"handoff_id"`
	ScopeID     string          `json:"scope_id"`
	Number      int64           `json:"revision_number"`
	Content     StructuredBrief `json:"content"`
	ContentHash string          `json:"content_hash"`
	EditorID    string          `json:"editor_id"`
	ChangeNote  string          `json:"change_note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
