// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncCursor is the pull high-water mark of one collection in one scope.
//
// Records are ordered by (UpdatedAt, ID); the cursor points at the last
// record already merged.
type SyncCursor struct {
	ScopeID           string     `json:"scope_id"`
	EntityType        EntityType `json:"entity_type"`
	LastSeenUpdatedAt time.Time  `json:"last_seen_updated_at"`
	LastSeenID        string     `json:"last_seen_id"`
}

// IsZero reports whether nothing has been pulled yet.
func (c SyncCursor) IsZero() bool {
	return c.LastSeenUpdatedAt.IsZero() && c.LastSeenID == ""
}

// Advance returns the cursor moved to e if e sorts after the current position.
func (c SyncCursor) Advance(e Entity) SyncCursor {
	if e.UpdatedAt.After(c.LastSeenUpdatedAt) ||
		(e.UpdatedAt.Equal(c.LastSeenUpdatedAt) && e.ID > c.LastSeenID) {
		c.LastSeenUpdatedAt = e.UpdatedAt
		c.LastSeenID = e.ID
	}
	return c
}
