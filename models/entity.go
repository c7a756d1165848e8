// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"maps"
	"time"
)

// EntityType names a synchronized collection. It doubles as the URL path
// segment of the pull and push endpoints.
type EntityType string

const (
	EntityTasks       EntityType = "tasks"
	EntityBinderItems EntityType = "binder_items"
	EntityHandoffs    EntityType = "handoffs"
)

// SyncedEntityTypes lists every collection the client keeps a cursor for.
var SyncedEntityTypes = []EntityType{EntityTasks, EntityBinderItems, EntityHandoffs}

// Valid reports whether t is one of the known collections.
func (t EntityType) Valid() bool {
	for _, known := range SyncedEntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Fields holds the field values of a record keyed by field name.
//
// Values are kept as strings: timestamps are RFC 3339, enums are their
// wire names and free text is stored verbatim.
type Fields map[string]string

// Clone returns an independent copy of f. A nil map clones to an empty one.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	maps.Copy(out, f)
	return out
}

// Overlay returns a copy of f with every value of patch applied on top.
func (f Fields) Overlay(patch Fields) Fields {
	out := f.Clone()
	maps.Copy(out, patch)
	return out
}

// Entity is the shape shared by every synchronized record.
//
// Version is assigned by the server and strictly increases on every accepted
// mutation. A client never sets it on its own. DeletedAt is the tombstone:
// nil means the record is live.
type Entity struct {
	// ID is unique within the owning scope.
	ID string `json:"id"`

	// ScopeID is the care circle the record belongs to.
	ScopeID string `json:"scope_id"`

	Type EntityType `json:"entity_type"`

	Version int64 `json:"version"`

	Fields Fields `json:"fields"`

	// CurrentRevision points at the latest ledger revision. Handoffs only.
	CurrentRevision int64 `json:"current_revision,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsTombstone reports whether the record has been deleted.
func (e Entity) IsTombstone() bool {
	return e.DeletedAt != nil
}

// Key identifies an entity across collections.
type Key struct {
	Type EntityType
	ID   string
}

// Key returns the collection-qualified identity of e.
func (e Entity) Key() Key {
	return Key{Type: e.Type, ID: e.ID}
}

// LocalEntity is the client's cached copy of an entity.
//
// The embedded Entity is the optimistic view: server state with every
// still-queued operation replayed on top. ServerFields, ServerDeletedAt and
// Version are the last values the server confirmed.
type LocalEntity struct {
	Entity

	ServerFields Fields `json:"server_fields"`

	// ServerDeletedAt is the server's tombstone, kept apart from DeletedAt
	// which also reflects a queued local delete.
	ServerDeletedAt *time.Time `json:"server_deleted_at,omitempty"`

	// PendingOps counts queued operations targeting this entity.
	PendingOps int `json:"pending_ops"`
}
