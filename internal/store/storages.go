// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "github.com/MKhiriev/go-care-sync/internal/logger"

// Storages groups the server-side repositories.
type Storages struct {
	EntityRepository   EntityRepository
	RevisionRepository RevisionRepository
	ReplayCache        ReplayCache
}

// NewStorages builds the server repositories over db. A nil cache disables
// the replay cache.
func NewStorages(db *DB, cache ReplayCache, log *logger.Logger) *Storages {
	if cache == nil {
		cache = NewNopReplayCache()
	}
	return &Storages{
		EntityRepository:   NewEntityRepository(db, log),
		RevisionRepository: NewRevisionRepository(db, log),
		ReplayCache:        cache,
	}
}
