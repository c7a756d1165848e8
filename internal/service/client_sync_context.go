// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-care-sync/models"
)

// SyncContext is the mutable sync state owned by one coordinator: whether a
// cycle is running, when the last pull and push finished and the last error.
// Cursors are durable and live in the local store.
type SyncContext struct {
	mu sync.RWMutex

	syncing    bool
	lastPullAt time.Time
	lastPushAt time.Time
	lastError  string
}

func NewSyncContext() *SyncContext {
	return &SyncContext{}
}

func (c *SyncContext) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncing = true
}

func (c *SyncContext) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncing = false
}

func (c *SyncContext) pulled(at time.Time, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.lastPullAt = at
	}
	c.setError(err)
}

func (c *SyncContext) pushed(at time.Time, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.lastPushAt = at
	}
	c.setError(err)
}

func (c *SyncContext) setError(err error) {
	if err != nil {
		c.lastError = err.Error()
		return
	}
	c.lastError = ""
}

// Snapshot fills the timing and error fields of a status report.
func (c *SyncContext) Snapshot() models.SyncStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.SyncStatus{
		Syncing:    c.syncing,
		LastPullAt: c.lastPullAt,
		LastPushAt: c.lastPushAt,
		LastError:  c.lastError,
	}
}
