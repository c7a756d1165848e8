// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
)

// LocalStore owns the client's SQLite state: cached entities, the offline
// queue and sync cursors. Multi-step changes go through WithinTx so that a
// merged page and its cursor, or an acknowledgment and its merge, commit together.
type LocalStore struct {
	db     *DB
	policy RetryPolicy
	now    func() time.Time
	logger *logger.Logger
}

// LocalStoreOption customizes a LocalStore.
type LocalStoreOption func(*LocalStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) LocalStoreOption {
	return func(s *LocalStore) {
		s.now = now
	}
}

// NewLocalStore constructs a LocalStore over an opened and migrated SQLite DB.
func NewLocalStore(db *DB, policy RetryPolicy, log *logger.Logger, opts ...LocalStoreOption) *LocalStore {
	s := &LocalStore{
		db:     db,
		policy: policy.withDefaults(),
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reader returns local-state operations running outside a transaction.
// It must not be used inside a WithinTx callback.
func (s *LocalStore) Reader() LocalTx {
	return s.queries(s.db.DB)
}

// WithinTx runs fn in one transaction and commits if fn returns nil.
// A cancelled ctx rolls the transaction back.
func (s *LocalStore) WithinTx(ctx context.Context, fn func(tx LocalTx) error) error {
	log := logger.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "LocalStore.WithinTx").Msg("error during opening transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(s.queries(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "LocalStore.WithinTx").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// Pipelines returns the pipeline record repository sharing this database.
func (s *LocalStore) Pipelines() PipelineRepository {
	return &pipelineRepository{db: s.db.DB, now: s.now}
}

func (s *LocalStore) queries(db dbtx) *localQueries {
	return &localQueries{db: db, policy: s.policy, now: s.now}
}

// localQueries implements LocalTx over a connection or a transaction.
type localQueries struct {
	db     dbtx
	policy RetryPolicy
	now    func() time.Time
}
