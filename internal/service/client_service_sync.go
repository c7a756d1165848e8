// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/validators"
	"github.com/MKhiriev/go-care-sync/models"
)

const (
	defaultPageSize       = 100
	defaultManualMergeTTL = 72 * time.Hour
)

// CoordinatorOption customizes a coordinator.
type CoordinatorOption func(*syncCoordinator)

// WithCoordinatorClock replaces time.Now, mainly for tests.
func WithCoordinatorClock(now func() time.Time) CoordinatorOption {
	return func(s *syncCoordinator) {
		s.now = now
	}
}

type syncCoordinator struct {
	local     LocalState
	pipelines store.PipelineRepository
	remote    adapter.RemoteStore
	resolver  ConflictResolver
	validator validators.Validator
	ids       IDGenerator

	pageSize       int
	manualMergeTTL time.Duration

	// cycle serializes pull and push cycles; write serializes local writes
	// so an enqueue never interleaves with a merge of the same entity.
	cycle sync.Mutex
	write sync.Mutex

	state  *SyncContext
	now    func() time.Time
	logger *logger.Logger
}

func NewSyncCoordinator(
	local LocalState,
	pipelines store.PipelineRepository,
	remote adapter.RemoteStore,
	resolver ConflictResolver,
	validator validators.Validator,
	ids IDGenerator,
	cfg config.ClientSync,
	logger *logger.Logger,
	opts ...CoordinatorOption,
) SyncCoordinator {
	s := &syncCoordinator{
		local:          local,
		pipelines:      pipelines,
		remote:         remote,
		resolver:       resolver,
		validator:      validator,
		ids:            ids,
		pageSize:       cfg.PageSize,
		manualMergeTTL: cfg.ManualMergeTTL,
		state:          NewSyncContext(),
		now:            time.Now,
		logger:         logger,
	}
	if s.pageSize <= 0 {
		s.pageSize = defaultPageSize
	}
	if s.manualMergeTTL <= 0 {
		s.manualMergeTTL = defaultManualMergeTTL
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *syncCoordinator) Enqueue(ctx context.Context, intent models.Intent) (string, error) {
	if err := s.validator.Validate(ctx, intent); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	intent.Fields = normalizeFields(intent.Fields)
	if intent.Kind == models.OperationCreate && intent.EntityID == "" {
		intent.EntityID = s.ids.Generate()
	}

	s.write.Lock()
	defer s.write.Unlock()

	now := s.now()
	err := s.local.WithinTx(ctx, func(tx store.LocalTx) error {
		local, err := tx.GetEntity(ctx, intent.EntityType, intent.EntityID)
		exists := err == nil
		if err != nil && !errors.Is(err, store.ErrEntityNotFound) {
			return err
		}

		op := models.PendingOperation{
			ID:         s.ids.Generate(),
			ScopeID:    intent.ScopeID,
			EntityType: intent.EntityType,
			EntityID:   intent.EntityID,
			Kind:       intent.Kind,
			EnqueuedAt: now,
		}

		switch intent.Kind {
		case models.OperationCreate:
			if exists {
				return ErrEntityExists
			}
			op.Payload = intent.Fields
			local = models.LocalEntity{Entity: models.Entity{
				ID:        intent.EntityID,
				ScopeID:   intent.ScopeID,
				Type:      intent.EntityType,
				Fields:    models.Fields{},
				CreatedAt: now,
				UpdatedAt: now,
			}}
		default:
			switch {
			case !exists:
				return ErrEntityUnknown
			case local.ScopeID != intent.ScopeID:
				return ErrScopeMismatch
			case local.IsTombstone():
				return ErrEntityDeleted
			}
			version := local.Version
			op.ExpectedVersion = &version
			op.Base = local.Fields.Clone()
			if intent.Kind == models.OperationUpdate {
				op.Payload = changedPayload(local.Fields, intent.Fields)
				if len(op.Payload) == 0 {
					return ErrNoChanges
				}
			}
		}

		if _, err = tx.Enqueue(ctx, op); err != nil {
			return err
		}
		applyOptimistic(&local, op)
		return tx.SaveEntity(ctx, local)
	})
	if err != nil {
		return "", err
	}

	logger.FromContext(ctx).Debug().
		Str("func", "syncCoordinator.Enqueue").
		Str("entity_type", string(intent.EntityType)).
		Str("entity_id", intent.EntityID).
		Str("kind", string(intent.Kind)).
		Msg("intent queued")

	return intent.EntityID, nil
}

func (s *syncCoordinator) Pull(ctx context.Context, scopeID string, entityTypes ...models.EntityType) (models.MergeResult, error) {
	s.cycle.Lock()
	defer s.cycle.Unlock()

	s.state.begin()
	defer s.state.end()

	result, err := s.pull(ctx, scopeID, entityTypes...)
	s.state.pulled(s.now(), err)
	return result, err
}

func (s *syncCoordinator) Push(ctx context.Context) (models.PushResult, error) {
	s.cycle.Lock()
	defer s.cycle.Unlock()

	s.state.begin()
	defer s.state.end()

	result, err := s.push(ctx)
	s.state.pushed(s.now(), err)
	return result, err
}

func (s *syncCoordinator) Sync(ctx context.Context, scopeID string) (models.SyncReport, error) {
	s.cycle.Lock()
	defer s.cycle.Unlock()

	s.state.begin()
	defer s.state.end()

	var report models.SyncReport
	var err error

	report.Push, err = s.push(ctx)
	s.state.pushed(s.now(), err)
	if err != nil {
		return report, fmt.Errorf("push: %w", err)
	}

	report.Pull, err = s.pull(ctx, scopeID)
	s.state.pulled(s.now(), err)
	if err != nil {
		return report, fmt.Errorf("pull: %w", err)
	}

	return report, nil
}

// pull merges page after page until a short page. Each page commits with its
// cursor, so a cancelled pull leaves the last fully merged page in place.
func (s *syncCoordinator) pull(ctx context.Context, scopeID string, entityTypes ...models.EntityType) (models.MergeResult, error) {
	if len(entityTypes) == 0 {
		entityTypes = models.SyncedEntityTypes
	}

	log := logger.FromContext(ctx).With().Str("func", "syncCoordinator.pull").Str("scope_id", scopeID).Logger()
	result := models.MergeResult{ScopeID: scopeID, Cursors: make(map[models.EntityType]models.SyncCursor, len(entityTypes))}

	for _, entityType := range entityTypes {
		cursor, err := s.local.Reader().GetCursor(ctx, scopeID, entityType)
		if err != nil {
			return result, err
		}

		for {
			if err = ctx.Err(); err != nil {
				return result, err
			}

			page, err := s.remote.Pull(ctx, models.PullRequest{
				EntityType: entityType,
				ScopeID:    scopeID,
				Cursor:     cursor,
				Limit:      s.pageSize,
			})
			if err != nil {
				return result, fmt.Errorf("pull %s: %w", entityType, mapAdapterError(err))
			}
			if len(page) == 0 {
				break
			}

			if cursor, err = s.mergePage(ctx, cursor, page, &result); err != nil {
				return result, err
			}
			result.Pages++

			if len(page) < s.pageSize {
				break
			}
		}

		result.Cursors[entityType] = cursor
	}

	log.Debug().Int("applied", result.Applied).Int("skipped", result.Skipped).Int("pages", result.Pages).Msg("pull finished")
	return result, nil
}

// mergePage merges page and advances the cursor in one transaction. Counts
// are added to result only after the commit.
func (s *syncCoordinator) mergePage(ctx context.Context, cursor models.SyncCursor, page []models.Entity, result *models.MergeResult) (models.SyncCursor, error) {
	s.write.Lock()
	defer s.write.Unlock()

	var applied, deleted, skipped int
	next := cursor
	err := s.local.WithinTx(ctx, func(tx store.LocalTx) error {
		for _, remote := range page {
			merged, err := mergeRemote(ctx, tx, remote)
			if err != nil {
				return err
			}
			switch {
			case !merged:
				skipped++
			case remote.IsTombstone():
				deleted++
				applied++
			default:
				applied++
			}
			next = next.Advance(remote)
		}
		return tx.SaveCursor(ctx, next)
	})
	if err != nil {
		return cursor, err
	}

	result.Applied += applied
	result.Deleted += deleted
	result.Skipped += skipped
	return next, nil
}

// mergeRemote applies remote when it is newer than the local copy and
// replays the entity's queued operations on top. It reports whether remote
// was applied.
func mergeRemote(ctx context.Context, tx store.LocalTx, remote models.Entity) (bool, error) {
	local, err := tx.GetEntity(ctx, remote.Type, remote.ID)
	switch {
	case err == nil && remote.Version <= local.Version:
		return false, nil
	case err != nil && !errors.Is(err, store.ErrEntityNotFound):
		return false, err
	}

	pending, err := tx.EntityOperations(ctx, remote.Key())
	if err != nil {
		return false, err
	}
	return true, tx.SaveEntity(ctx, rebase(remote, pending))
}

// push drains the queue until nothing is pushable. Every iteration either
// removes the peeked operation, moves it out of pending or pushes its next
// attempt into the future, so the loop ends.
func (s *syncCoordinator) push(ctx context.Context) (models.PushResult, error) {
	var result models.PushResult

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		op, err := s.local.Reader().PeekNext(ctx)
		if errors.Is(err, store.ErrQueueEmpty) {
			break
		}
		if err != nil {
			return result, err
		}

		if err = s.pushOperation(ctx, op, &result, false); err != nil {
			return result, err
		}
	}

	escalated, err := s.escalations(ctx)
	if err != nil {
		return result, err
	}
	result.Escalated = escalated

	return result, nil
}

// pushOperation pushes op once. A conflict goes to the resolver, which may
// push the merged operation one more time (retried).
func (s *syncCoordinator) pushOperation(ctx context.Context, op models.PendingOperation, result *models.PushResult, retried bool) error {
	entity, err := s.remote.Push(ctx, pushRequest(op))

	var conflict *adapter.VersionConflictError
	switch {
	case err == nil:
		if err = s.acknowledge(ctx, op, entity); err != nil {
			return err
		}
		if retried {
			result.AutoMerged = append(result.AutoMerged, op.ID)
		} else {
			result.Acked = append(result.Acked, op.ID)
		}
		return nil
	case errors.As(err, &conflict):
		return s.handleConflict(ctx, op, conflict, result, retried)
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, adapter.ErrUnauthorized):
		return mapAdapterError(err)
	default:
		return s.recordFailure(ctx, op, err, result)
	}
}

func (s *syncCoordinator) handleConflict(ctx context.Context, op models.PendingOperation, conflict *adapter.VersionConflictError, result *models.PushResult, retried bool) error {
	current := conflict.Current
	resolution := s.resolver.Resolve(op, current)

	logger.FromContext(ctx).Info().
		Str("func", "syncCoordinator.handleConflict").
		Str("operation_id", op.ID).
		Str("entity_id", op.EntityID).
		Int64("server_version", current.Version).
		Str("outcome", string(resolution.Outcome)).
		Strs("dropped", resolution.Dropped).
		Msg("push rejected with version conflict")

	switch resolution.Outcome {
	case OutcomeAutoMerged:
		version := current.Version
		op.Kind = resolution.Kind
		op.Payload = resolution.Payload
		op.Base = current.Fields.Clone()
		op.ExpectedVersion = &version
		if err := s.saveAndMerge(ctx, op, current); err != nil {
			return err
		}
		if retried {
			return s.recordFailure(ctx, op, conflict, result)
		}
		return s.pushOperation(ctx, op, result, true)

	case OutcomeServerWins, OutcomeAlreadyApplied:
		if err := s.acknowledge(ctx, op, current); err != nil {
			return err
		}
		if resolution.Outcome == OutcomeServerWins {
			result.ServerWins = append(result.ServerWins, op.ID)
		} else {
			result.Acked = append(result.Acked, op.ID)
		}
		return nil

	default:
		op.Status = models.OperationNeedsManualMerge
		op.Conflict = resolution.Conflict
		op.StatusChangedAt = s.now()
		if err := s.saveAndMerge(ctx, op, current); err != nil {
			return err
		}
		result.ManualMerge = append(result.ManualMerge, op)
		return nil
	}
}

// acknowledge removes op from the queue and merges the server's record in
// the same transaction.
func (s *syncCoordinator) acknowledge(ctx context.Context, op models.PendingOperation, entity models.Entity) error {
	s.write.Lock()
	defer s.write.Unlock()

	return s.local.WithinTx(ctx, func(tx store.LocalTx) error {
		if err := tx.Ack(ctx, op.ID); err != nil {
			return err
		}
		return settle(ctx, tx, op.Key(), entity)
	})
}

// saveAndMerge rewrites op and merges the conflicting server record.
func (s *syncCoordinator) saveAndMerge(ctx context.Context, op models.PendingOperation, current models.Entity) error {
	s.write.Lock()
	defer s.write.Unlock()

	return s.local.WithinTx(ctx, func(tx store.LocalTx) error {
		if err := tx.UpdateOperation(ctx, op); err != nil {
			return err
		}
		return settle(ctx, tx, op.Key(), current)
	})
}

// settle records server as the entity's confirmed state, points every queued
// operation on it at the new version and rebuilds the optimistic copy.
func settle(ctx context.Context, tx store.LocalTx, key models.Key, server models.Entity) error {
	local, err := tx.GetEntity(ctx, key.Type, key.ID)
	switch {
	case err == nil && local.Version > server.Version:
		// a pull already merged a newer record
		server = serverView(local)
	case err != nil && !errors.Is(err, store.ErrEntityNotFound):
		return err
	}

	pending, err := tx.EntityOperations(ctx, key)
	if err != nil {
		return err
	}
	for i := range pending {
		if pending[i].Kind == models.OperationCreate {
			continue
		}
		version := server.Version
		pending[i].ExpectedVersion = &version
		if err = tx.UpdateOperation(ctx, pending[i]); err != nil {
			return err
		}
	}

	return tx.SaveEntity(ctx, rebase(server, pending))
}

func (s *syncCoordinator) recordFailure(ctx context.Context, op models.PendingOperation, cause error, result *models.PushResult) error {
	s.write.Lock()
	defer s.write.Unlock()

	var failed models.PendingOperation
	err := s.local.WithinTx(ctx, func(tx store.LocalTx) error {
		var err error
		if adapter.IsRetryable(cause) || errors.Is(cause, adapter.ErrVersionConflict) {
			failed, err = tx.MarkFailed(ctx, op.ID, cause)
			return err
		}

		// the server refused the operation itself; retrying cannot help
		failed = op
		failed.Attempts++
		failed.LastError = cause.Error()
		failed.Status = models.OperationExhausted
		failed.StatusChangedAt = s.now()
		return tx.UpdateOperation(ctx, failed)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Warn().
		Err(cause).
		Str("func", "syncCoordinator.recordFailure").
		Str("operation_id", op.ID).
		Int("attempts", failed.Attempts).
		Str("status", string(failed.Status)).
		Msg("push attempt failed")

	result.Failed = append(result.Failed, models.OperationFailure{
		OperationID: op.ID,
		EntityID:    op.EntityID,
		Attempts:    failed.Attempts,
		Error:       cause.Error(),
		Exhausted:   failed.Status == models.OperationExhausted,
	})
	return nil
}

// escalations returns manual merges left unresolved for longer than the TTL.
// They stay queued and keep blocking their entity.
func (s *syncCoordinator) escalations(ctx context.Context) ([]models.PendingOperation, error) {
	ops, err := s.local.Reader().ListOperations(ctx, models.OperationNeedsManualMerge)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var escalated []models.PendingOperation
	for _, op := range ops {
		waiting := now.Sub(op.StatusChangedAt)
		if waiting < s.manualMergeTTL {
			continue
		}
		escalated = append(escalated, op)
		logger.FromContext(ctx).Warn().
			Str("func", "syncCoordinator.escalations").
			Str("operation_id", op.ID).
			Str("entity_type", string(op.EntityType)).
			Str("entity_id", op.EntityID).
			Dur("waiting", waiting).
			Msg("manual merge unresolved past TTL, later edits of the entity stay blocked")
	}
	return escalated, nil
}

func (s *syncCoordinator) ResolveManualMerge(ctx context.Context, operationID string, resolution models.ManualResolution) error {
	s.write.Lock()
	defer s.write.Unlock()

	now := s.now()
	return s.local.WithinTx(ctx, func(tx store.LocalTx) error {
		op, err := tx.GetOperation(ctx, operationID)
		if err != nil {
			return err
		}
		if op.Status != models.OperationNeedsManualMerge || op.Conflict == nil {
			return ErrNotInManualMerge
		}

		local, err := tx.GetEntity(ctx, op.EntityType, op.EntityID)
		if err != nil {
			return err
		}

		switch resolution.Choice {
		case models.KeepServer:
			payload := withoutConflicts(op.Payload, op.Conflict)
			if op.Kind == models.OperationDelete || op.Conflict.ServerDeleted || len(payload) == 0 {
				if err = tx.Ack(ctx, op.ID); err != nil {
					return err
				}
				return settle(ctx, tx, op.Key(), serverView(local))
			}
			op.Payload = payload
		case models.KeepClient:
			if op.Conflict.ServerDeleted {
				return ErrServerDeleted
			}
		case models.UseFields:
			if op.Conflict.ServerDeleted {
				return ErrServerDeleted
			}
			if op.Kind == models.OperationDelete || len(resolution.Fields) == 0 {
				return ErrInvalidDataProvided
			}
			op.Payload = op.Payload.Overlay(normalizeFields(resolution.Fields))
		default:
			return ErrUnknownMergeChoice
		}

		version := local.Version
		op.ExpectedVersion = &version
		op.Base = local.ServerFields.Clone()
		op.Status = models.OperationPending
		op.Conflict = nil
		op.Attempts = 0
		op.LastError = ""
		op.NextAttemptAt = now
		op.StatusChangedAt = now
		if err = tx.UpdateOperation(ctx, op); err != nil {
			return err
		}
		return settle(ctx, tx, op.Key(), serverView(local))
	})
}

func (s *syncCoordinator) RetryOperation(ctx context.Context, operationID string) error {
	s.write.Lock()
	defer s.write.Unlock()

	now := s.now()
	return s.local.WithinTx(ctx, func(tx store.LocalTx) error {
		op, err := tx.GetOperation(ctx, operationID)
		if err != nil {
			return err
		}
		if op.Status == models.OperationNeedsManualMerge {
			return ErrNeedsManualMerge
		}

		if op.Status == models.OperationExhausted {
			op.Attempts = 0
			op.Status = models.OperationPending
			op.StatusChangedAt = now
		}
		op.NextAttemptAt = now
		return tx.UpdateOperation(ctx, op)
	})
}

func (s *syncCoordinator) Operations(ctx context.Context, statuses ...models.OperationStatus) ([]models.PendingOperation, error) {
	return s.local.Reader().ListOperations(ctx, statuses...)
}

func (s *syncCoordinator) Entity(ctx context.Context, entityType models.EntityType, id string) (models.LocalEntity, error) {
	return s.local.Reader().GetEntity(ctx, entityType, id)
}

func (s *syncCoordinator) Entities(ctx context.Context, scopeID string, entityType models.EntityType) ([]models.LocalEntity, error) {
	return s.local.Reader().ListEntities(ctx, scopeID, entityType)
}

func (s *syncCoordinator) Status(ctx context.Context) (models.SyncStatus, error) {
	status := s.state.Snapshot()

	ops, err := s.local.Reader().ListOperations(ctx)
	if err != nil {
		return status, err
	}
	for _, op := range ops {
		status.QueuedOps++
		switch op.Status {
		case models.OperationNeedsManualMerge:
			status.ManualMerges++
		case models.OperationExhausted:
			status.ExhaustedOps++
		}
	}

	active, err := s.pipelines.ListPipelines(ctx,
		models.StateCaptured, models.StateUploading, models.StateTranscribing, models.StateStructuring, models.StateReview)
	if err != nil {
		return status, err
	}
	status.ActivePipelines = len(active)

	if status.Cursors, err = s.local.Reader().ListCursors(ctx); err != nil {
		return status, err
	}

	return status, nil
}

func pushRequest(op models.PendingOperation) models.PushRequest {
	return models.PushRequest{
		OperationID:     op.ID,
		ScopeID:         op.ScopeID,
		EntityType:      op.EntityType,
		EntityID:        op.EntityID,
		Kind:            op.Kind,
		ExpectedVersion: op.ExpectedVersion,
		Fields:          op.Payload,
	}
}

// changedPayload keeps the fields of intent whose value differs from current.
func changedPayload(current, intent models.Fields) models.Fields {
	payload := models.Fields{}
	for field, value := range intent {
		if existing, ok := current[field]; !ok || !sameText(existing, value) {
			payload[field] = value
		}
	}
	return payload
}

func withoutConflicts(payload models.Fields, conflict *models.MergeConflict) models.Fields {
	out := payload.Clone()
	for _, f := range conflict.Fields {
		delete(out, f.Field)
	}
	return out
}

// applyOptimistic replays op on the local copy.
func applyOptimistic(local *models.LocalEntity, op models.PendingOperation) {
	switch op.Kind {
	case models.OperationCreate, models.OperationUpdate:
		local.Fields = local.Fields.Overlay(op.Payload)
	case models.OperationDelete:
		deletedAt := op.EnqueuedAt
		local.DeletedAt = &deletedAt
	}
	local.PendingOps++
}

// rebase builds the optimistic copy from the server record and the entity's
// queued operations in enqueue order.
func rebase(server models.Entity, pending []models.PendingOperation) models.LocalEntity {
	local := models.LocalEntity{
		Entity:          server,
		ServerFields:    server.Fields.Clone(),
		ServerDeletedAt: server.DeletedAt,
	}
	local.Fields = server.Fields.Clone()
	for _, op := range pending {
		applyOptimistic(&local, op)
	}
	return local
}

// serverView is the last server-confirmed record behind a local copy.
func serverView(local models.LocalEntity) models.Entity {
	server := local.Entity
	server.Fields = local.ServerFields.Clone()
	server.DeletedAt = local.ServerDeletedAt
	return server
}
