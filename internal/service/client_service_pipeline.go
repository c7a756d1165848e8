// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/internal/validators"
	"github.com/MKhiriev/go-care-sync/models"
)

const (
	defaultPollInterval         = 2 * time.Second
	defaultStageTimeout         = 10 * time.Minute
	defaultCollaboratorAttempts = 5
	defaultCollaboratorBackoff  = 500 * time.Millisecond

	// claimMargin pads the record lease past the longest single stage.
	claimMargin = time.Minute
)

// Handoff field values written by the pipeline.
const (
	handoffStatusField = "status"
	handoffDraft       = "draft"
)

// PipelineOption customizes a publish pipeline.
type PipelineOption func(*publishPipeline)

// WithPipelineClock replaces time.Now, mainly for tests.
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *publishPipeline) {
		p.now = now
	}
}

// WithPipelineOwner names the lease holder, mainly for tests. By default
// every pipeline instance gets a fresh UUID.
func WithPipelineOwner(owner string) PipelineOption {
	return func(p *publishPipeline) {
		p.owner = owner
	}
}

// WithAudioOpener replaces os.Open for reading captured audio.
func WithAudioOpener(open func(path string) (io.ReadCloser, error)) PipelineOption {
	return func(p *publishPipeline) {
		p.openAudio = open
	}
}

type publishPipeline struct {
	pipelines     store.PipelineRepository
	coordinator   SyncCoordinator
	remote        adapter.RemoteStore
	storage       adapter.ObjectStorage
	transcription adapter.AsyncJobService
	structuring   adapter.AsyncJobService
	briefs        validators.Validator
	cfg           config.ClientPipeline

	// running holds the handoffs a call in this process is advancing. The
	// record lease in the store covers other processes sharing the database.
	mu      sync.Mutex
	running map[string]struct{}
	owner   string

	openAudio func(path string) (io.ReadCloser, error)
	now       func() time.Time
	logger    *logger.Logger
}

func NewPublishPipeline(
	pipelines store.PipelineRepository,
	coordinator SyncCoordinator,
	remote adapter.RemoteStore,
	storage adapter.ObjectStorage,
	transcription adapter.AsyncJobService,
	structuring adapter.AsyncJobService,
	briefs validators.Validator,
	cfg config.ClientPipeline,
	logger *logger.Logger,
	opts ...PipelineOption,
) PublishPipeline {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = defaultStageTimeout
	}
	if cfg.CollaboratorAttempts <= 0 {
		cfg.CollaboratorAttempts = defaultCollaboratorAttempts
	}
	if cfg.CollaboratorBackoff <= 0 {
		cfg.CollaboratorBackoff = defaultCollaboratorBackoff
	}

	p := &publishPipeline{
		pipelines:     pipelines,
		coordinator:   coordinator,
		remote:        remote,
		storage:       storage,
		transcription: transcription,
		structuring:   structuring,
		briefs:        briefs,
		cfg:           cfg,
		running:       make(map[string]struct{}),
		owner:         utils.NewUUIDGenerator().Generate(),
		openAudio:     func(path string) (io.ReadCloser, error) { return os.Open(path) },
		now:           time.Now,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *publishPipeline) Capture(ctx context.Context, req models.CaptureRequest) (models.PipelineRecord, error) {
	if req.ScopeID == "" || req.AudioPath == "" {
		return models.PipelineRecord{}, ErrInvalidDataProvided
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return models.PipelineRecord{}, fmt.Errorf("%w: %w", ErrAudioNotFound, err)
	}

	record := models.PipelineRecord{
		ScopeID:   req.ScopeID,
		State:     models.StateCaptured,
		AudioPath: req.AudioPath,
		CreatedAt: p.now(),
	}

	if req.HandoffID == "" {
		id, err := p.coordinator.Enqueue(ctx, models.Intent{
			ScopeID:    req.ScopeID,
			EntityType: models.EntityHandoffs,
			Kind:       models.OperationCreate,
			Fields:     models.Fields{handoffStatusField: handoffDraft},
		})
		if err != nil {
			return models.PipelineRecord{}, fmt.Errorf("create handoff: %w", err)
		}
		record.HandoffID = id
	} else {
		handoff, err := p.coordinator.Entity(ctx, models.EntityHandoffs, req.HandoffID)
		if errors.Is(err, store.ErrEntityNotFound) {
			return models.PipelineRecord{}, ErrEntityUnknown
		}
		if err != nil {
			return models.PipelineRecord{}, err
		}
		if handoff.ScopeID != req.ScopeID {
			return models.PipelineRecord{}, ErrScopeMismatch
		}
		if handoff.IsTombstone() {
			return models.PipelineRecord{}, ErrEntityDeleted
		}

		existing, err := p.pipelines.GetPipeline(ctx, req.HandoffID)
		switch {
		case err == nil && !existing.State.Terminal():
			return models.PipelineRecord{}, ErrPipelineActive
		case err != nil && !errors.Is(err, store.ErrPipelineNotFound):
			return models.PipelineRecord{}, err
		}

		record.HandoffID = req.HandoffID
		record.BaseRevision = handoff.CurrentRevision
	}

	if err := p.save(ctx, &record); err != nil {
		return models.PipelineRecord{}, err
	}

	logger.FromContext(ctx).Info().
		Str("func", "publishPipeline.Capture").
		Str("handoff_id", record.HandoffID).
		Int64("base_revision", record.BaseRevision).
		Msg("handoff captured")

	return record, nil
}

func (p *publishPipeline) Run(ctx context.Context, handoffID string) (models.PipelineRecord, error) {
	if err := p.acquire(ctx, handoffID); err != nil {
		return models.PipelineRecord{}, err
	}
	defer p.release(ctx, handoffID)

	return p.run(ctx, handoffID)
}

// run advances the record one stage at a time, persisting every outcome
// before the next stage starts. A cancelled ctx returns ctx.Err() and leaves
// the record at its last persisted stage.
func (p *publishPipeline) run(ctx context.Context, handoffID string) (models.PipelineRecord, error) {
	record, err := p.pipelines.GetPipeline(ctx, handoffID)
	if err != nil {
		return models.PipelineRecord{}, err
	}

	log := logger.FromContext(ctx).With().Str("func", "publishPipeline.run").Str("handoff_id", handoffID).Logger()

	for record.State.Automatic() {
		if err = ctx.Err(); err != nil {
			return record, err
		}

		// a lease that expired mid-run may have been taken over
		if err = p.claim(ctx, handoffID); err != nil {
			return record, err
		}

		from := record.State
		next, err := p.advance(ctx, record)
		if err != nil {
			return record, err
		}
		if err = p.save(ctx, &next); err != nil {
			return record, err
		}
		record = next

		if record.State == models.StateFailed {
			log.Warn().
				Str("stage", string(record.FailedStage)).
				Str("reason", record.FailureReason).
				Bool("retryable", record.Retryable).
				Msg("pipeline stage failed")
			break
		}
		log.Debug().Str("from", string(from)).Str("to", string(record.State)).Msg("pipeline advanced")
	}

	return record, nil
}

// advance performs the work of record's current stage and returns the record
// in the next state or FAILED. Errors are returned only for cancellation and
// local storage failures.
func (p *publishPipeline) advance(ctx context.Context, record models.PipelineRecord) (models.PipelineRecord, error) {
	switch record.State {
	case models.StateCaptured:
		record.State = models.StateUploading
		return record, nil
	case models.StateUploading:
		return p.upload(ctx, record)
	case models.StateTranscribing:
		return p.transcribe(ctx, record)
	case models.StateStructuring:
		return p.structure(ctx, record)
	default:
		return record, fmt.Errorf("no automatic transition from %s", record.State)
	}
}

func (p *publishPipeline) upload(ctx context.Context, record models.PipelineRecord) (models.PipelineRecord, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	key := objectKey(record)
	err := p.withRetry(stageCtx, func(ctx context.Context) error {
		audio, err := p.openAudio(record.AudioPath)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAudioNotFound, err)
		}
		defer audio.Close()
		return p.storage.Put(ctx, key, audio)
	})
	if ctx.Err() != nil {
		return record, ctx.Err()
	}
	if err != nil {
		return stageFailed(record, models.StateUploading, err), nil
	}

	record.ObjectKey = key
	record.State = models.StateTranscribing
	return record, nil
}

func (p *publishPipeline) transcribe(ctx context.Context, record models.PipelineRecord) (models.PipelineRecord, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	if record.TranscriptionJobID == "" {
		jobID, err := p.submit(stageCtx, p.transcription, models.JobRequest{HandoffID: record.HandoffID, ObjectKey: record.ObjectKey})
		if ctx.Err() != nil {
			return record, ctx.Err()
		}
		if err != nil {
			return stageFailed(record, models.StateTranscribing, err), nil
		}
		// persisted before polling so a restart polls this job instead of submitting another
		record.TranscriptionJobID = jobID
		if err = p.save(ctx, &record); err != nil {
			return record, err
		}
	}

	result, err := p.awaitJob(stageCtx, p.transcription, record.TranscriptionJobID)
	if ctx.Err() != nil {
		return record, ctx.Err()
	}
	switch {
	case err != nil:
		return stageFailed(record, models.StateTranscribing, err), nil
	case result.State == models.JobFailed:
		record.TranscriptionJobID = ""
		return failed(record, models.StateTranscribing, "transcription job failed: "+result.ErrorCode, true), nil
	case result.Transcript == "":
		return failed(record, models.StateTranscribing, "transcription returned an empty transcript", false), nil
	}

	record.Transcript = result.Transcript
	record.State = models.StateStructuring
	return record, nil
}

func (p *publishPipeline) structure(ctx context.Context, record models.PipelineRecord) (models.PipelineRecord, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	if record.StructuringJobID == "" {
		jobID, err := p.submit(stageCtx, p.structuring, models.JobRequest{HandoffID: record.HandoffID, Transcript: record.Transcript})
		if ctx.Err() != nil {
			return record, ctx.Err()
		}
		if err != nil {
			return stageFailed(record, models.StateStructuring, err), nil
		}
		record.StructuringJobID = jobID
		if err = p.save(ctx, &record); err != nil {
			return record, err
		}
	}

	result, err := p.awaitJob(stageCtx, p.structuring, record.StructuringJobID)
	if ctx.Err() != nil {
		return record, ctx.Err()
	}
	switch {
	case err != nil:
		return stageFailed(record, models.StateStructuring, err), nil
	case result.State == models.JobFailed:
		record.StructuringJobID = ""
		return failed(record, models.StateStructuring, "structuring job failed: "+result.ErrorCode, true), nil
	case result.Brief == nil:
		record.StructuringJobID = ""
		return failed(record, models.StateStructuring, ErrSchemaInvalid.Error()+": no brief returned", true), nil
	}

	// never repaired; a retry asks the structuring service again
	if err = p.briefs.Validate(ctx, result.Brief, validators.FieldSchema); err != nil {
		record.StructuringJobID = ""
		return failed(record, models.StateStructuring, fmt.Sprintf("%s: %v", ErrSchemaInvalid, err), true), nil
	}

	record.Brief = result.Brief
	record.State = models.StateReview
	return record, nil
}

func (p *publishPipeline) submit(ctx context.Context, jobs adapter.AsyncJobService, req models.JobRequest) (string, error) {
	var jobID string
	err := p.withRetry(ctx, func(ctx context.Context) error {
		var err error
		jobID, err = jobs.Submit(ctx, req)
		return err
	})
	return jobID, err
}

// awaitJob polls until the job is done or ctx expires. Retryable poll errors
// are logged and polled through.
func (p *publishPipeline) awaitJob(ctx context.Context, jobs adapter.AsyncJobService, jobID string) (models.JobResult, error) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		result, err := jobs.Poll(ctx, jobID)
		switch {
		case err == nil && result.State.Done():
			return result, nil
		case err != nil && !adapter.IsRetryable(err):
			return result, err
		case err != nil:
			logger.FromContext(ctx).Debug().
				Err(err).
				Str("func", "publishPipeline.awaitJob").
				Str("job_id", jobID).
				Msg("job poll failed, polling again")
		}

		select {
		case <-ctx.Done():
			return models.JobResult{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// withRetry retries fn with exponential backoff while it fails with a
// retryable collaborator error.
func (p *publishPipeline) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(p.cfg.CollaboratorAttempts-1), retry.NewExponential(p.cfg.CollaboratorBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && adapter.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (p *publishPipeline) Resume(ctx context.Context) ([]models.PipelineRecord, error) {
	records, err := p.pipelines.ListPipelines(ctx,
		models.StateCaptured, models.StateUploading, models.StateTranscribing, models.StateStructuring)
	if err != nil {
		return nil, err
	}

	var errs []error
	resumed := make([]models.PipelineRecord, 0, len(records))
	for _, record := range records {
		if err = ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		logger.FromContext(ctx).Info().
			Str("func", "publishPipeline.Resume").
			Str("handoff_id", record.HandoffID).
			Str("state", string(record.State)).
			Msg("resuming pipeline")

		result, err := p.Run(ctx, record.HandoffID)
		if errors.Is(err, ErrPipelineBusy) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("handoff %s: %w", record.HandoffID, err))
			continue
		}
		resumed = append(resumed, result)
	}

	return resumed, errors.Join(errs...)
}

func (p *publishPipeline) Retry(ctx context.Context, handoffID string) (models.PipelineRecord, error) {
	if err := p.acquire(ctx, handoffID); err != nil {
		return models.PipelineRecord{}, err
	}
	defer p.release(ctx, handoffID)

	record, err := p.pipelines.GetPipeline(ctx, handoffID)
	if err != nil {
		return models.PipelineRecord{}, err
	}
	if record.State != models.StateFailed || !record.Retryable {
		return record, ErrNotRetryable
	}

	record.State = record.FailedStage
	record.FailedStage = ""
	record.FailureReason = ""
	record.Retryable = false
	if err = p.save(ctx, &record); err != nil {
		return record, err
	}

	return p.run(ctx, handoffID)
}

func (p *publishPipeline) Confirm(ctx context.Context, handoffID, fieldID string) (models.PipelineRecord, error) {
	return p.review(ctx, handoffID, func(record *models.PipelineRecord) error {
		for i := range record.Brief.Fields {
			field := &record.Brief.Fields[i]
			if field.ID != fieldID {
				continue
			}
			if field.Kind != models.KindMedicationChange || field.Medication == nil {
				return ErrNotMedicationField
			}
			field.Medication.Confirmed = true
			return nil
		}
		return ErrBriefFieldNotFound
	})
}

// EditBrief replaces the brief under review. A medication change whose
// content was edited must be confirmed again.
func (p *publishPipeline) EditBrief(ctx context.Context, handoffID string, brief models.StructuredBrief) (models.PipelineRecord, error) {
	if err := p.briefs.Validate(ctx, brief, validators.FieldSchema); err != nil {
		return models.PipelineRecord{}, fmt.Errorf("%w: %w", ErrSchemaInvalid, err)
	}

	return p.review(ctx, handoffID, func(record *models.PipelineRecord) error {
		previous := make(map[string]models.MedicationChange)
		for _, f := range record.Brief.Fields {
			if f.Medication != nil {
				previous[f.ID] = *f.Medication
			}
		}

		for i := range brief.Fields {
			med := brief.Fields[i].Medication
			if med == nil || !med.Confirmed {
				continue
			}
			before, ok := previous[brief.Fields[i].ID]
			if !ok || !sameMedication(before, *med) {
				med.Confirmed = false
			}
		}

		record.Brief = &brief
		return nil
	})
}

// review applies edit to a record in REVIEW and saves it.
func (p *publishPipeline) review(ctx context.Context, handoffID string, edit func(record *models.PipelineRecord) error) (models.PipelineRecord, error) {
	if err := p.acquire(ctx, handoffID); err != nil {
		return models.PipelineRecord{}, err
	}
	defer p.release(ctx, handoffID)

	record, err := p.pipelines.GetPipeline(ctx, handoffID)
	if err != nil {
		return models.PipelineRecord{}, err
	}
	if record.State != models.StateReview || record.Brief == nil {
		return record, ErrNotInReview
	}

	if err = edit(&record); err != nil {
		return record, err
	}
	if err = p.save(ctx, &record); err != nil {
		return record, err
	}
	return record, nil
}

func (p *publishPipeline) Publish(ctx context.Context, req models.PublishRequest) (models.PublishOutcome, error) {
	if err := p.acquire(ctx, req.HandoffID); err != nil {
		return models.PublishOutcome{}, err
	}
	defer p.release(ctx, req.HandoffID)

	record, err := p.pipelines.GetPipeline(ctx, req.HandoffID)
	if err != nil {
		return models.PublishOutcome{}, err
	}

	outcome := models.PublishOutcome{Record: record}
	switch {
	case record.State == models.StatePublished:
		outcome.Published = true
		return outcome, nil
	case record.State != models.StateReview || record.Brief == nil:
		return outcome, ErrNotInReview
	}

	if pending := record.Brief.UnconfirmedMedicationChanges(); len(pending) > 0 {
		outcome.ConfirmationRequired = pending
		return outcome, nil
	}
	if err = p.briefs.Validate(ctx, record.Brief, validators.FieldSchema, validators.FieldMedicationConfirmed); err != nil {
		return outcome, fmt.Errorf("%w: %w", ErrSchemaInvalid, err)
	}

	// fixed and persisted before the first attempt so every retry appends the same number
	if record.TargetRevision == 0 {
		record.TargetRevision = record.BaseRevision + 1
		if err = p.save(ctx, &record); err != nil {
			return outcome, err
		}
		outcome.Record = record
	}

	var appended models.AppendRevisionResponse
	err = p.withRetry(ctx, func(ctx context.Context) error {
		var err error
		appended, err = p.remote.AppendRevision(ctx, models.AppendRevisionRequest{
			HandoffID:               record.HandoffID,
			ExpectedCurrentRevision: record.TargetRevision - 1,
			Content:                 *record.Brief,
			EditorID:                req.EditorID,
			ChangeNote:              req.ChangeNote,
		})
		return err
	})

	var conflict *adapter.RevisionConflictError
	switch {
	case err == nil:
	case errors.As(err, &conflict):
		record.BaseRevision = conflict.CurrentRevision
		record.TargetRevision = 0
		if saveErr := p.save(ctx, &record); saveErr != nil {
			return outcome, saveErr
		}
		outcome.Record = record
		return outcome, fmt.Errorf("%w: handoff is at revision %d", ErrRevisionConflict, conflict.CurrentRevision)
	case errors.Is(err, adapter.ErrNotFound):
		return outcome, ErrHandoffNotSynced
	case ctx.Err() != nil:
		return outcome, ctx.Err()
	case adapter.IsRetryable(err):
		return outcome, fmt.Errorf("%w: %w", ErrCollaboratorUnavailable, err)
	default:
		return outcome, mapAdapterError(err)
	}

	record.PublishedRevision = appended.RevisionNumber
	record.State = models.StatePublished
	if err = p.save(ctx, &record); err != nil {
		return outcome, err
	}
	outcome.Record = record
	outcome.Published = true

	logger.FromContext(ctx).Info().
		Str("func", "publishPipeline.Publish").
		Str("handoff_id", record.HandoffID).
		Int64("revision", record.PublishedRevision).
		Msg("handoff revision published")

	// the ledger moved the handoff's current revision; refresh the local copy
	if _, pullErr := p.coordinator.Pull(ctx, record.ScopeID, models.EntityHandoffs); pullErr != nil {
		logger.FromContext(ctx).Warn().
			Err(pullErr).
			Str("func", "publishPipeline.Publish").
			Str("handoff_id", record.HandoffID).
			Msg("failed to refresh handoff after publish")
	}

	return outcome, nil
}

func (p *publishPipeline) Get(ctx context.Context, handoffID string) (models.PipelineRecord, error) {
	return p.pipelines.GetPipeline(ctx, handoffID)
}

func (p *publishPipeline) List(ctx context.Context, states ...models.PipelineState) ([]models.PipelineRecord, error) {
	return p.pipelines.ListPipelines(ctx, states...)
}

func (p *publishPipeline) save(ctx context.Context, record *models.PipelineRecord) error {
	record.UpdatedAt = p.now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = record.UpdatedAt
	}
	return p.pipelines.SavePipeline(ctx, *record)
}

// acquire reserves handoffID for one call in this process and then leases
// the record in the store, so a second process sharing the database gets
// ErrPipelineBusy instead of submitting the same job again.
func (p *publishPipeline) acquire(ctx context.Context, handoffID string) error {
	p.mu.Lock()
	if _, ok := p.running[handoffID]; ok {
		p.mu.Unlock()
		return ErrPipelineBusy
	}
	p.running[handoffID] = struct{}{}
	p.mu.Unlock()

	if err := p.claim(ctx, handoffID); err != nil {
		p.forget(handoffID)
		return err
	}
	return nil
}

// claim takes or renews the record lease for one stage.
func (p *publishPipeline) claim(ctx context.Context, handoffID string) error {
	claimed, err := p.pipelines.ClaimPipeline(ctx, handoffID, p.owner, p.cfg.StageTimeout+claimMargin)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrPipelineBusy
	}
	return nil
}

func (p *publishPipeline) release(ctx context.Context, handoffID string) {
	if err := p.pipelines.ReleasePipeline(context.WithoutCancel(ctx), handoffID, p.owner); err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("func", "publishPipeline.release").
			Str("handoff_id", handoffID).
			Msg("failed to release pipeline lease, it expires on its own")
	}
	p.forget(handoffID)
}

func (p *publishPipeline) forget(handoffID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.running, handoffID)
}

// objectKey is stable per handoff and target revision so a re-upload
// overwrites the same object.
func objectKey(record models.PipelineRecord) string {
	return fmt.Sprintf("handoffs/%s/%d/audio%s", record.HandoffID, record.BaseRevision+1, filepath.Ext(record.AudioPath))
}

// stageFailed classifies a collaborator error. Unavailable services and
// timeouts may succeed later; rejected requests will not.
func stageFailed(record models.PipelineRecord, stage models.PipelineState, err error) models.PipelineRecord {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return failed(record, stage, "stage timed out", true)
	case adapter.IsRetryable(err):
		return failed(record, stage, fmt.Sprintf("%s: %v", ErrCollaboratorUnavailable, err), true)
	case errors.Is(err, adapter.ErrUnauthorized):
		return failed(record, stage, err.Error(), true)
	default:
		return failed(record, stage, err.Error(), false)
	}
}

func failed(record models.PipelineRecord, stage models.PipelineState, reason string, retryable bool) models.PipelineRecord {
	record.State = models.StateFailed
	record.FailedStage = stage
	record.FailureReason = reason
	record.Retryable = retryable
	return record
}

func sameMedication(a, b models.MedicationChange) bool {
	return sameText(a.Medication, b.Medication) && sameText(a.Change, b.Change) && sameText(a.Dosage, b.Dosage)
}
