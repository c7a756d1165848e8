// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PipelineState is a stage of the handoff publish pipeline.
type PipelineState string

const (
	StateCaptured     PipelineState = "CAPTURED"
	StateUploading    PipelineState = "UPLOADING"
	StateTranscribing PipelineState = "TRANSCRIBING"
	StateStructuring  PipelineState = "STRUCTURING"
	StateReview       PipelineState = "REVIEW"
	StatePublished    PipelineState = "PUBLISHED"
	StateFailed       PipelineState = "FAILED"
)

// Automatic reports whether the pipeline advances out of s without user action.
func (s PipelineState) Automatic() bool {
	switch s {
	case StateCaptured, StateUploading, StateTranscribing, StateStructuring:
		return true
	default:
		return false
	}
}

// Terminal reports whether s is PUBLISHED or FAILED.
func (s PipelineState) Terminal() bool {
	return s == StatePublished || s == StateFailed
}

// PipelineRecord is the durable state of one handoff's publish pipeline.
// Every stage outcome is written before the next stage starts.
type PipelineRecord struct {
	HandoffID string        `json:"handoff_id"`
	ScopeID   string        `json:"scope_id"`
	State     PipelineState `json:"state"`

	// FailedStage, FailureReason and Retryable describe a FAILED pipeline.
	FailedStage   PipelineState `json:"failed_stage,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	Retryable     bool          `json:"retryable,omitempty"`

	AudioPath          string           `json:"audio_path"`
	ObjectKey          string           `json:"object_key,omitempty"`
	TranscriptionJobID string           `json:"transcription_job_id,omitempty"`
	Transcript         string           `json:"transcript,omitempty"`
	StructuringJobID   string           `json:"structuring_job_id,omitempty"`
	Brief              *StructuredBrief `json:"brief,omitempty"`

	// BaseRevision is the handoff revision the capture started from.
	BaseRevision int64 `json:"base_revision"`

	// TargetRevision is fixed before the first append attempt so a retried
	// publish asks the ledger for the same number.
	TargetRevision    int64 `json:"target_revision,omitempty"`
	PublishedRevision int64 `json:"published_revision,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobState is reported by the asynchronous transcription and structuring services.
type JobState string

const (
	JobPending   JobState = "PENDING"
	JobRunning   JobState = "RUNNING"
	JobSucceeded JobState = "SUCCEEDED"
	JobFailed    JobState = "FAILED"
)

// Done reports whether the job reached a final state.
func (s JobState) Done() bool {
	return s == JobSucceeded || s == JobFailed
}

// JobRequest submits work to an asynchronous collaborator.
type JobRequest struct {
	HandoffID  string `json:"handoff_id"`
	ObjectKey  string `json:"object_key,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// JobResult is returned by a job poll. Transcript is set by the transcription
// service, Brief by the structuring service.
type JobResult struct {
	JobID      string           `json:"job_id"`
	State      JobState         `json:"status"`
	Transcript string           `json:"transcript,omitempty"`
	Brief      *StructuredBrief `json:"brief,omitempty"`
	ErrorCode  string           `json:"error_code,omitempty"`
}

// CaptureRequest starts a pipeline from a recorded audio file. An empty
// HandoffID creates a new draft handoff; otherwise the capture becomes the
// next revision of that handoff.
type CaptureRequest struct {
	ScopeID   string `json:"scope_id"`
	HandoffID string `json:"handoff_id,omitempty"`
	AudioPath string `json:"audio_path"`
}

// PublishRequest publishes a reviewed brief as the editor.
type PublishRequest struct {
	HandoffID  string `json:"handoff_id"`
	EditorID   string `json:"editor_id"`
	ChangeNote string `json:"change_note,omitempty"`
}

// PublishOutcome reports a publish attempt. A non-empty ConfirmationRequired
// lists unconfirmed medication changes; the pipeline stays in REVIEW.
type PublishOutcome struct {
	Record               PipelineRecord `json:"record"`
	Published            bool           `json:"published"`
	ConfirmationRequired []string       `json:"confirmation_required,omitempty"`
}
