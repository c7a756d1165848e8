package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-care-sync/internal/service"
	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/models"
)

func reviewRecord() models.PipelineRecord {
	return models.PipelineRecord{HandoffID: "handoff-1", ScopeID: "circle-1", State: models.StateReview}
}

// ── capture / run / retry ────────────────────────────────────────────────────

func TestPipelineCaptureCommand(t *testing.T) {
	req := models.CaptureRequest{ScopeID: "circle-1", AudioPath: "/tmp/evening.m4a"}

	t.Run("captures and runs to review", func(t *testing.T) {
		backend := newFakeBackend(t)
		gomock.InOrder(
			backend.pipeline.EXPECT().Capture(gomock.Any(), req).
				Return(models.PipelineRecord{HandoffID: "handoff-1", State: models.StateCaptured}, nil),
			backend.pipeline.EXPECT().Run(gomock.Any(), "handoff-1").Return(reviewRecord(), nil),
		)

		out, err := executeCommand(t, backend, "pipeline", "capture", "--scope", "circle-1", "--audio", "/tmp/evening.m4a")
		require.NoError(t, err)
		assert.Contains(t, out, `"state": "REVIEW"`)
	})

	t.Run("no run", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.pipeline.EXPECT().Capture(gomock.Any(), req).
			Return(models.PipelineRecord{HandoffID: "handoff-1", State: models.StateCaptured}, nil)

		_, err := executeCommand(t, backend, "pipeline", "capture", "--scope", "circle-1", "--audio", "/tmp/evening.m4a", "--no-run")
		require.NoError(t, err)
	})

	t.Run("missing audio file", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.pipeline.EXPECT().Capture(gomock.Any(), req).Return(models.PipelineRecord{}, service.ErrAudioNotFound)

		_, err := executeCommand(t, backend, "pipeline", "capture", "--scope", "circle-1", "--audio", "/tmp/evening.m4a")
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrAudioNotFound)
	})
}

// упавший пайплайн печатается и даёт ненулевой код выхода
func TestPipelineRunCommand_Failed(t *testing.T) {
	backend := newFakeBackend(t)
	backend.pipeline.EXPECT().Run(gomock.Any(), "handoff-1").Return(models.PipelineRecord{
		HandoffID:     "handoff-1",
		State:         models.StateFailed,
		FailedStage:   models.StateTranscribing,
		FailureReason: "transcription job failed: AUDIO_UNREADABLE",
	}, nil)

	out, err := executeCommand(t, backend, "pipeline", "run", "handoff-1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Contains(t, out, "AUDIO_UNREADABLE")
	assert.Contains(t, err.Error(), "TRANSCRIBING")
}

func TestPipelineRetryCommand(t *testing.T) {
	backend := newFakeBackend(t)
	backend.pipeline.EXPECT().Retry(gomock.Any(), "handoff-1").Return(models.PipelineRecord{}, service.ErrNotRetryable)

	_, err := executeCommand(t, backend, "pipeline", "retry", "handoff-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotRetryable)
}

// ── review ───────────────────────────────────────────────────────────────────

func TestPipelineConfirmCommand(t *testing.T) {
	backend := newFakeBackend(t)
	backend.pipeline.EXPECT().Confirm(gomock.Any(), "handoff-1", "f1").Return(reviewRecord(), nil)

	_, err := executeCommand(t, backend, "pipeline", "confirm", "handoff-1", "f1")
	require.NoError(t, err)
}

func TestPipelineEditCommand(t *testing.T) {
	want := models.StructuredBrief{
		Summary: "Evening handoff",
		Fields: []models.BriefField{{
			ID:         "f1",
			Kind:       models.KindMedicationChange,
			Confidence: 0.9,
			Medication: &models.MedicationChange{Medication: "Lisinopril", Change: "dose increased", Dosage: "20mg"},
		}},
	}

	files := map[string]string{
		"brief.json": `{"summary":"Evening handoff","fields":[{"id":"f1","kind":"` + string(models.KindMedicationChange) +
			`","confidence":0.9,"medication":{"medication":"Lisinopril","change":"dose increased","dosage":"20mg","confirmed":false}}]}`,
		"brief.yaml": "summary: Evening handoff\nfields:\n  - id: f1\n    kind: " + string(models.KindMedicationChange) +
			"\n    confidence: 0.9\n    medication:\n      medication: Lisinopril\n      change: dose increased\n      dosage: 20mg\n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			backend := newFakeBackend(t)
			backend.pipeline.EXPECT().EditBrief(gomock.Any(), "handoff-1", want).Return(reviewRecord(), nil)

			_, err := executeCommand(t, backend, "pipeline", "edit", "handoff-1", "--brief", path)
			require.NoError(t, err)
		})
	}

	t.Run("unreadable file", func(t *testing.T) {
		backend := newFakeBackend(t)

		_, err := executeCommand(t, backend, "pipeline", "edit", "handoff-1", "--brief", filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, ExitCode(err))
	})
}

// ── publish ──────────────────────────────────────────────────────────────────

func TestPipelinePublishCommand(t *testing.T) {
	t.Run("editor defaults to the token user", func(t *testing.T) {
		token, err := utils.GenerateJWTToken("care-sync", "user-1", []string{"circle-1"}, time.Hour, "test-key")
		require.NoError(t, err)

		backend := newFakeBackend(t)
		backend.cfg.Adapter.Token = token.SignedString
		backend.pipeline.EXPECT().Publish(gomock.Any(), models.PublishRequest{
			HandoffID:  "handoff-1",
			EditorID:   "user-1",
			ChangeNote: "evening shift",
		}).Return(models.PublishOutcome{Published: true, Record: models.PipelineRecord{State: models.StatePublished, PublishedRevision: 3}}, nil)

		out, err := executeCommand(t, backend, "pipeline", "publish", "handoff-1", "--note", "evening shift")
		require.NoError(t, err)
		assert.Contains(t, out, `"published_revision": 3`)
	})

	t.Run("explicit editor", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.pipeline.EXPECT().Publish(gomock.Any(), models.PublishRequest{HandoffID: "handoff-1", EditorID: "user-2"}).
			Return(models.PublishOutcome{Published: true}, nil)

		_, err := executeCommand(t, backend, "pipeline", "publish", "handoff-1", "--editor", "user-2")
		require.NoError(t, err)
	})

	t.Run("no editor and no usable token", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.cfg.Adapter.Token = "not-a-jwt"

		_, err := executeCommand(t, backend, "pipeline", "publish", "handoff-1")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, ExitCode(err))
	})

	// неподтверждённые изменения лекарств блокируют публикацию
	t.Run("confirmation required", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.pipeline.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(models.PublishOutcome{
			Record:               reviewRecord(),
			ConfirmationRequired: []string{"f1", "f4"},
		}, nil)

		out, err := executeCommand(t, backend, "pipeline", "publish", "handoff-1", "--editor", "user-1")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, ExitCode(err))
		assert.Contains(t, err.Error(), "f1, f4")
		assert.Contains(t, out, `"confirmation_required"`)
	})
}

// ── status ───────────────────────────────────────────────────────────────────

func TestPipelineStatusCommand(t *testing.T) {
	t.Run("one pipeline", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.pipeline.EXPECT().Get(gomock.Any(), "handoff-1").Return(reviewRecord(), nil)

		out, err := executeCommand(t, backend, "pipeline", "status", "handoff-1")
		require.NoError(t, err)
		assert.Contains(t, out, `"handoff_id": "handoff-1"`)
	})

	t.Run("list by state", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.pipeline.EXPECT().List(gomock.Any(), models.StateReview, models.StateFailed).
			Return([]models.PipelineRecord{reviewRecord()}, nil)

		_, err := executeCommand(t, backend, "pipeline", "status", "--state", "review", "--state", "failed")
		require.NoError(t, err)
	})

	t.Run("empty list", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.pipeline.EXPECT().List(gomock.Any()).Return(nil, nil)

		out, err := executeCommand(t, backend, "pipeline", "status")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, out)
	})
}
