package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-sync/models"
)

func version(v int64) *int64 { return &v }

func validPush() models.PushRequest {
	return models.PushRequest{
		OperationID:     "op-1",
		ScopeID:         "circle-1",
		EntityType:      models.EntityTasks,
		EntityID:        "task-1",
		Kind:            models.OperationUpdate,
		ExpectedVersion: version(3),
		Fields:          models.Fields{"title": "Pick up refill"},
	}
}

func TestRequestValidator_Push(t *testing.T) {
	v := NewRequestValidator(NewBriefValidator())
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(r *models.PushRequest)
		wantErr error
	}{
		{name: "valid update", mutate: func(r *models.PushRequest) {}},
		{
			name: "valid create",
			mutate: func(r *models.PushRequest) {
				r.Kind = models.OperationCreate
				r.ExpectedVersion = nil
			},
		},
		{
			name: "valid delete without fields",
			mutate: func(r *models.PushRequest) {
				r.Kind = models.OperationDelete
				r.Fields = nil
			},
		},
		{name: "missing operation id", mutate: func(r *models.PushRequest) { r.OperationID = "" }, wantErr: ErrInvalidOperationID},
		{name: "missing scope", mutate: func(r *models.PushRequest) { r.ScopeID = "" }, wantErr: ErrInvalidScopeID},
		{name: "unknown collection", mutate: func(r *models.PushRequest) { r.EntityType = "diaries" }, wantErr: ErrInvalidEntityType},
		{name: "missing entity id", mutate: func(r *models.PushRequest) { r.EntityID = "" }, wantErr: ErrInvalidEntityID},
		{name: "unknown kind", mutate: func(r *models.PushRequest) { r.Kind = "UPSERT" }, wantErr: ErrInvalidOperationKind},
		{name: "update without version", mutate: func(r *models.PushRequest) { r.ExpectedVersion = nil }, wantErr: ErrInvalidExpectedVersion},
		{
			name: "create with version",
			mutate: func(r *models.PushRequest) {
				r.Kind = models.OperationCreate
				r.ExpectedVersion = version(2)
			},
			wantErr: ErrInvalidExpectedVersion,
		},
		{name: "update without fields", mutate: func(r *models.PushRequest) { r.Fields = nil }, wantErr: ErrNoFieldsToUpdate},
		{name: "bad field name", mutate: func(r *models.PushRequest) { r.Fields = models.Fields{"Title ": "x"} }, wantErr: ErrInvalidFieldName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validPush()
			tt.mutate(&req)

			err := v.Validate(ctx, req)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequestValidator_Pull(t *testing.T) {
	v := NewRequestValidator(NewBriefValidator())
	ctx := context.Background()

	require.NoError(t, v.Validate(ctx, &models.PullRequest{ScopeID: "c", EntityType: models.EntityHandoffs}))
	assert.ErrorIs(t, v.Validate(ctx, models.PullRequest{ScopeID: "c", EntityType: "x"}), ErrInvalidEntityType)
	assert.ErrorIs(t, v.Validate(ctx, models.PullRequest{EntityType: models.EntityTasks}), ErrInvalidScopeID)
	assert.ErrorIs(t, v.Validate(ctx, models.PullRequest{ScopeID: "c", EntityType: models.EntityTasks, Limit: MaxPullLimit + 1}), ErrInvalidLimit)
}

func TestRequestValidator_AppendRevision(t *testing.T) {
	v := NewRequestValidator(NewBriefValidator())
	ctx := context.Background()

	req := models.AppendRevisionRequest{
		HandoffID:               "handoff-1",
		ExpectedCurrentRevision: 2,
		Content:                 validBrief(),
		EditorID:                "user-1",
	}
	require.NoError(t, v.Validate(ctx, req))

	unconfirmed := req
	unconfirmed.Content = validBrief()
	unconfirmed.Content.Fields[0].Medication.Confirmed = false
	assert.ErrorIs(t, v.Validate(ctx, unconfirmed), ErrUnconfirmedMedicationChange)

	noEditor := req
	noEditor.EditorID = ""
	assert.ErrorIs(t, v.Validate(ctx, &noEditor), ErrInvalidEditorID)

	negative := req
	negative.ExpectedCurrentRevision = -1
	assert.ErrorIs(t, v.Validate(ctx, negative), ErrInvalidRevision)
}

func TestRequestValidator_Intent(t *testing.T) {
	v := NewRequestValidator(NewBriefValidator())
	ctx := context.Background()

	create := models.Intent{ScopeID: "c", EntityType: models.EntityTasks, Kind: models.OperationCreate, Fields: models.Fields{"title": "x"}}
	require.NoError(t, v.Validate(ctx, create), "CREATE may omit the entity id")

	update := create
	update.Kind = models.OperationUpdate
	assert.ErrorIs(t, v.Validate(ctx, update), ErrInvalidEntityID)

	assert.ErrorIs(t, v.Validate(ctx, 42), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, create, "nope"), ErrUnknownField)
}
