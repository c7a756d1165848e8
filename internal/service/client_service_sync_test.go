package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/mock"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/validators"
	"github.com/MKhiriev/go-care-sync/models"
)

var clockStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// seqIDs выдаёт предсказуемые id операций: op-1, op-2, ...
type seqIDs struct {
	n int
}

func (g *seqIDs) Generate() string {
	g.n++
	return fmt.Sprintf("op-%d", g.n)
}

func testCtx() context.Context {
	return logger.Nop().WithContext(context.Background())
}

type coordinatorFixture struct {
	svc    *syncCoordinator
	local  *store.LocalStore
	remote *mock.MockRemoteStore
	clock  *fakeClock
}

func newCoordinatorFixture(t *testing.T, cfg config.ClientSync) *coordinatorFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	db, err := store.NewConnectSQLite(testCtx(), filepath.Join(t.TempDir(), "care.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	clock := &fakeClock{now: clockStart}
	local := store.NewLocalStore(db, store.RetryPolicy{}, logger.Nop(), store.WithClock(clock.Now))
	remote := mock.NewMockRemoteStore(ctrl)

	svc := NewSyncCoordinator(
		local,
		local.Pipelines(),
		remote,
		NewConflictResolver(DefaultFieldPolicies()),
		validators.NewRequestValidator(validators.NewBriefValidator()),
		&seqIDs{},
		cfg,
		logger.Nop(),
		WithCoordinatorClock(clock.Now),
	).(*syncCoordinator)

	return &coordinatorFixture{svc: svc, local: local, remote: remote, clock: clock}
}

func serverTask(id string, version int64, fields models.Fields) models.Entity {
	return models.Entity{
		ID:        id,
		ScopeID:   "circle-1",
		Type:      models.EntityTasks,
		Version:   version,
		Fields:    fields,
		CreatedAt: clockStart,
		UpdatedAt: clockStart.Add(time.Duration(version) * time.Minute),
	}
}

// seed кладёт в локальное хранилище подтверждённую сервером запись.
func (f *coordinatorFixture) seed(t *testing.T, entities ...models.Entity) {
	t.Helper()
	require.NoError(t, f.local.WithinTx(testCtx(), func(tx store.LocalTx) error {
		for _, e := range entities {
			if err := tx.SaveEntity(testCtx(), rebase(e, nil)); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (f *coordinatorFixture) entity(t *testing.T, id string) models.LocalEntity {
	t.Helper()
	e, err := f.svc.Entity(testCtx(), models.EntityTasks, id)
	require.NoError(t, err)
	return e
}

func (f *coordinatorFixture) operation(t *testing.T, id string) models.PendingOperation {
	t.Helper()
	op, err := f.local.Reader().GetOperation(testCtx(), id)
	require.NoError(t, err)
	return op
}

func updateIntent(entityID string, fields models.Fields) models.Intent {
	return models.Intent{
		ScopeID:    "circle-1",
		EntityType: models.EntityTasks,
		EntityID:   entityID,
		Kind:       models.OperationUpdate,
		Fields:     fields,
	}
}

func pushOutcomes(outcomes map[string]func(req models.PushRequest) (models.Entity, error)) func(context.Context, models.PushRequest) (models.Entity, error) {
	return func(_ context.Context, req models.PushRequest) (models.Entity, error) {
		respond, ok := outcomes[req.OperationID]
		if !ok {
			return models.Entity{}, fmt.Errorf("unexpected push of %s", req.OperationID)
		}
		return respond(req)
	}
}

// ── Enqueue ──────────────────────────────────────────────────────────────────

func TestSyncCoordinator_Enqueue_Create(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	ctx := testCtx()

	id, err := f.svc.Enqueue(ctx, models.Intent{
		ScopeID:    "circle-1",
		EntityType: models.EntityTasks,
		EntityID:   "task-1",
		Kind:       models.OperationCreate,
		Fields:     models.Fields{"title": "Call pharmacy"},
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)

	local := f.entity(t, "task-1")
	assert.Equal(t, models.Fields{"title": "Call pharmacy"}, local.Fields)
	assert.Empty(t, local.ServerFields)
	assert.Equal(t, 1, local.PendingOps)
	assert.Zero(t, local.Version)

	ops, err := f.svc.Operations(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, models.OperationCreate, ops[0].Kind)
	assert.Nil(t, ops[0].ExpectedVersion)
	assert.Equal(t, models.OperationPending, ops[0].Status)
}

func TestSyncCoordinator_Enqueue_CreateGeneratesID(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})

	id, err := f.svc.Enqueue(testCtx(), models.Intent{
		ScopeID:    "circle-1",
		EntityType: models.EntityTasks,
		Kind:       models.OperationCreate,
		Fields:     models.Fields{"title": "Buy gauze"},
	})
	require.NoError(t, err)
	assert.Equal(t, "op-1", id)
	assert.Equal(t, "op-2", f.operation(t, "op-2").ID)
}

func TestSyncCoordinator_Enqueue_UpdateKeepsOnlyChangedFields(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy", "notes": ""}))

	_, err := f.svc.Enqueue(testCtx(), updateIntent("task-1", models.Fields{"title": "Call pharmacy", "notes": "ask about refills"}))
	require.NoError(t, err)

	op := f.operation(t, "op-1")
	assert.Equal(t, models.Fields{"notes": "ask about refills"}, op.Payload)
	assert.Equal(t, models.Fields{"title": "Call pharmacy", "notes": ""}, op.Base)
	require.NotNil(t, op.ExpectedVersion)
	assert.Equal(t, int64(3), *op.ExpectedVersion)

	local := f.entity(t, "task-1")
	assert.Equal(t, "ask about refills", local.Fields["notes"])
	assert.Equal(t, "", local.ServerFields["notes"])
	assert.Equal(t, int64(3), local.Version)
}

func TestSyncCoordinator_Enqueue_Rejections(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy"}))
	ctx := testCtx()

	_, err := f.svc.Enqueue(ctx, updateIntent("task-1", models.Fields{"title": "Call pharmacy"}))
	assert.ErrorIs(t, err, ErrNoChanges)

	_, err = f.svc.Enqueue(ctx, updateIntent("task-404", models.Fields{"title": "x"}))
	assert.ErrorIs(t, err, ErrEntityUnknown)

	foreign := updateIntent("task-1", models.Fields{"title": "x"})
	foreign.ScopeID = "circle-2"
	_, err = f.svc.Enqueue(ctx, foreign)
	assert.ErrorIs(t, err, ErrScopeMismatch)

	_, err = f.svc.Enqueue(ctx, models.Intent{
		ScopeID: "circle-1", EntityType: models.EntityTasks, EntityID: "task-1",
		Kind: models.OperationCreate, Fields: models.Fields{"title": "Call pharmacy"},
	})
	assert.ErrorIs(t, err, ErrEntityExists)

	_, err = f.svc.Enqueue(ctx, models.Intent{EntityType: models.EntityTasks, Kind: models.OperationCreate})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	ops, err := f.svc.Operations(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestSyncCoordinator_Enqueue_DeleteIsOptimistic(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy"}))
	ctx := testCtx()

	_, err := f.svc.Enqueue(ctx, models.Intent{ScopeID: "circle-1", EntityType: models.EntityTasks, EntityID: "task-1", Kind: models.OperationDelete})
	require.NoError(t, err)

	local := f.entity(t, "task-1")
	assert.True(t, local.IsTombstone())
	assert.Nil(t, local.ServerDeletedAt)

	_, err = f.svc.Enqueue(ctx, updateIntent("task-1", models.Fields{"title": "x"}))
	assert.ErrorIs(t, err, ErrEntityDeleted)
}

// ── Push ─────────────────────────────────────────────────────────────────────

func TestSyncCoordinator_Push_ChainsExpectedVersion(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	ctx := testCtx()

	_, err := f.svc.Enqueue(ctx, models.Intent{
		ScopeID: "circle-1", EntityType: models.EntityTasks, EntityID: "task-1",
		Kind: models.OperationCreate, Fields: models.Fields{"title": "Call pharmacy"},
	})
	require.NoError(t, err)
	_, err = f.svc.Enqueue(ctx, updateIntent("task-1", models.Fields{"title": "Call the pharmacy"}))
	require.NoError(t, err)

	f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(pushOutcomes(map[string]func(models.PushRequest) (models.Entity, error){
		"op-1": func(req models.PushRequest) (models.Entity, error) {
			assert.Equal(t, models.OperationCreate, req.Kind)
			assert.Nil(t, req.ExpectedVersion)
			return serverTask("task-1", 1, models.Fields{"title": "Call pharmacy"}), nil
		},
		"op-2": func(req models.PushRequest) (models.Entity, error) {
			// версия, назначенная сервером для CREATE, становится ожидаемой для UPDATE
			require.NotNil(t, req.ExpectedVersion)
			assert.Equal(t, int64(1), *req.ExpectedVersion)
			return serverTask("task-1", 2, models.Fields{"title": "Call the pharmacy"}), nil
		},
	}))

	result, err := f.svc.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"op-1", "op-2"}, result.Acked)
	assert.Empty(t, result.Failed)

	local := f.entity(t, "task-1")
	assert.Equal(t, int64(2), local.Version)
	assert.Equal(t, models.Fields{"title": "Call the pharmacy"}, local.Fields)
	assert.Equal(t, local.Fields, local.ServerFields)
	assert.Zero(t, local.PendingOps)
}

// Операция A на task-1 уходит в ручное слияние; B на той же записи ждёт,
// а C на другой записи проходит.
func TestSyncCoordinator_Push_ManualMergeBlocksOnlyItsEntity(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t,
		serverTask("task-1", 3, models.Fields{"title": "Call pharmacy", "notes": ""}),
		serverTask("task-2", 1, models.Fields{"title": "Buy gauze"}),
	)
	ctx := testCtx()

	for _, intent := range []models.Intent{
		updateIntent("task-1", models.Fields{"title": "Call pharmacy today"}),
		updateIntent("task-1", models.Fields{"notes": "before noon"}),
		updateIntent("task-2", models.Fields{"title": "Buy gauze pads"}),
	} {
		_, err := f.svc.Enqueue(ctx, intent)
		require.NoError(t, err)
	}

	winner := serverTask("task-1", 4, models.Fields{"title": "Call the pharmacy", "notes": ""})
	f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(pushOutcomes(map[string]func(models.PushRequest) (models.Entity, error){
		"op-1": func(models.PushRequest) (models.Entity, error) {
			return models.Entity{}, &adapter.VersionConflictError{Current: winner}
		},
		"op-3": func(models.PushRequest) (models.Entity, error) {
			return serverTask("task-2", 2, models.Fields{"title": "Buy gauze pads"}), nil
		},
	}))

	result, err := f.svc.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"op-3"}, result.Acked)
	require.Len(t, result.ManualMerge, 1)
	assert.Equal(t, "op-1", result.ManualMerge[0].ID)

	a := f.operation(t, "op-1")
	assert.Equal(t, models.OperationNeedsManualMerge, a.Status)
	require.NotNil(t, a.Conflict)
	assert.Equal(t, []models.FieldConflict{{
		Field:       "title",
		BaseValue:   "Call pharmacy",
		ClientValue: "Call pharmacy today",
		ServerValue: "Call the pharmacy",
	}}, a.Conflict.Fields)

	b := f.operation(t, "op-2")
	assert.Equal(t, models.OperationPending, b.Status)
	assert.Zero(t, b.Attempts)

	// локальная копия: сервер v4 плюс обе ожидающие операции
	local := f.entity(t, "task-1")
	assert.Equal(t, int64(4), local.Version)
	assert.Equal(t, "Call pharmacy today", local.Fields["title"])
	assert.Equal(t, "before noon", local.Fields["notes"])
	assert.Equal(t, "Call the pharmacy", local.ServerFields["title"])
	assert.Equal(t, 2, local.PendingOps)

	// после решения пользователя A и B уходят по порядку
	require.NoError(t, f.svc.ResolveManualMerge(ctx, "op-1", models.ManualResolution{Choice: models.KeepClient}))

	gomock.InOrder(
		f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req models.PushRequest) (models.Entity, error) {
			assert.Equal(t, "op-1", req.OperationID)
			assert.Equal(t, int64(4), *req.ExpectedVersion)
			return serverTask("task-1", 5, models.Fields{"title": "Call pharmacy today", "notes": ""}), nil
		}),
		f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req models.PushRequest) (models.Entity, error) {
			assert.Equal(t, "op-2", req.OperationID)
			assert.Equal(t, int64(5), *req.ExpectedVersion)
			return serverTask("task-1", 6, models.Fields{"title": "Call pharmacy today", "notes": "before noon"}), nil
		}),
	)

	result, err = f.svc.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"op-1", "op-2"}, result.Acked)
	assert.Zero(t, f.entity(t, "task-1").PendingOps)
}

func TestSyncCoordinator_Push_AutoMergeRetriesOnce(t *testing.T) {
	seedAndEnqueue := func(t *testing.T) *coordinatorFixture {
		f := newCoordinatorFixture(t, config.ClientSync{})
		f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy", "notes": ""}))
		_, err := f.svc.Enqueue(testCtx(), updateIntent("task-1", models.Fields{"notes": "ask about refills"}))
		require.NoError(t, err)
		return f
	}
	concurrent := serverTask("task-1", 4, models.Fields{"title": "Call the pharmacy", "notes": ""})

	t.Run("merged push succeeds", func(t *testing.T) {
		f := seedAndEnqueue(t)

		gomock.InOrder(
			f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).
				Return(models.Entity{}, &adapter.VersionConflictError{Current: concurrent}),
			f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req models.PushRequest) (models.Entity, error) {
				assert.Equal(t, int64(4), *req.ExpectedVersion)
				assert.Equal(t, models.Fields{"notes": "ask about refills"}, req.Fields)
				return serverTask("task-1", 5, models.Fields{"title": "Call the pharmacy", "notes": "ask about refills"}), nil
			}),
		)

		result, err := f.svc.Push(testCtx())
		require.NoError(t, err)
		assert.Equal(t, []string{"op-1"}, result.AutoMerged)

		local := f.entity(t, "task-1")
		assert.Equal(t, models.Fields{"title": "Call the pharmacy", "notes": "ask about refills"}, local.Fields)
		assert.Equal(t, int64(5), local.Version)
	})

	t.Run("second conflict is a failed attempt", func(t *testing.T) {
		f := seedAndEnqueue(t)

		gomock.InOrder(
			f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).
				Return(models.Entity{}, &adapter.VersionConflictError{Current: concurrent}),
			f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).
				Return(models.Entity{}, &adapter.VersionConflictError{Current: serverTask("task-1", 5, models.Fields{"title": "Call pharmacy now", "notes": ""})}),
		)

		result, err := f.svc.Push(testCtx())
		require.NoError(t, err)
		require.Len(t, result.Failed, 1)
		assert.False(t, result.Failed[0].Exhausted)

		op := f.operation(t, "op-1")
		assert.Equal(t, models.OperationPending, op.Status)
		assert.Equal(t, 1, op.Attempts)
		assert.Equal(t, int64(5), *op.ExpectedVersion)
		assert.True(t, op.NextAttemptAt.After(f.clock.Now()))
	})
}

func TestSyncCoordinator_Push_ServerWinsOnAuthoritativeField(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy", "status": "open"}))
	ctx := testCtx()

	_, err := f.svc.Enqueue(ctx, updateIntent("task-1", models.Fields{"status": "done"}))
	require.NoError(t, err)

	f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).
		Return(models.Entity{}, &adapter.VersionConflictError{Current: serverTask("task-1", 4, models.Fields{"title": "Call pharmacy", "status": "cancelled"})})

	result, err := f.svc.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"op-1"}, result.ServerWins)

	ops, err := f.svc.Operations(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)
	assert.Equal(t, "cancelled", f.entity(t, "task-1").Fields["status"])
}

func TestSyncCoordinator_Push_Failures(t *testing.T) {
	setup := func(t *testing.T) *coordinatorFixture {
		f := newCoordinatorFixture(t, config.ClientSync{})
		f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy"}))
		_, err := f.svc.Enqueue(testCtx(), updateIntent("task-1", models.Fields{"title": "Call the pharmacy"}))
		require.NoError(t, err)
		return f
	}

	t.Run("retryable error schedules a retry", func(t *testing.T) {
		f := setup(t)
		f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.Entity{}, fmt.Errorf("%w: busy", adapter.ErrUnavailable))

		result, err := f.svc.Push(testCtx())
		require.NoError(t, err)
		require.Len(t, result.Failed, 1)
		assert.False(t, result.Failed[0].Exhausted)

		op := f.operation(t, "op-1")
		assert.Equal(t, 1, op.Attempts)
		assert.Equal(t, models.OperationPending, op.Status)
		assert.Equal(t, "Call the pharmacy", f.entity(t, "task-1").Fields["title"])
	})

	t.Run("rejected request is exhausted and can be retried", func(t *testing.T) {
		f := setup(t)
		f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.Entity{}, fmt.Errorf("%w: bad field", adapter.ErrBadRequest))

		result, err := f.svc.Push(testCtx())
		require.NoError(t, err)
		require.Len(t, result.Failed, 1)
		assert.True(t, result.Failed[0].Exhausted)
		assert.Equal(t, models.OperationExhausted, f.operation(t, "op-1").Status)

		require.NoError(t, f.svc.RetryOperation(testCtx(), "op-1"))
		op := f.operation(t, "op-1")
		assert.Equal(t, models.OperationPending, op.Status)
		assert.Zero(t, op.Attempts)
	})

	t.Run("unauthorized stops the drain", func(t *testing.T) {
		f := setup(t)
		f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.Entity{}, fmt.Errorf("%w: expired", adapter.ErrUnauthorized))

		_, err := f.svc.Push(testCtx())
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Zero(t, f.operation(t, "op-1").Attempts)
	})

	t.Run("cancelled push leaves the operation untouched", func(t *testing.T) {
		f := setup(t)
		ctx, cancel := context.WithCancel(testCtx())
		f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, models.PushRequest) (models.Entity, error) {
			cancel()
			return models.Entity{}, fmt.Errorf("%w: %w", adapter.ErrTransport, context.Canceled)
		})

		_, err := f.svc.Push(ctx)
		assert.ErrorIs(t, err, context.Canceled)

		op := f.operation(t, "op-1")
		assert.Zero(t, op.Attempts)
		assert.Equal(t, models.OperationPending, op.Status)
	})
}

func TestSyncCoordinator_Push_EscalatesStaleManualMerge(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{ManualMergeTTL: 72 * time.Hour})
	f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy"}))
	ctx := testCtx()

	_, err := f.svc.Enqueue(ctx, updateIntent("task-1", models.Fields{"title": "Call pharmacy today"}))
	require.NoError(t, err)

	f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).
		Return(models.Entity{}, &adapter.VersionConflictError{Current: serverTask("task-1", 4, models.Fields{"title": "Call the pharmacy"})})

	result, err := f.svc.Push(ctx)
	require.NoError(t, err)
	require.Len(t, result.ManualMerge, 1)
	assert.Empty(t, result.Escalated)

	f.clock.Advance(73 * time.Hour)

	result, err = f.svc.Push(ctx)
	require.NoError(t, err)
	require.Len(t, result.Escalated, 1)
	assert.Equal(t, "op-1", result.Escalated[0].ID)

	// эскалация ничего не удаляет
	assert.Equal(t, models.OperationNeedsManualMerge, f.operation(t, "op-1").Status)
}

// ── ResolveManualMerge ───────────────────────────────────────────────────────

func TestSyncCoordinator_ResolveManualMerge(t *testing.T) {
	setup := func(t *testing.T) *coordinatorFixture {
		f := newCoordinatorFixture(t, config.ClientSync{})
		f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy", "notes": ""}))
		_, err := f.svc.Enqueue(testCtx(), updateIntent("task-1", models.Fields{"title": "Call pharmacy today"}))
		require.NoError(t, err)

		f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).
			Return(models.Entity{}, &adapter.VersionConflictError{Current: serverTask("task-1", 4, models.Fields{"title": "Call the pharmacy", "notes": ""})})
		_, err = f.svc.Push(testCtx())
		require.NoError(t, err)
		return f
	}

	t.Run("keep server discards the operation", func(t *testing.T) {
		f := setup(t)

		require.NoError(t, f.svc.ResolveManualMerge(testCtx(), "op-1", models.ManualResolution{Choice: models.KeepServer}))

		_, err := f.local.Reader().GetOperation(testCtx(), "op-1")
		assert.ErrorIs(t, err, store.ErrOperationNotFound)

		local := f.entity(t, "task-1")
		assert.Equal(t, "Call the pharmacy", local.Fields["title"])
		assert.Zero(t, local.PendingOps)
	})

	t.Run("use fields re-queues against the server version", func(t *testing.T) {
		f := setup(t)

		require.NoError(t, f.svc.ResolveManualMerge(testCtx(), "op-1", models.ManualResolution{
			Choice: models.UseFields,
			Fields: models.Fields{"title": "Call the pharmacy today"},
		}))

		op := f.operation(t, "op-1")
		assert.Equal(t, models.OperationPending, op.Status)
		assert.Nil(t, op.Conflict)
		assert.Equal(t, int64(4), *op.ExpectedVersion)
		assert.Equal(t, models.Fields{"title": "Call the pharmacy today"}, op.Payload)
		assert.Equal(t, "Call the pharmacy", op.Base["title"])
		assert.Equal(t, "Call the pharmacy today", f.entity(t, "task-1").Fields["title"])
	})

	t.Run("invalid requests", func(t *testing.T) {
		f := setup(t)

		err := f.svc.ResolveManualMerge(testCtx(), "op-1", models.ManualResolution{Choice: "coin_flip"})
		assert.ErrorIs(t, err, ErrUnknownMergeChoice)

		err = f.svc.RetryOperation(testCtx(), "op-1")
		assert.ErrorIs(t, err, ErrNeedsManualMerge)

		require.NoError(t, f.svc.ResolveManualMerge(testCtx(), "op-1", models.ManualResolution{Choice: models.KeepClient}))
		err = f.svc.ResolveManualMerge(testCtx(), "op-1", models.ManualResolution{Choice: models.KeepClient})
		assert.ErrorIs(t, err, ErrNotInManualMerge)
	})
}

func TestSyncCoordinator_ResolveManualMerge_ServerDeleted(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy"}))
	ctx := testCtx()

	_, err := f.svc.Enqueue(ctx, updateIntent("task-1", models.Fields{"title": "Call pharmacy today"}))
	require.NoError(t, err)

	deleted := serverTask("task-1", 4, models.Fields{"title": "Call pharmacy"})
	deletedAt := clockStart.Add(time.Hour)
	deleted.DeletedAt = &deletedAt
	f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.Entity{}, &adapter.VersionConflictError{Current: deleted})

	result, err := f.svc.Push(ctx)
	require.NoError(t, err)
	require.Len(t, result.ManualMerge, 1)
	assert.True(t, result.ManualMerge[0].Conflict.ServerDeleted)

	err = f.svc.ResolveManualMerge(ctx, "op-1", models.ManualResolution{Choice: models.KeepClient})
	assert.ErrorIs(t, err, ErrServerDeleted)

	require.NoError(t, f.svc.ResolveManualMerge(ctx, "op-1", models.ManualResolution{Choice: models.KeepServer}))
	local := f.entity(t, "task-1")
	assert.True(t, local.IsTombstone())
	assert.Zero(t, local.PendingOps)
}

// ── Pull ─────────────────────────────────────────────────────────────────────

func TestSyncCoordinator_Pull_IsIdempotent(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	ctx := testCtx()

	page := []models.Entity{
		serverTask("task-2", 1, models.Fields{"title": "Buy gauze"}),
		serverTask("task-1", 2, models.Fields{"title": "Call pharmacy"}),
	}

	gomock.InOrder(
		f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req models.PullRequest) ([]models.Entity, error) {
			assert.True(t, req.Cursor.IsZero())
			return page, nil
		}),
		// сервер повторно отдаёт ту же страницу
		f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req models.PullRequest) ([]models.Entity, error) {
			assert.Equal(t, "task-1", req.Cursor.LastSeenID)
			return page, nil
		}),
	)

	first, err := f.svc.Pull(ctx, "circle-1", models.EntityTasks)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Applied)

	before, err := f.svc.Entities(ctx, "circle-1", models.EntityTasks)
	require.NoError(t, err)

	second, err := f.svc.Pull(ctx, "circle-1", models.EntityTasks)
	require.NoError(t, err)
	assert.Zero(t, second.Applied)
	assert.Equal(t, 2, second.Skipped)

	after, err := f.svc.Entities(ctx, "circle-1", models.EntityTasks)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSyncCoordinator_Pull_PagesUntilShortPage(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{PageSize: 2})
	ctx := testCtx()

	gomock.InOrder(
		f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).Return([]models.Entity{
			serverTask("task-1", 1, models.Fields{"title": "a"}),
			serverTask("task-2", 2, models.Fields{"title": "b"}),
		}, nil),
		f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req models.PullRequest) ([]models.Entity, error) {
			assert.Equal(t, 2, req.Limit)
			assert.Equal(t, "task-2", req.Cursor.LastSeenID)
			return []models.Entity{serverTask("task-3", 3, models.Fields{"title": "c"})}, nil
		}),
	)

	result, err := f.svc.Pull(ctx, "circle-1", models.EntityTasks)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Applied)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, "task-3", result.Cursors[models.EntityTasks].LastSeenID)

	// курсор переживает перезапуск и виден в статусе
	status, err := f.svc.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status.Cursors, 1)
	assert.Equal(t, "circle-1", status.Cursors[0].ScopeID)
	assert.Equal(t, models.EntityTasks, status.Cursors[0].EntityType)
	assert.Equal(t, "task-3", status.Cursors[0].LastSeenID)
}

func TestSyncCoordinator_Pull_ReplaysPendingOperations(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy", "notes": ""}))
	ctx := testCtx()

	_, err := f.svc.Enqueue(ctx, updateIntent("task-1", models.Fields{"notes": "ask about refills"}))
	require.NoError(t, err)

	f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).
		Return([]models.Entity{serverTask("task-1", 4, models.Fields{"title": "Call the pharmacy", "notes": ""})}, nil)

	_, err = f.svc.Pull(ctx, "circle-1", models.EntityTasks)
	require.NoError(t, err)

	local := f.entity(t, "task-1")
	assert.Equal(t, int64(4), local.Version)
	assert.Equal(t, models.Fields{"title": "Call the pharmacy", "notes": "ask about refills"}, local.Fields)
	assert.Equal(t, models.Fields{"title": "Call the pharmacy", "notes": ""}, local.ServerFields)
	assert.Equal(t, 1, local.PendingOps)
}

func TestSyncCoordinator_Pull_AppliesTombstones(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy"}))
	ctx := testCtx()

	tombstone := serverTask("task-1", 4, models.Fields{"title": "Call pharmacy"})
	deletedAt := clockStart.Add(time.Hour)
	tombstone.DeletedAt = &deletedAt
	f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).Return([]models.Entity{tombstone}, nil)

	result, err := f.svc.Pull(ctx, "circle-1", models.EntityTasks)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	local := f.entity(t, "task-1")
	assert.True(t, local.IsTombstone())
	require.NotNil(t, local.ServerDeletedAt)

	live, err := f.svc.Entities(ctx, "circle-1", models.EntityTasks)
	require.NoError(t, err)
	assert.Empty(t, live)
}

// Отмена между страницами: первая страница и её курсор зафиксированы,
// вторая не применена.
func TestSyncCoordinator_Pull_CancelKeepsLastCommittedPage(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{PageSize: 1})
	ctx, cancel := context.WithCancel(testCtx())
	defer cancel()

	gomock.InOrder(
		f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).
			Return([]models.Entity{serverTask("task-1", 1, models.Fields{"title": "a"})}, nil),
		f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, models.PullRequest) ([]models.Entity, error) {
			cancel()
			return nil, fmt.Errorf("%w: %w", adapter.ErrTransport, context.Canceled)
		}),
	)

	_, err := f.svc.Pull(ctx, "circle-1", models.EntityTasks)
	require.Error(t, err)

	cursor, err := f.local.Reader().GetCursor(testCtx(), "circle-1", models.EntityTasks)
	require.NoError(t, err)
	assert.Equal(t, "task-1", cursor.LastSeenID)
	assert.Equal(t, int64(1), f.entity(t, "task-1").Version)
}

func TestSyncCoordinator_Pull_Forbidden(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: nope", adapter.ErrForbidden))

	_, err := f.svc.Pull(testCtx(), "circle-9", models.EntityTasks)
	assert.ErrorIs(t, err, ErrServerForbidden)

	status, err := f.svc.Status(testCtx())
	require.NoError(t, err)
	assert.NotEmpty(t, status.LastError)
	assert.True(t, status.LastPullAt.IsZero())
}

// ── Sync / Status ────────────────────────────────────────────────────────────

func TestSyncCoordinator_Sync(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t, serverTask("task-1", 3, models.Fields{"title": "Call pharmacy"}))
	ctx := testCtx()

	_, err := f.svc.Enqueue(ctx, updateIntent("task-1", models.Fields{"title": "Call the pharmacy"}))
	require.NoError(t, err)

	pushed := serverTask("task-1", 4, models.Fields{"title": "Call the pharmacy"})
	f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).Return(pushed, nil)
	f.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req models.PullRequest) ([]models.Entity, error) {
		if req.EntityType == models.EntityTasks {
			return []models.Entity{pushed}, nil
		}
		return nil, nil
	}).Times(len(models.SyncedEntityTypes))

	report, err := f.svc.Sync(ctx, "circle-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"op-1"}, report.Push.Acked)
	// собственная запись возвращается из pull и пропускается
	assert.Equal(t, 1, report.Pull.Skipped)

	status, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Syncing)
	assert.Equal(t, clockStart, status.LastPushAt)
	assert.Equal(t, clockStart, status.LastPullAt)
	assert.Zero(t, status.QueuedOps)
	assert.Empty(t, status.LastError)
}

func TestSyncCoordinator_Status_CountsQueue(t *testing.T) {
	f := newCoordinatorFixture(t, config.ClientSync{})
	f.seed(t,
		serverTask("task-1", 3, models.Fields{"title": "Call pharmacy"}),
		serverTask("task-2", 1, models.Fields{"title": "Buy gauze"}),
	)
	ctx := testCtx()

	_, err := f.svc.Enqueue(ctx, updateIntent("task-1", models.Fields{"title": "Call pharmacy today"}))
	require.NoError(t, err)
	_, err = f.svc.Enqueue(ctx, updateIntent("task-2", models.Fields{"title": "Buy gauze pads"}))
	require.NoError(t, err)

	f.remote.EXPECT().Push(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(pushOutcomes(map[string]func(models.PushRequest) (models.Entity, error){
		"op-1": func(models.PushRequest) (models.Entity, error) {
			return models.Entity{}, &adapter.VersionConflictError{Current: serverTask("task-1", 4, models.Fields{"title": "Call the pharmacy"})}
		},
		"op-2": func(models.PushRequest) (models.Entity, error) {
			return models.Entity{}, fmt.Errorf("%w: invalid", adapter.ErrBadRequest)
		},
	}))
	_, err = f.svc.Push(ctx)
	require.NoError(t, err)

	status, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.QueuedOps)
	assert.Equal(t, 1, status.ManualMerges)
	assert.Equal(t, 1, status.ExhaustedOps)
	assert.Zero(t, status.ActivePipelines)
	assert.Empty(t, status.Cursors)
}
