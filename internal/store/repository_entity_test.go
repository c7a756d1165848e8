package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

var entityColumnNames = []string{
	"entity_type", "id", "scope_id", "version", "fields",
	"current_revision", "created_at", "updated_at", "deleted_at",
}

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		dialect:            dialectPostgres,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}
}

func entityRow(version int64, fields string, deletedAt *time.Time) []driver.Value {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var deleted driver.Value
	if deletedAt != nil {
		deleted = *deletedAt
	}
	return []driver.Value{"tasks", "task-1", "circle-1", version, []byte(fields), int64(0), ts, ts, deleted}
}

func updateRequest(expected int64) models.PushRequest {
	return models.PushRequest{
		OperationID:     "op-1",
		ScopeID:         "circle-1",
		EntityType:      models.EntityTasks,
		EntityID:        "task-1",
		Kind:            models.OperationUpdate,
		ExpectedVersion: &expected,
		Fields:          models.Fields{"title": "Call pharmacy"},
	}
}

func Test_buildPullQuery(t *testing.T) {
	ctx := testContext()

	t.Run("first page has no cursor clause", func(t *testing.T) {
		query, args, err := buildPullQuery(ctx, models.PullRequest{EntityType: models.EntityTasks, ScopeID: "circle-1"})
		require.NoError(t, err)

		q := strings.ToLower(query)
		assert.Contains(t, q, "from entities")
		assert.Contains(t, q, "order by updated_at asc, id asc")
		assert.Contains(t, q, "limit 100")
		assert.NotContains(t, q, " or ")
		assert.Contains(t, query, "updated_at < NOW() - $3::bigint * INTERVAL '1 microsecond'")
		assert.Equal(t, []any{"tasks", "circle-1", pullSettleWindow.Microseconds()}, args)
	})

	t.Run("later pages are strictly after the cursor", func(t *testing.T) {
		ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		query, args, err := buildPullQuery(ctx, models.PullRequest{
			EntityType: models.EntityHandoffs,
			ScopeID:    "circle-1",
			Limit:      25,
			Cursor:     models.SyncCursor{LastSeenUpdatedAt: ts, LastSeenID: "h-9"},
		})
		require.NoError(t, err)

		assert.Contains(t, query, "(updated_at > $3 OR (updated_at = $4 AND id > $5))")
		assert.Contains(t, query, "LIMIT 25")
		require.Len(t, args, 6)
		assert.Equal(t, ts, args[2])
		assert.Equal(t, ts, args[3])
		assert.Equal(t, "h-9", args[4])
	})

	t.Run("rows inside the settle window are held back", func(t *testing.T) {
		// updated_at берётся в начале транзакции, а видна строка после commit:
		// страница отдаёт только строки старше окна, иначе курсор обгонит
		// медленную транзакцию и её запись потеряется
		query, args, err := buildPullQuery(ctx, models.PullRequest{
			EntityType: models.EntityTasks,
			ScopeID:    "circle-1",
			Cursor:     models.SyncCursor{LastSeenUpdatedAt: time.Now(), LastSeenID: "t-1"},
		})
		require.NoError(t, err)

		assert.Contains(t, query, "AND updated_at < NOW() - $6::bigint * INTERVAL '1 microsecond'")
		assert.Equal(t, pullSettleWindow.Microseconds(), args[5])
		assert.Greater(t, pullSettleWindow, writeTxTimeout)
	})
}

func TestEntityRepository_PullPage(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(newDBFromSQL(db), logger.Nop())

	deleted := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM entities")).
		WithArgs("tasks", "circle-1", pullSettleWindow.Microseconds()).
		WillReturnRows(sqlmock.NewRows(entityColumnNames).
			AddRow(entityRow(2, `{"title":"a"}`, nil)...).
			AddRow(entityRow(5, `{}`, &deleted)...))

	page, err := repo.PullPage(testContext(), models.PullRequest{EntityType: models.EntityTasks, ScopeID: "circle-1"})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a", page[0].Fields["title"])
	assert.False(t, page[0].IsTombstone())
	assert.True(t, page[1].IsTombstone())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_ApplyOperation(t *testing.T) {
	t.Run("replayed operation returns current record without writing", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewEntityRepository(newDBFromSQL(db), logger.Nop())

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM applied_operations")).
			WithArgs("op-1").
			WillReturnRows(sqlmock.NewRows([]string{"entity_type", "entity_id"}).AddRow("tasks", "task-1"))
		mock.ExpectQuery(regexp.QuoteMeta("FROM entities")).
			WithArgs(models.EntityTasks, "task-1").
			WillReturnRows(sqlmock.NewRows(entityColumnNames).AddRow(entityRow(4, `{"title":"Call pharmacy"}`, nil)...))
		mock.ExpectRollback()

		entity, replayed, err := repo.ApplyOperation(testContext(), updateRequest(3))
		require.NoError(t, err)
		assert.True(t, replayed)
		assert.Equal(t, int64(4), entity.Version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("matching version is applied and recorded", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewEntityRepository(newDBFromSQL(db), logger.Nop())

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM applied_operations")).
			WithArgs("op-1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE entities SET")).
			WithArgs([]byte(`{"title":"Call pharmacy"}`), models.EntityTasks, "task-1", "circle-1", int64(3)).
			WillReturnRows(sqlmock.NewRows(entityColumnNames).AddRow(entityRow(4, `{"title":"Call pharmacy"}`, nil)...))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applied_operations")).
			WithArgs("op-1", models.EntityTasks, "task-1", int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		entity, replayed, err := repo.ApplyOperation(testContext(), updateRequest(3))
		require.NoError(t, err)
		assert.False(t, replayed)
		assert.Equal(t, int64(4), entity.Version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version returns the winning record", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewEntityRepository(newDBFromSQL(db), logger.Nop())

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM applied_operations")).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE entities SET")).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("FROM entities")).
			WithArgs(models.EntityTasks, "task-1").
			WillReturnRows(sqlmock.NewRows(entityColumnNames).AddRow(entityRow(4, `{"title":"Call the pharmacy"}`, nil)...))
		mock.ExpectRollback()

		_, _, err := repo.ApplyOperation(testContext(), updateRequest(3))
		require.ErrorIs(t, err, ErrVersionConflict)

		var conflict *VersionConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, int64(4), conflict.Current.Version)
		assert.Equal(t, "Call the pharmacy", conflict.Current.Fields["title"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update of unknown entity is not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewEntityRepository(newDBFromSQL(db), logger.Nop())

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM applied_operations")).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE entities SET")).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("FROM entities")).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, _, err := repo.ApplyOperation(testContext(), updateRequest(3))
		assert.ErrorIs(t, err, ErrEntityNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create of an existing id conflicts", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewEntityRepository(newDBFromSQL(db), logger.Nop())

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM applied_operations")).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO entities")).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("FROM entities")).
			WillReturnRows(sqlmock.NewRows(entityColumnNames).AddRow(entityRow(1, `{}`, nil)...))
		mock.ExpectRollback()

		req := updateRequest(0)
		req.Kind = models.OperationCreate
		req.ExpectedVersion = nil

		_, _, err := repo.ApplyOperation(testContext(), req)
		assert.ErrorIs(t, err, ErrVersionConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewEntityRepository(newDBFromSQL(db), logger.Nop())

		mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

		_, _, err := repo.ApplyOperation(testContext(), updateRequest(3))
		assert.ErrorIs(t, err, ErrBeginningTransaction)
	})
}

func TestEntityRepository_PruneAppliedOperations(t *testing.T) {
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns removed count", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewEntityRepository(newDBFromSQL(db), logger.Nop())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM applied_operations")).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 7))

		removed, err := repo.PruneAppliedOperations(testContext(), cutoff)
		require.NoError(t, err)
		assert.Equal(t, int64(7), removed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewEntityRepository(newDBFromSQL(db), logger.Nop())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM applied_operations")).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.PruneAppliedOperations(testContext(), cutoff)
		require.ErrorIs(t, err, ErrExecutingStatement)
	})
}
