package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/dayplan/internal/model"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newStore(sqlx.NewDb(db, "sqlite")), mock
}

func TestMigrationFailureIsReported(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_version").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(version\\), 0\\) FROM schema_version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_tasks_creation_date").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := s.runMigrations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "applying migration v2 statement 1")
	assert.Contains(t, err.Error(), "disk I/O error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationsSkipAppliedVersions(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_version").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(version\\), 0\\) FROM schema_version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(LatestSchemaVersion()))

	require.NoError(t, s.runMigrations(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTaskWithoutIDFails(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks (title,description,status,creation_date,active) VALUES (?,?,?,?,?)")).
		WithArgs("Plan", "", 1, "2024-01-01", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := s.AddTask(context.Background(), model.Task{Title: "Plan", CreationDate: "2024-01-01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id returned")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryErrorIsWrapped(t *testing.T) {
	s, mock := newMockStore(t)

	engineErr := errors.New("no such table: tasks")
	mock.ExpectQuery("SELECT .* FROM tasks WHERE creation_date = \\?").
		WithArgs("2024-01-01").
		WillReturnError(engineErr)

	_, err := s.GetTasksByDate(context.Background(), "2024-01-01")
	require.ErrorIs(t, err, engineErr)
	assert.Contains(t, err.Error(), "querying tasks")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyRollsBackWhenAnInsertFails(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM tasks WHERE creation_date = \\?").
		WithArgs("2024-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "creation_date", "active"}).
			AddRow(1, "a", "", 1, "2024-01-01", 1).
			AddRow(2, "b", "", 1, "2024-01-01", 1))
	mock.ExpectExec("INSERT INTO tasks").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO tasks").
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	n, err := s.CopyUndoneTasksFromDateToToday(context.Background(), "2024-01-01", "2024-01-02")
	require.Error(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkOverdueQueryShape(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET status = ? WHERE creation_date < ? AND status NOT IN (?,?)")).
		WithArgs(3, "2024-01-02", 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.MarkPreviousIncompleteTasksAsOverdue(context.Background(), "2024-01-02")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
