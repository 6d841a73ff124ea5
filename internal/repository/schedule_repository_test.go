package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorplan-api/internal/models"
)

func newSavedScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSavedScheduleRepositoryCreateVersioned(t *testing.T) {
	db, mock, cleanup := newSavedScheduleRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) + 1 FROM saved_schedules WHERE name = $1")).
		WithArgs("spring-week").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_schedules")).
		WithArgs(sqlmock.AnyArg(), "spring-week", 3, string(models.SavedScheduleStatusDraft), true, 0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	payload := &models.SavedSchedule{
		Name:    "spring-week",
		Success: true,
		Result:  types.JSONText(`{"success":true}`),
	}
	err := repo.CreateVersioned(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 3, payload.Version)
	assert.NotEmpty(t, payload.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryCreateVersionedRequiresName(t *testing.T) {
	db, _, cleanup := newSavedScheduleRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	err := repo.CreateVersioned(context.Background(), &models.SavedSchedule{})
	require.Error(t, err)
}

func TestSavedScheduleRepositoryListByName(t *testing.T) {
	db, mock, cleanup := newSavedScheduleRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "version", "status", "success", "conflicts", "result", "created_at", "updated_at"}).
		AddRow("sched-1", "spring-week", 1, string(models.SavedScheduleStatusDraft), true, 0, types.JSONText(`{}`), time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, version, status, success, conflicts, result, created_at, updated_at\nFROM saved_schedules WHERE name = \\$1 ORDER BY version DESC").
		WithArgs("spring-week").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), "spring-week")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newSavedScheduleRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "version", "status", "success", "conflicts", "result", "created_at", "updated_at"}).
		AddRow("sched-1", "spring-week", 1, string(models.SavedScheduleStatusDraft), true, 0, types.JSONText(`{}`), time.Now(), time.Now()).
		AddRow("sched-2", "fall-week", 1, string(models.SavedScheduleStatusDraft), false, 2, types.JSONText(`{}`), time.Now(), time.Now())
	mock.ExpectQuery("FROM saved_schedules ORDER BY created_at DESC").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newSavedScheduleRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "version", "status", "success", "conflicts", "result", "created_at", "updated_at"}).
		AddRow("sched-1", "spring-week", 1, string(models.SavedScheduleStatusDraft), true, 0, types.JSONText(`{}`), time.Now(), time.Now())
	mock.ExpectQuery("FROM saved_schedules WHERE id = \\$1").
		WithArgs("sched-1").
		WillReturnRows(rows)

	record, err := repo.FindByID(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, "spring-week", record.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newSavedScheduleRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE saved_schedules SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(string(models.SavedScheduleStatusArchived), sqlmock.AnyArg(), "sched-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "sched-1", models.SavedScheduleStatusArchived))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newSavedScheduleRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE saved_schedules SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(string(models.SavedScheduleStatusArchived), sqlmock.AnyArg(), "sched-1").
		WillReturnResult(sqlmock.NewResult(1, 0))

	err := repo.UpdateStatus(context.Background(), "sched-1", models.SavedScheduleStatusArchived)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newSavedScheduleRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_schedules WHERE id = $1")).
		WithArgs("sched-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "sched-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newSavedScheduleRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_schedules WHERE id = $1")).
		WithArgs("sched-1").
		WillReturnResult(sqlmock.NewResult(1, 0))

	err := repo.Delete(context.Background(), "sched-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
