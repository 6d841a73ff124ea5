package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/tutorhive/tutorplan-api/internal/models"
)

// SavedScheduleRepository persists versioned weekly schedules.
type SavedScheduleRepository struct {
	db *sqlx.DB
}

// NewSavedScheduleRepository constructs repository.
func NewSavedScheduleRepository(db *sqlx.DB) *SavedScheduleRepository {
	return &SavedScheduleRepository{db: db}
}

// CreateVersioned inserts a schedule assigning the next version for its name.
func (r *SavedScheduleRepository) CreateVersioned(ctx context.Context, schedule *models.SavedSchedule) error {
	if schedule == nil {
		return fmt.Errorf("schedule payload is nil")
	}
	if schedule.Name == "" {
		return fmt.Errorf("name is required")
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.Status == "" {
		schedule.Status = models.SavedScheduleStatusDraft
	}
	if len(schedule.Result) == 0 {
		schedule.Result = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM saved_schedules WHERE name = $1`
	if err := r.db.GetContext(ctx, &schedule.Version, nextVersionQuery, schedule.Name); err != nil {
		return fmt.Errorf("compute next saved schedule version: %w", err)
	}

	const insertQuery = `
INSERT INTO saved_schedules (id, name, version, status, success, conflicts, result, created_at, updated_at)
VALUES (:id, :name, :version, :status, :success, :conflicts, :result, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, insertQuery, schedule); err != nil {
		return fmt.Errorf("insert saved schedule: %w", err)
	}
	return nil
}

// List returns stored schedules, optionally filtered by name, newest first.
func (r *SavedScheduleRepository) List(ctx context.Context, name string) ([]models.SavedSchedule, error) {
	var schedules []models.SavedSchedule
	if name != "" {
		const query = `SELECT id, name, version, status, success, conflicts, result, created_at, updated_at
FROM saved_schedules WHERE name = $1 ORDER BY version DESC`
		if err := r.db.SelectContext(ctx, &schedules, query, name); err != nil {
			return nil, fmt.Errorf("list saved schedules: %w", err)
		}
		return schedules, nil
	}
	const query = `SELECT id, name, version, status, success, conflicts, result, created_at, updated_at
FROM saved_schedules ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("list saved schedules: %w", err)
	}
	return schedules, nil
}

// FindByID loads a schedule by its identifier.
func (r *SavedScheduleRepository) FindByID(ctx context.Context, id string) (*models.SavedSchedule, error) {
	const query = `SELECT id, name, version, status, success, conflicts, result, created_at, updated_at
FROM saved_schedules WHERE id = $1`
	var schedule models.SavedSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// UpdateStatus moves a stored schedule to a new lifecycle status.
func (r *SavedScheduleRepository) UpdateStatus(ctx context.Context, id string, status models.SavedScheduleStatus) error {
	const query = `UPDATE saved_schedules SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update saved schedule status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("saved schedule rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a stored schedule version.
func (r *SavedScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM saved_schedules WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete saved schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("saved schedule rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
