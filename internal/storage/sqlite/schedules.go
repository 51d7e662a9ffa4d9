package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"planner/internal/apperr"
	"planner/internal/models"
)

// CreateScheduleParams carries the fields accepted on schedule creation.
type CreateScheduleParams struct {
	Title    string
	TodoID   *string
	StartsAt time.Time
	EndsAt   time.Time
}

// ListSchedules returns the user's schedules ordered by start time.
func (s *Store) ListSchedules(ctx context.Context, userID string) ([]models.Schedule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, todo_id, title, starts_at, ends_at, created_at FROM schedules WHERE user_id = ? ORDER BY starts_at, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.Schedule{}
	for rows.Next() {
		var sch models.Schedule
		var todoID sql.NullString
		if err := rows.Scan(&sch.ID, &sch.UserID, &todoID, &sch.Title, &sch.StartsAt, &sch.EndsAt, &sch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		if todoID.Valid {
			sch.TodoID = &todoID.String
		}
		schedules = append(schedules, sch)
	}
	return schedules, rows.Err()
}

// CreateSchedule inserts a schedule, optionally linked to one of the
// user's todos.
func (s *Store) CreateSchedule(ctx context.Context, userID string, p CreateScheduleParams) (models.Schedule, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return models.Schedule{}, apperr.Validation("title is required")
	}
	if p.StartsAt.IsZero() || p.EndsAt.IsZero() {
		return models.Schedule{}, apperr.Validation("starts_at and ends_at are required")
	}
	if p.EndsAt.Before(p.StartsAt) {
		return models.Schedule{}, apperr.Validation("ends_at precedes starts_at")
	}

	var created models.Schedule
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if p.TodoID != nil {
			if err := todoOwned(ctx, tx, userID, *p.TodoID); err != nil {
				return err
			}
		}
		id := uuid.NewString()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schedules(id, user_id, todo_id, title, starts_at, ends_at, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			id, userID, nullable(p.TodoID), p.Title, p.StartsAt.UTC(), p.EndsAt.UTC(), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("insert schedule: %w", err)
		}
		created, err = getSchedule(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return models.Schedule{}, err
	}
	return created, nil
}

// DeleteSchedule removes a schedule by id.
func (s *Store) DeleteSchedule(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("schedule not found")
	}
	return nil
}

func getSchedule(ctx context.Context, q querier, userID, id string) (models.Schedule, error) {
	var sch models.Schedule
	var todoID sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, user_id, todo_id, title, starts_at, ends_at, created_at FROM schedules WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&sch.ID, &sch.UserID, &todoID, &sch.Title, &sch.StartsAt, &sch.EndsAt, &sch.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Schedule{}, apperr.NotFound("schedule not found")
	}
	if err != nil {
		return models.Schedule{}, fmt.Errorf("get schedule: %w", err)
	}
	if todoID.Valid {
		sch.TodoID = &todoID.String
	}
	return sch, nil
}
