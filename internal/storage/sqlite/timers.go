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

// ListTimers returns the user's timers with elapsed time computed as of
// now.
func (s *Store) ListTimers(ctx context.Context, userID string) ([]models.Timer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, state, accumulated_seconds, started_at, created_at, updated_at FROM timers WHERE user_id = ? ORDER BY created_at, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}
	defer rows.Close()

	now := time.Now().UTC()
	timers := []models.Timer{}
	for rows.Next() {
		t, err := scanTimer(rows, now)
		if err != nil {
			return nil, err
		}
		timers = append(timers, t)
	}
	return timers, rows.Err()
}

// CreateTimer inserts an idle timer.
func (s *Store) CreateTimer(ctx context.Context, userID, name string) (models.Timer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Timer{}, apperr.Validation("name is required")
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO timers(id, user_id, name, state, accumulated_seconds, created_at, updated_at) VALUES(?, ?, ?, ?, 0, ?, ?)`,
		id, userID, name, models.TimerIdle, now, now)
	if err != nil {
		return models.Timer{}, fmt.Errorf("insert timer: %w", err)
	}
	return s.GetTimer(ctx, userID, id)
}

// GetTimer fetches one of the user's timers by id.
func (s *Store) GetTimer(ctx context.Context, userID, id string) (models.Timer, error) {
	return getTimer(ctx, s.db, userID, id, time.Now().UTC())
}

// StartTimer moves an idle or paused timer to running. Starting a timer
// that is already running is a conflict.
func (s *Store) StartTimer(ctx context.Context, userID, id string) (models.Timer, error) {
	return s.transitionTimer(ctx, userID, id, func(t models.Timer, now time.Time) (models.TimerState, int64, *time.Time, error) {
		if t.State == models.TimerRunning {
			return "", 0, nil, apperr.Conflict("timer is already running")
		}
		return models.TimerRunning, t.ElapsedSeconds, &now, nil
	})
}

// PauseTimer moves a running timer to paused, folding the running
// stretch into the accumulated total. Pausing a non-running timer is a
// conflict.
func (s *Store) PauseTimer(ctx context.Context, userID, id string) (models.Timer, error) {
	return s.transitionTimer(ctx, userID, id, func(t models.Timer, now time.Time) (models.TimerState, int64, *time.Time, error) {
		if t.State != models.TimerRunning {
			return "", 0, nil, apperr.Conflict("timer is not running")
		}
		return models.TimerPaused, t.ElapsedSeconds, nil, nil
	})
}

// transitionTimer loads the timer, applies the transition and writes the
// result inside one transaction so concurrent transitions serialize.
func (s *Store) transitionTimer(ctx context.Context, userID, id string, fn func(models.Timer, time.Time) (models.TimerState, int64, *time.Time, error)) (models.Timer, error) {
	var result models.Timer
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		t, err := getTimer(ctx, tx, userID, id, now)
		if err != nil {
			return err
		}
		state, accumulated, startedAt, err := fn(t, now)
		if err != nil {
			return err
		}

		var started any
		if startedAt != nil {
			started = *startedAt
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE timers SET state = ?, accumulated_seconds = ?, started_at = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
			state, accumulated, started, now, id, userID)
		if err != nil {
			return fmt.Errorf("update timer: %w", err)
		}
		result, err = getTimer(ctx, tx, userID, id, now)
		return err
	})
	if err != nil {
		return models.Timer{}, err
	}
	return result, nil
}

func getTimer(ctx context.Context, q querier, userID, id string, now time.Time) (models.Timer, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, user_id, name, state, accumulated_seconds, started_at, created_at, updated_at FROM timers WHERE id = ? AND user_id = ?`,
		id, userID)
	t, err := scanTimer(row, now)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Timer{}, apperr.NotFound("timer not found")
	}
	if err != nil {
		return models.Timer{}, err
	}
	return t, nil
}

func scanTimer(row rowScanner, now time.Time) (models.Timer, error) {
	var t models.Timer
	var accumulated int64
	var startedAt sql.NullTime
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.State, &accumulated, &startedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Timer{}, err
		}
		return models.Timer{}, fmt.Errorf("scan timer: %w", err)
	}
	t.ElapsedSeconds = accumulated
	if startedAt.Valid {
		started := startedAt.Time
		t.StartedAt = &started
		if t.State == models.TimerRunning && now.After(started) {
			t.ElapsedSeconds += int64(now.Sub(started).Seconds())
		}
	}
	return t, nil
}
