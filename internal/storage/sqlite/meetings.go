package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"planner/internal/apperr"
	"planner/internal/models"
)

// CreateMeetingParams carries the fields accepted on meeting creation.
type CreateMeetingParams struct {
	Title        string
	Location     string
	Participants []string
	StartsAt     time.Time
	EndsAt       time.Time
}

// ListMeetings returns the user's meetings ordered by start time.
func (s *Store) ListMeetings(ctx context.Context, userID string) ([]models.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, location, participants, starts_at, ends_at, created_at FROM meetings WHERE user_id = ? ORDER BY starts_at, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	meetings := []models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// CreateMeeting inserts a meeting.
func (s *Store) CreateMeeting(ctx context.Context, userID string, p CreateMeetingParams) (models.Meeting, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return models.Meeting{}, apperr.Validation("title is required")
	}
	if p.StartsAt.IsZero() || p.EndsAt.IsZero() {
		return models.Meeting{}, apperr.Validation("starts_at and ends_at are required")
	}
	if p.EndsAt.Before(p.StartsAt) {
		return models.Meeting{}, apperr.Validation("ends_at precedes starts_at")
	}

	if p.Participants == nil {
		p.Participants = []string{}
	}
	participants, err := json.Marshal(p.Participants)
	if err != nil {
		return models.Meeting{}, fmt.Errorf("encode participants: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO meetings(id, user_id, title, location, participants, starts_at, ends_at, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, p.Title, p.Location, string(participants), p.StartsAt.UTC(), p.EndsAt.UTC(), time.Now().UTC())
	if err != nil {
		return models.Meeting{}, fmt.Errorf("insert meeting: %w", err)
	}
	return s.getMeeting(ctx, userID, id)
}

// DeleteMeeting removes a meeting by id.
func (s *Store) DeleteMeeting(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("meeting not found")
	}
	return nil
}

func (s *Store) getMeeting(ctx context.Context, userID, id string) (models.Meeting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, location, participants, starts_at, ends_at, created_at FROM meetings WHERE id = ? AND user_id = ?`,
		id, userID)
	m, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meeting{}, apperr.NotFound("meeting not found")
	}
	if err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

func scanMeeting(row rowScanner) (models.Meeting, error) {
	var m models.Meeting
	var participants string
	if err := row.Scan(&m.ID, &m.UserID, &m.Title, &m.Location, &participants, &m.StartsAt, &m.EndsAt, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Meeting{}, err
		}
		return models.Meeting{}, fmt.Errorf("scan meeting: %w", err)
	}
	if err := json.Unmarshal([]byte(participants), &m.Participants); err != nil {
		return models.Meeting{}, fmt.Errorf("decode participants: %w", err)
	}
	return m, nil
}
