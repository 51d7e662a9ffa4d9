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

// CreateTagParams carries the fields accepted on tag creation.
type CreateTagParams struct {
	GroupID     string
	Name        string
	Color       string
	Description string
}

// CreateTagGroupParams carries the fields accepted on tag group creation.
type CreateTagGroupParams struct {
	Name        string
	Color       string
	Description string
}

// ListTags returns the user's tags, optionally limited to one group.
func (s *Store) ListTags(ctx context.Context, userID, groupID string) ([]models.Tag, error) {
	query := `SELECT id, user_id, group_id, name, color, description, created_at FROM tags WHERE user_id = ?`
	args := []any{userID}
	if groupID != "" {
		query += ` AND group_id = ?`
		args = append(args, groupID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.GroupID, &t.Name, &t.Color, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CreateTag inserts a tag into one of the user's tag groups.
func (s *Store) CreateTag(ctx context.Context, userID string, p CreateTagParams) (models.Tag, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return models.Tag{}, apperr.Validation("name is required")
	}
	if !models.ValidColor(p.Color) {
		return models.Tag{}, apperr.Validation("color %q is not of the form #RRGGBB", p.Color)
	}
	if p.GroupID == "" {
		return models.Tag{}, apperr.Validation("group_id is required")
	}

	var created models.Tag
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tagGroupOwned(ctx, tx, userID, p.GroupID); err != nil {
			return err
		}
		id, err := insertTag(ctx, tx, userID, p)
		if err != nil {
			return err
		}
		created, err = getTag(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return models.Tag{}, err
	}
	return created, nil
}

// DeleteTag removes a tag along with its todo associations.
func (s *Store) DeleteTag(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("tag not found")
	}
	return nil
}

// ListTagGroups returns the user's tag groups.
func (s *Store) ListTagGroups(ctx context.Context, userID string) ([]models.TagGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, description, created_at FROM tag_groups WHERE user_id = ? ORDER BY created_at, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list tag groups: %w", err)
	}
	defer rows.Close()

	groups := []models.TagGroup{}
	for rows.Next() {
		var g models.TagGroup
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Color, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CreateTagGroup inserts a tag group for the user.
func (s *Store) CreateTagGroup(ctx context.Context, userID string, p CreateTagGroupParams) (models.TagGroup, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return models.TagGroup{}, apperr.Validation("name is required")
	}
	if p.Color != "" && !models.ValidColor(p.Color) {
		return models.TagGroup{}, apperr.Validation("color %q is not of the form #RRGGBB", p.Color)
	}

	id, err := insertTagGroup(ctx, s.db, userID, p)
	if err != nil {
		return models.TagGroup{}, err
	}
	return s.getTagGroup(ctx, userID, id)
}

func insertTag(ctx context.Context, q querier, userID string, p CreateTagParams) (string, error) {
	id := uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO tags(id, user_id, group_id, name, color, description, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		id, userID, p.GroupID, p.Name, p.Color, p.Description, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert tag: %w", err)
	}
	return id, nil
}

func insertTagGroup(ctx context.Context, q querier, userID string, p CreateTagGroupParams) (string, error) {
	id := uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO tag_groups(id, user_id, name, color, description, created_at) VALUES(?, ?, ?, ?, ?, ?)`,
		id, userID, p.Name, p.Color, p.Description, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert tag group: %w", err)
	}
	return id, nil
}

func getTag(ctx context.Context, q querier, userID, id string) (models.Tag, error) {
	var t models.Tag
	err := q.QueryRowContext(ctx,
		`SELECT id, user_id, group_id, name, color, description, created_at FROM tags WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&t.ID, &t.UserID, &t.GroupID, &t.Name, &t.Color, &t.Description, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tag{}, apperr.NotFound("tag not found")
	}
	if err != nil {
		return models.Tag{}, fmt.Errorf("get tag: %w", err)
	}
	return t, nil
}

func (s *Store) getTagGroup(ctx context.Context, userID, id string) (models.TagGroup, error) {
	var g models.TagGroup
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, description, created_at FROM tag_groups WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&g.ID, &g.UserID, &g.Name, &g.Color, &g.Description, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TagGroup{}, apperr.NotFound("tag group not found")
	}
	if err != nil {
		return models.TagGroup{}, fmt.Errorf("get tag group: %w", err)
	}
	return g, nil
}

func tagGroupOwned(ctx context.Context, q querier, userID, id string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM tag_groups WHERE id = ? AND user_id = ?`, id, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("tag group not found")
	}
	if err != nil {
		return fmt.Errorf("check tag group: %w", err)
	}
	return nil
}
