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

// maxTreeDepth bounds ancestor walks so a corrupted parent chain cannot
// spin a request forever.
const maxTreeDepth = 1000

// TodoFilter narrows ListTodos results.
type TodoFilter struct {
	Status string
	TagID  string
}

// CreateTodoParams carries the fields accepted on todo creation.
type CreateTodoParams struct {
	Title       string
	Description string
	ParentID    *string
	Status      models.TodoStatus
	TagIDs      []string
}

// ListTodos returns the user's todos ordered by creation time, each
// carrying its associated tag ids.
func (s *Store) ListTodos(ctx context.Context, userID string, filter TodoFilter) ([]models.Todo, error) {
	query := `SELECT t.id, t.user_id, t.title, t.description, t.parent_id, t.status, t.created_at, t.updated_at
        FROM todos t`
	args := []any{}

	if filter.TagID != "" {
		query += ` JOIN todo_tags tt ON tt.todo_id = t.id AND tt.tag_id = ?`
		args = append(args, filter.TagID)
	}
	query += ` WHERE t.user_id = ?`
	args = append(args, userID)

	if filter.Status != "" {
		if _, ok := models.ValidTodoStatuses[models.TodoStatus(filter.Status)]; !ok {
			return nil, apperr.Validation("unknown status %q", filter.Status)
		}
		query += ` AND t.status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY t.created_at, t.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tagsByTodo, err := s.tagIDsByTodo(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	for i := range todos {
		todos[i].TagIDs = tagsByTodo[todos[i].ID]
		if todos[i].TagIDs == nil {
			todos[i].TagIDs = []string{}
		}
	}
	return todos, nil
}

// GetTodo fetches one of the user's todos by id.
func (s *Store) GetTodo(ctx context.Context, userID, id string) (models.Todo, error) {
	return getTodo(ctx, s.db, userID, id)
}

// CreateTodo inserts a todo. The parent, when given, must be an existing
// todo of the same user; tag ids must reference the user's own tags.
func (s *Store) CreateTodo(ctx context.Context, userID string, p CreateTodoParams) (models.Todo, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return models.Todo{}, apperr.Validation("title is required")
	}
	if p.Status == "" {
		p.Status = models.TodoStatusUnscheduled
	}
	if _, ok := models.ValidTodoStatuses[p.Status]; !ok {
		return models.Todo{}, apperr.Validation("unknown status %q", p.Status)
	}

	var created models.Todo
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if p.ParentID != nil {
			if err := todoOwned(ctx, tx, userID, *p.ParentID); err != nil {
				return err
			}
		}
		id, err := insertTodo(ctx, tx, userID, p)
		if err != nil {
			return err
		}
		if err := replaceTodoTags(ctx, tx, userID, id, p.TagIDs); err != nil {
			return err
		}
		created, err = getTodo(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return models.Todo{}, err
	}
	return created, nil
}

// UpdateTodo applies a partial update. Recognized keys: title,
// description, status, parent_id (nil detaches to root), tag_ids.
// Re-parenting re-walks the ancestor chain inside the transaction so a
// concurrent move cannot slip a cycle past the check.
func (s *Store) UpdateTodo(ctx context.Context, userID, id string, changes map[string]any) (models.Todo, error) {
	var updated models.Todo
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getTodo(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		title := current.Title
		description := current.Description
		status := current.Status
		parentID := current.ParentID

		if v, ok := changes["title"]; ok {
			str, ok := v.(string)
			if !ok || strings.TrimSpace(str) == "" {
				return apperr.Validation("title must be a non-empty string")
			}
			title = strings.TrimSpace(str)
		}
		if v, ok := changes["description"]; ok {
			str, ok := v.(string)
			if !ok {
				return apperr.Validation("description must be a string")
			}
			description = str
		}
		if v, ok := changes["status"]; ok {
			str, ok := v.(string)
			if !ok {
				return apperr.Validation("status must be a string")
			}
			if _, valid := models.ValidTodoStatuses[models.TodoStatus(str)]; !valid {
				return apperr.Validation("unknown status %q", str)
			}
			status = models.TodoStatus(str)
		}
		if v, ok := changes["parent_id"]; ok {
			switch newParent := v.(type) {
			case nil:
				parentID = nil
			case string:
				if newParent == id {
					return apperr.Conflict("todo cannot be its own parent")
				}
				if err := todoOwned(ctx, tx, userID, newParent); err != nil {
					return err
				}
				descendant, err := isDescendant(ctx, tx, userID, id, newParent)
				if err != nil {
					return err
				}
				if descendant {
					return apperr.Conflict("new parent is a descendant of this todo")
				}
				parentID = &newParent
			default:
				return apperr.Validation("parent_id must be a string or null")
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE todos SET title = ?, description = ?, status = ?, parent_id = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
			title, description, status, nullable(parentID), time.Now().UTC(), id, userID)
		if err != nil {
			return fmt.Errorf("update todo: %w", err)
		}

		if v, ok := changes["tag_ids"]; ok {
			tagIDs, err := toStringSlice(v)
			if err != nil {
				return apperr.Validation("tag_ids must be a list of strings")
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM todo_tags WHERE todo_id = ?`, id); err != nil {
				return fmt.Errorf("clear todo tags: %w", err)
			}
			if err := replaceTodoTags(ctx, tx, userID, id, tagIDs); err != nil {
				return err
			}
		}

		updated, err = getTodo(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return models.Todo{}, err
	}
	return updated, nil
}

// DeleteTodo removes a todo. Children are detached to root by the
// parent_id foreign key inside the same implicit transaction.
func (s *Store) DeleteTodo(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("todo not found")
	}
	return nil
}

func insertTodo(ctx context.Context, q querier, userID string, p CreateTodoParams) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := q.ExecContext(ctx,
		`INSERT INTO todos(id, user_id, title, description, parent_id, status, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, p.Title, p.Description, nullable(p.ParentID), p.Status, now, now)
	if err != nil {
		return "", fmt.Errorf("insert todo: %w", err)
	}
	return id, nil
}

func getTodo(ctx context.Context, q querier, userID, id string) (models.Todo, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, parent_id, status, created_at, updated_at FROM todos WHERE id = ? AND user_id = ?`,
		id, userID)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, apperr.NotFound("todo not found")
	}
	if err != nil {
		return models.Todo{}, err
	}

	rows, err := q.QueryContext(ctx, `SELECT tag_id FROM todo_tags WHERE todo_id = ? ORDER BY rowid`, id)
	if err != nil {
		return models.Todo{}, fmt.Errorf("todo tags: %w", err)
	}
	defer rows.Close()
	t.TagIDs = []string{}
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return models.Todo{}, err
		}
		t.TagIDs = append(t.TagIDs, tagID)
	}
	return t, rows.Err()
}

// todoOwned reports NotFound unless id is a todo of the given user.
// Rows owned by a different user are indistinguishable from absent ones.
func todoOwned(ctx context.Context, q querier, userID, id string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM todos WHERE id = ? AND user_id = ?`, id, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("parent todo not found")
	}
	if err != nil {
		return fmt.Errorf("check todo: %w", err)
	}
	return nil
}

// isDescendant walks up from candidate through parent links and reports
// whether rootID appears on the chain.
func isDescendant(ctx context.Context, q querier, userID, rootID, candidate string) (bool, error) {
	cursor := candidate
	for i := 0; i < maxTreeDepth; i++ {
		var parent sql.NullString
		err := q.QueryRowContext(ctx, `SELECT parent_id FROM todos WHERE id = ? AND user_id = ?`, cursor, userID).Scan(&parent)
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walk ancestors: %w", err)
		}
		if !parent.Valid {
			return false, nil
		}
		if parent.String == rootID {
			return true, nil
		}
		cursor = parent.String
	}
	return false, apperr.Conflict("parent chain too deep")
}

func replaceTodoTags(ctx context.Context, q querier, userID, todoID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		var one int
		err := q.QueryRowContext(ctx, `SELECT 1 FROM tags WHERE id = ? AND user_id = ?`, tagID, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("tag not found: %s", tagID)
		}
		if err != nil {
			return fmt.Errorf("check tag: %w", err)
		}
		if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO todo_tags(todo_id, tag_id) VALUES(?, ?)`, todoID, tagID); err != nil {
			return fmt.Errorf("link tag: %w", err)
		}
	}
	return nil
}

func (s *Store) tagIDsByTodo(ctx context.Context, q querier, userID string) (map[string][]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT tt.todo_id, tt.tag_id FROM todo_tags tt JOIN todos t ON t.id = tt.todo_id WHERE t.user_id = ? ORDER BY tt.rowid`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("todo tags: %w", err)
	}
	defer rows.Close()

	byTodo := map[string][]string{}
	for rows.Next() {
		var todoID, tagID string
		if err := rows.Scan(&todoID, &tagID); err != nil {
			return nil, err
		}
		byTodo[todoID] = append(byTodo[todoID], tagID)
	}
	return byTodo, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (models.Todo, error) {
	var t models.Todo
	var parent sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &parent, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, err
		}
		return models.Todo{}, fmt.Errorf("scan todo: %w", err)
	}
	if parent.Valid {
		t.ParentID = &parent.String
	}
	return t, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func toStringSlice(v any) ([]string, error) {
	switch vs := v.(type) {
	case []string:
		return vs, nil
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("not a string: %v", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not a list")
	}
}
