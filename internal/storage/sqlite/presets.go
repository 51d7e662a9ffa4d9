package sqlite

import (
	"context"
	"database/sql"

	"planner/internal/models"
	"planner/internal/preset"
)

// InitializeFromPreset deep-copies a preset into rows owned by the user:
// the tag group first, then its tags, then the todo tree depth-first so
// every child is inserted after its parent. Everything happens in one
// transaction; a failure anywhere rolls the whole copy back. Repeated
// calls create additional independent copies.
func (s *Store) InitializeFromPreset(ctx context.Context, userID string, p *preset.Preset) (preset.InitializeResult, error) {
	var result preset.InitializeResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		groupID, err := insertTagGroup(ctx, tx, userID, CreateTagGroupParams{
			Name:        p.TagGroup.Name,
			Color:       p.TagGroup.Color,
			Description: p.TagGroup.Description,
		})
		if err != nil {
			return err
		}

		tagIDByName := make(map[string]string, len(p.Tags))
		for _, t := range p.Tags {
			tagID, err := insertTag(ctx, tx, userID, CreateTagParams{
				GroupID:     groupID,
				Name:        t.Name,
				Color:       t.Color,
				Description: t.Description,
			})
			if err != nil {
				return err
			}
			tagIDByName[t.Name] = tagID
		}

		created, err := copyTodoTree(ctx, tx, userID, p.Todos, tagIDByName, nil)
		if err != nil {
			return err
		}

		result = preset.InitializeResult{
			PresetName:   p.Name,
			TagGroupID:   groupID,
			TagsCreated:  len(p.Tags),
			TodosCreated: created,
		}
		return nil
	})
	if err != nil {
		return preset.InitializeResult{}, err
	}
	return result, nil
}

// copyTodoTree inserts template nodes in order, then recurses into each
// node's children with the fresh id as parent. Insertion timestamps come
// from the clock per row, so the list ordering by created_at preserves
// the template's relative order.
func copyTodoTree(ctx context.Context, tx *sql.Tx, userID string, templates []preset.TodoTemplate, tagIDByName map[string]string, parentID *string) (int, error) {
	created := 0
	for _, tpl := range templates {
		var tagIDs []string
		for _, name := range tpl.TagNames {
			if id, ok := tagIDByName[name]; ok {
				tagIDs = append(tagIDs, id)
			}
		}

		id, err := insertTodo(ctx, tx, userID, CreateTodoParams{
			Title:       tpl.Title,
			Description: tpl.Description,
			ParentID:    parentID,
			Status:      models.TodoStatusUnscheduled,
		})
		if err != nil {
			return 0, err
		}
		if err := replaceTodoTags(ctx, tx, userID, id, tagIDs); err != nil {
			return 0, err
		}
		created++

		childCount, err := copyTodoTree(ctx, tx, userID, tpl.Children, tagIDByName, &id)
		if err != nil {
			return 0, err
		}
		created += childCount
	}
	return created, nil
}
