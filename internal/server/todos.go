package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/apperr"
	"planner/internal/models"
	"planner/internal/storage/sqlite"
)

type createTodoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ParentID    *string  `json:"parent_id"`
	Status      string   `json:"status"`
	TagIDs      []string `json:"tag_ids"`
}

// handleListTodos returns the caller's todos, optionally filtered by
// status or tag.
func (s *Server) handleListTodos(c *gin.Context) {
	todos, err := s.store.ListTodos(c.Request.Context(), currentUser(c), sqlite.TodoFilter{
		Status: c.Query("status"),
		TagID:  c.Query("tag"),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

// handleCreateTodo inserts a new todo, optionally under a parent.
func (s *Server) handleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	todo, err := s.store.CreateTodo(c.Request.Context(), currentUser(c), sqlite.CreateTodoParams{
		Title:       req.Title,
		Description: req.Description,
		ParentID:    req.ParentID,
		Status:      models.TodoStatus(req.Status),
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"todo": todo})
}

// handleUpdateTodo applies a partial update. The body is decoded as a
// generic map so an explicit null parent can be told apart from an
// absent field.
func (s *Server) handleUpdateTodo(c *gin.Context) {
	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		s.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	todo, err := s.store.UpdateTodo(c.Request.Context(), currentUser(c), c.Param("id"), changes)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// handleDeleteTodo removes a todo; its children detach to root.
func (s *Server) handleDeleteTodo(c *gin.Context) {
	if err := s.store.DeleteTodo(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
