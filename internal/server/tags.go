package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/apperr"
	"planner/internal/storage/sqlite"
)

type createTagRequest struct {
	GroupID     string `json:"group_id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type createTagGroupRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// handleListTags returns the caller's tags, optionally for one group.
func (s *Server) handleListTags(c *gin.Context) {
	tags, err := s.store.ListTags(c.Request.Context(), currentUser(c), c.Query("group"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// handleCreateTag inserts a tag into one of the caller's groups.
func (s *Server) handleCreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	tag, err := s.store.CreateTag(c.Request.Context(), currentUser(c), sqlite.CreateTagParams{
		GroupID:     req.GroupID,
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// handleDeleteTag removes a tag and its todo associations.
func (s *Server) handleDeleteTag(c *gin.Context) {
	if err := s.store.DeleteTag(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// handleListTagGroups returns the caller's tag groups.
func (s *Server) handleListTagGroups(c *gin.Context) {
	groups, err := s.store.ListTagGroups(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// handleCreateTagGroup inserts a tag group.
func (s *Server) handleCreateTagGroup(c *gin.Context) {
	var req createTagGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	group, err := s.store.CreateTagGroup(c.Request.Context(), currentUser(c), sqlite.CreateTagGroupParams{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": group})
}
