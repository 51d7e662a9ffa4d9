package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"planner/internal/apperr"
	"planner/internal/storage/sqlite"
)

type createScheduleRequest struct {
	Title    string    `json:"title"`
	TodoID   *string   `json:"todo_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// handleListSchedules returns the caller's schedules.
func (s *Server) handleListSchedules(c *gin.Context) {
	schedules, err := s.store.ListSchedules(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// handleCreateSchedule inserts a schedule, optionally linked to a todo.
func (s *Server) handleCreateSchedule(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	schedule, err := s.store.CreateSchedule(c.Request.Context(), currentUser(c), sqlite.CreateScheduleParams{
		Title:    req.Title,
		TodoID:   req.TodoID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

// handleDeleteSchedule removes a schedule.
func (s *Server) handleDeleteSchedule(c *gin.Context) {
	if err := s.store.DeleteSchedule(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
