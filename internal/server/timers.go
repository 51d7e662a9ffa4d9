package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/apperr"
)

type createTimerRequest struct {
	Name string `json:"name"`
}

// handleListTimers returns the caller's timers with current elapsed time.
func (s *Server) handleListTimers(c *gin.Context) {
	timers, err := s.store.ListTimers(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timers": timers})
}

// handleCreateTimer inserts an idle timer.
func (s *Server) handleCreateTimer(c *gin.Context) {
	var req createTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	timer, err := s.store.CreateTimer(c.Request.Context(), currentUser(c), req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"timer": timer})
}

// handleStartTimer moves a timer to running.
func (s *Server) handleStartTimer(c *gin.Context) {
	timer, err := s.store.StartTimer(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": timer})
}

// handlePauseTimer moves a running timer to paused.
func (s *Server) handlePauseTimer(c *gin.Context) {
	timer, err := s.store.PauseTimer(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": timer})
}
