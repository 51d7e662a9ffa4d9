package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"planner/internal/apperr"
	"planner/internal/storage/sqlite"
)

type createMeetingRequest struct {
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	Participants []string  `json:"participants"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}

// handleListMeetings returns the caller's meetings.
func (s *Server) handleListMeetings(c *gin.Context) {
	meetings, err := s.store.ListMeetings(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

// handleCreateMeeting inserts a meeting.
func (s *Server) handleCreateMeeting(c *gin.Context) {
	var req createMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	meeting, err := s.store.CreateMeeting(c.Request.Context(), currentUser(c), sqlite.CreateMeetingParams{
		Title:        req.Title,
		Location:     req.Location,
		Participants: req.Participants,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meeting": meeting})
}

// handleDeleteMeeting removes a meeting.
func (s *Server) handleDeleteMeeting(c *gin.Context) {
	if err := s.store.DeleteMeeting(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
