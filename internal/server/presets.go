package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleListPresets returns the available roadmap templates, optionally
// filtered by category.
func (s *Server) handleListPresets(c *gin.Context) {
	infos, err := s.presets.List(c.Query("category"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": infos})
}

// handleGetPreset returns one preset's full template tree.
func (s *Server) handleGetPreset(c *gin.Context) {
	p, err := s.presets.Get(c.Param("name"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": p})
}

// handleInitializePreset copies a preset's tag group, tags and todo tree
// into rows owned by the caller.
func (s *Server) handleInitializePreset(c *gin.Context) {
	p, err := s.presets.Get(c.Param("name"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	result, err := s.store.InitializeFromPreset(c.Request.Context(), currentUser(c), p)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": result})
}
