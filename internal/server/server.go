package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"planner/internal/apperr"
	"planner/internal/preset"
	"planner/internal/storage/sqlite"
)

// Options configures the HTTP layer.
type Options struct {
	TokenSecret    string
	AllowedOrigins []string
}

// Server provides HTTP handlers for the planner backend.
type Server struct {
	engine  *gin.Engine
	store   *sqlite.Store
	presets *preset.Library
	logger  *slog.Logger
	opts    Options

	docOnce sync.Once
	doc     gin.H
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, presets *preset.Library, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/healthz"))

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Authorization", "Content-Type"},
		}))
	}

	srv := &Server{
		engine:  router,
		store:   store,
		presets: presets,
		logger:  logger,
		opts:    opts,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires the versioned API together. Preset paths use
// literal segments so gin's tree resolves them ahead of the :id routes.
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/v1")
	v1.Use(s.authRequired())
	{
		todos := v1.Group("/todos")
		{
			todos.GET("", s.handleListTodos)
			todos.POST("", s.handleCreateTodo)
			todos.PATCH(":id", s.handleUpdateTodo)
			todos.DELETE(":id", s.handleDeleteTodo)
			todos.GET("/presets", s.handleListPresets)
			todos.GET("/presets/:name", s.handleGetPreset)
			todos.POST("/initialize/:name", s.handleInitializePreset)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", s.handleListTags)
			tags.POST("", s.handleCreateTag)
			tags.DELETE(":id", s.handleDeleteTag)
			tags.GET("/groups", s.handleListTagGroups)
			tags.POST("/groups", s.handleCreateTagGroup)
		}

		schedules := v1.Group("/schedules")
		{
			schedules.GET("", s.handleListSchedules)
			schedules.POST("", s.handleCreateSchedule)
			schedules.DELETE(":id", s.handleDeleteSchedule)
		}

		timers := v1.Group("/timers")
		{
			timers.GET("", s.handleListTimers)
			timers.POST("", s.handleCreateTimer)
			timers.POST(":id/start", s.handleStartTimer)
			timers.POST(":id/pause", s.handlePauseTimer)
		}

		meetings := v1.Group("/meetings")
		{
			meetings.GET("", s.handleListMeetings)
			meetings.POST("", s.handleCreateMeeting)
			meetings.DELETE(":id", s.handleDeleteMeeting)
		}
	}

	s.mountDocs()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError logs the error and returns a JSON payload with the status
// the error classification maps to.
func (s *Server) respondError(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
