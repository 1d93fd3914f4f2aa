// Package api exposes profiling over HTTP with gin.
package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tabscout/domain/profile"
	"tabscout/internal"
	"tabscout/internal/dataset"
)

// ProfileService is the upload processing surface the handlers need
type ProfileService interface {
	ProcessUpload(ctx context.Context, upload *dataset.Upload) (*profile.Record, error)
	Get(ctx context.Context, id string) (*profile.Record, error)
	List(ctx context.Context, limit, offset int) ([]*profile.Record, error)
	Delete(ctx context.Context, id string) error
	OpenRaw(ctx context.Context, id string) (*profile.Record, io.ReadCloser, error)
}

// Server wires the HTTP routes to the profile service
type Server struct {
	router  *gin.Engine
	service ProfileService
	events  *EventHub
	logger  *internal.Logger
}

// NewServer creates a server with gin's default logging and recovery middleware
func NewServer(service ProfileService, events *EventHub, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if events == nil {
		events = NewEventHub()
	}
	s := &Server{
		router:  gin.Default(),
		service: service,
		events:  events,
		logger:  logger.Component("API"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/events", s.events.HandleSSE)

	profiles := api.Group("/profiles")
	profiles.POST("", s.handleUpload)
	profiles.POST("/raw", s.handleRawUpload)
	profiles.GET("", s.handleList)
	profiles.GET("/:id", s.handleGet)
	profiles.GET("/:id/preview.csv", s.handlePreviewCSV)
	profiles.GET("/:id/preview.xlsx", s.handlePreviewXLSX)
	profiles.GET("/:id/summary", s.handleSummary)
	profiles.GET("/:id/raw", s.handleRaw)
	profiles.DELETE("/:id", s.handleDelete)
}

// Handler returns the router for use with net/http
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting tabscout API on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
