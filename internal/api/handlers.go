// Package api contains the HTTP handlers for the flowsync service
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"flowsync/internal/repository"
	"flowsync/internal/services"
	"flowsync/pkg/models"
)

// Engine is the slice of the n8n client the HTTP layer calls directly,
// for manual runs and execution history.
type Engine interface {
	ExecuteWorkflow(ctx context.Context, id string, data map[string]any) (*models.Execution, error)
	ListExecutions(ctx context.Context, workflowID string) ([]*models.Execution, error)
}

// Server holds the dependencies for the API server.
type Server struct {
	Store      repository.IntegrationStore
	Sync       *services.SyncService
	Reconciler *services.Reconciler
	Engine     Engine
}

// NewServer creates a new Server.
func NewServer(store repository.IntegrationStore, sync *services.SyncService, reconciler *services.Reconciler, engine Engine) *Server {
	return &Server{
		Store:      store,
		Sync:       sync,
		Reconciler: reconciler,
		Engine:     engine,
	}
}

// Register mounts all routes on an echo group.
func (s *Server) Register(g *echo.Group) {
	g.GET("/health", s.Health)
	g.GET("/integrations", s.ListIntegrations)
	g.POST("/integrations", s.CreateIntegration)
	g.GET("/integrations/:id", s.GetIntegration)
	g.PUT("/integrations/:id", s.UpdateIntegration)
	g.DELETE("/integrations/:id", s.DeleteIntegration)
	g.POST("/integrations/:id/status", s.SetIntegrationStatus)
	g.POST("/integrations/:id/run", s.RunIntegration)
	g.GET("/integrations/:id/executions", s.ListIntegrationExecutions)
	g.POST("/credentials/sync", s.SyncCredentials)
	g.POST("/reconcile", s.Reconcile)
}

// Health returns basic health status, including store reachability.
// (GET /api/v1/health)
func (s *Server) Health(c echo.Context) error {
	status := models.HealthStatus{
		Status:    "ok",
		Service:   "flowsync",
		Version:   "1.0.0",
		Timestamp: time.Now(),
	}
	if err := s.Store.Ping(c.Request().Context()); err != nil {
		status.Status = "degraded"
	}
	return c.JSON(http.StatusOK, status)
}

// Reconcile runs one reconciliation pass on demand and returns its
// counters.
// (POST /api/v1/reconcile)
func (s *Server) Reconcile(c echo.Context) error {
	stats, err := s.Reconciler.Reconcile(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Reconciliation failed: "+err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
