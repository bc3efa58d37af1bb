package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"flowsync/internal/repository"
	"flowsync/pkg/models"
)

// CreateIntegrationRequest is the payload for activating a new
// integration.
type CreateIntegrationRequest struct {
	Owner     string                   `json:"owner"`
	FlowName  string                   `json:"flow_name"`
	SourceApp string                   `json:"source_app"`
	TargetApp string                   `json:"target_app"`
	Config    models.IntegrationConfig `json:"config"`
}

// UpdateIntegrationRequest is the payload for editing an integration's
// flow definition.
type UpdateIntegrationRequest struct {
	FlowName  string                   `json:"flow_name"`
	SourceApp string                   `json:"source_app"`
	TargetApp string                   `json:"target_app"`
	Config    models.IntegrationConfig `json:"config"`
}

// SetStatusRequest is the payload for pausing or resuming an integration.
type SetStatusRequest struct {
	Status models.IntegrationStatus `json:"status"`
}

// SyncCredentialsRequest is the payload for pushing OAuth tokens into n8n.
type SyncCredentialsRequest struct {
	Provider string           `json:"provider"`
	Owner    string           `json:"owner"`
	Token    models.TokenData `json:"token"`
}

// ListIntegrations returns integrations, optionally filtered by owner
// (GET /api/v1/integrations?owner=)
func (s *Server) ListIntegrations(c echo.Context) error {
	ctx := c.Request().Context()

	var integrations []*models.Integration
	var err error
	if owner := c.QueryParam("owner"); owner != "" {
		integrations, err = s.Store.ListByOwner(ctx, owner)
	} else {
		integrations, err = s.Store.List(ctx)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if integrations == nil {
		integrations = []*models.Integration{}
	}
	return c.JSON(http.StatusOK, integrations)
}

// CreateIntegration activates a new integration: the record is persisted
// first, then its workflow is created in n8n. A sync failure leaves the
// record behind in Error status so the user sees a consistent signal.
// (POST /api/v1/integrations)
func (s *Server) CreateIntegration(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateIntegrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Owner == "" || req.FlowName == "" || req.SourceApp == "" || req.TargetApp == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "owner, flow_name, source_app and target_app are required")
	}

	integration := &models.Integration{
		ID:        uuid.New().String(),
		Owner:     req.Owner,
		FlowName:  req.FlowName,
		SourceApp: req.SourceApp,
		TargetApp: req.TargetApp,
		Config:    req.Config,
		Status:    models.IntegrationStatusActive,
	}

	if err := s.Store.Save(ctx, integration); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save integration: "+err.Error())
	}

	if err := s.Sync.Create(ctx, integration); err != nil {
		// The record stays, flipped to Error with a message.
		return echo.NewHTTPError(http.StatusBadGateway, "Integration saved but workflow creation failed: "+err.Error())
	}

	return c.JSON(http.StatusCreated, integration)
}

// GetIntegration returns one integration by id
// (GET /api/v1/integrations/:id)
func (s *Server) GetIntegration(c echo.Context) error {
	integration, err := s.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Integration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, integration)
}

// UpdateIntegration edits an integration's flow definition and pushes the
// rebuilt workflow to n8n.
// (PUT /api/v1/integrations/:id)
func (s *Server) UpdateIntegration(c echo.Context) error {
	ctx := c.Request().Context()

	integration, err := s.Store.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Integration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req UpdateIntegrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.FlowName != "" {
		integration.FlowName = req.FlowName
	}
	if req.SourceApp != "" {
		integration.SourceApp = req.SourceApp
	}
	if req.TargetApp != "" {
		integration.TargetApp = req.TargetApp
	}
	if req.Config.SourceSettings != nil || req.Config.TargetSettings != nil {
		integration.Config = req.Config
	}

	if err := s.Store.Update(ctx, integration); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save integration: "+err.Error())
	}

	if err := s.Sync.Update(ctx, integration); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Integration saved but workflow update failed: "+err.Error())
	}

	return c.JSON(http.StatusOK, integration)
}

// DeleteIntegration removes an integration. The remote workflow is deleted
// best-effort; local deletion proceeds regardless.
// (DELETE /api/v1/integrations/:id)
func (s *Server) DeleteIntegration(c echo.Context) error {
	ctx := c.Request().Context()

	integration, err := s.Store.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Integration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	_ = s.Sync.Delete(ctx, integration)

	if err := s.Store.Delete(ctx, integration.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete integration: "+err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// SetIntegrationStatus pauses or resumes an integration. The local status
// is the source of truth and is written first; a remote push failure is
// surfaced but leaves the local status in place for the reconciler to
// repair.
// (POST /api/v1/integrations/:id/status)
func (s *Server) SetIntegrationStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Status != models.IntegrationStatusActive && req.Status != models.IntegrationStatusPaused {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be Active or Paused")
	}

	integration, err := s.Store.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Integration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	integration.Status = req.Status
	if err := s.Store.Update(ctx, integration); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save integration: "+err.Error())
	}

	if err := s.Sync.SetStatus(ctx, integration, req.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Status saved but remote push failed: "+err.Error())
	}

	return c.JSON(http.StatusOK, integration)
}

// RunIntegration triggers a manual execution of the integration's
// workflow.
// (POST /api/v1/integrations/:id/run)
func (s *Server) RunIntegration(c echo.Context) error {
	ctx := c.Request().Context()

	integration, err := s.Store.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Integration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if integration.WorkflowID == "" {
		return echo.NewHTTPError(http.StatusConflict, "Integration has no workflow yet")
	}

	var data map[string]any
	if err := c.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	execution, err := s.Engine.ExecuteWorkflow(ctx, integration.WorkflowID, data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Execution failed: "+err.Error())
	}

	return c.JSON(http.StatusOK, execution)
}

// ListIntegrationExecutions returns the execution history of an
// integration's workflow.
// (GET /api/v1/integrations/:id/executions)
func (s *Server) ListIntegrationExecutions(c echo.Context) error {
	ctx := c.Request().Context()

	integration, err := s.Store.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Integration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if integration.WorkflowID == "" {
		return c.JSON(http.StatusOK, []*models.Execution{})
	}

	executions, err := s.Engine.ListExecutions(ctx, integration.WorkflowID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to list executions: "+err.Error())
	}
	if executions == nil {
		executions = []*models.Execution{}
	}

	return c.JSON(http.StatusOK, executions)
}

// SyncCredentials upserts an n8n credential from OAuth token material
// handed over by the credential layer.
// (POST /api/v1/credentials/sync)
func (s *Server) SyncCredentials(c echo.Context) error {
	var req SyncCredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Provider == "" || req.Owner == "" || req.Token.AccessToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "provider, owner and token.access_token are required")
	}

	id, err := s.Sync.SyncCredentials(c.Request().Context(), req.Provider, req.Owner, &req.Token)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Credential sync failed: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"credential_id": id})
}
