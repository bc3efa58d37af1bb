package services

import (
	"context"
	"fmt"

	"flowsync/internal/builder"
	"flowsync/internal/catalog"
	"flowsync/internal/logging"
	"flowsync/internal/n8n"
	"flowsync/internal/repository"
	"flowsync/pkg/models"
)

// SyncService keeps a single integration's n8n workflow in step with the
// local record. Error policy, deliberately asymmetric:
//
//   - Create/Update fail loud: the integration flips to Error with a
//     message, and the error is re-signaled to the caller.
//   - Delete swallows remote failure (logged only): local deletion is the
//     user's terminal intent and must never be blocked by an unreachable
//     engine.
//   - SetStatus re-signals failure but never touches the integration's own
//     status field; what the user set is the source of truth, only the
//     remote may have missed it.
//
// Every operation calls the remote first and writes locally second, so a
// crash between the two is the only inconsistency window; the reconciler
// repairs it on the next pass.
type SyncService struct {
	store   repository.IntegrationStore
	engine  WorkflowEngine
	builder *builder.Builder
	logger  *logging.Logger
}

// NewSyncService creates a new SyncService.
func NewSyncService(store repository.IntegrationStore, engine WorkflowEngine, b *builder.Builder, logger *logging.Logger) *SyncService {
	return &SyncService{
		store:   store,
		engine:  engine,
		builder: b,
		logger:  logger,
	}
}

// Create builds the workflow graph for an integration and creates it in
// n8n, persisting the returned workflow id. The integration must not
// already have a workflow id; calling Create on one that does is a caller
// bug.
func (s *SyncService) Create(ctx context.Context, integration *models.Integration) error {
	if integration.WorkflowID != "" {
		return fmt.Errorf("integration %s already has workflow %s", integration.ID, integration.WorkflowID)
	}

	workflow := s.builder.Build(integration)

	created, err := s.engine.CreateWorkflow(ctx, workflow)
	if err != nil {
		return s.markError(ctx, integration, fmt.Errorf("failed to create n8n workflow: %w", err))
	}
	if created.ID == "" {
		return s.markError(ctx, integration, fmt.Errorf("n8n did not return a workflow id"))
	}

	integration.WorkflowID = created.ID
	if err := s.store.Update(ctx, integration); err != nil {
		return fmt.Errorf("workflow %s created but failed to persist id: %w", created.ID, err)
	}

	s.logger.Info("created n8n workflow", "workflow_id", created.ID, "integration", integration.ID)
	return nil
}

// Update rebuilds the workflow graph from the integration's current fields
// and pushes it to n8n. An integration that never got a workflow is
// created instead. A successful update clears any stale error message.
func (s *SyncService) Update(ctx context.Context, integration *models.Integration) error {
	if integration.WorkflowID == "" {
		return s.Create(ctx, integration)
	}

	workflow := s.builder.Build(integration)

	if _, err := s.engine.UpdateWorkflow(ctx, integration.WorkflowID, workflow); err != nil {
		return s.markError(ctx, integration, fmt.Errorf("failed to update n8n workflow: %w", err))
	}

	if integration.ErrorMessage != "" {
		integration.ErrorMessage = ""
		if err := s.store.Update(ctx, integration); err != nil {
			return fmt.Errorf("failed to clear error state: %w", err)
		}
	}

	s.logger.Info("updated n8n workflow", "workflow_id", integration.WorkflowID, "integration", integration.ID)
	return nil
}

// Delete removes the integration's workflow from n8n, best-effort. A
// missing remote workflow is success; any other remote failure is logged
// and swallowed so the local record can always be deleted.
func (s *SyncService) Delete(ctx context.Context, integration *models.Integration) error {
	if integration.WorkflowID == "" {
		return nil
	}

	if err := s.engine.DeleteWorkflow(ctx, integration.WorkflowID); err != nil && !n8n.IsNotFound(err) {
		s.logger.Error("failed to delete n8n workflow", "workflow_id", integration.WorkflowID, "integration", integration.ID, "error", err)
		return nil
	}

	s.logger.Info("deleted n8n workflow", "workflow_id", integration.WorkflowID, "integration", integration.ID)
	return nil
}

// SetStatus pushes the integration's status to n8n by activating or
// deactivating its workflow. There is nothing remote to toggle for an
// integration without a workflow id.
func (s *SyncService) SetStatus(ctx context.Context, integration *models.Integration, status models.IntegrationStatus) error {
	if integration.WorkflowID == "" {
		return fmt.Errorf("integration %s has no workflow to set status on", integration.ID)
	}

	var err error
	if status == models.IntegrationStatusActive {
		err = s.engine.ActivateWorkflow(ctx, integration.WorkflowID)
	} else {
		err = s.engine.DeactivateWorkflow(ctx, integration.WorkflowID)
	}
	if err != nil {
		return fmt.Errorf("failed to set n8n workflow status: %w", err)
	}

	s.logger.Info("set n8n workflow status", "workflow_id", integration.WorkflowID, "status", status)
	return nil
}

// SyncCredentials upserts an n8n OAuth credential for one (provider,
// owner) pair, matching by the deterministic credential name.
func (s *SyncService) SyncCredentials(ctx context.Context, provider, owner string, token *models.TokenData) (string, error) {
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	credential := &models.Credential{
		Name: fmt.Sprintf("Flowsync %s - %s", catalog.DisplayName(provider), owner),
		Type: catalog.CredentialType(provider),
		Data: map[string]any{
			"accessToken":  token.AccessToken,
			"refreshToken": token.RefreshToken,
			"tokenType":    tokenType,
			"expiresIn":    token.ExpiresIn,
		},
	}

	existing, err := s.engine.ListCredentials(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list n8n credentials: %w", err)
	}

	for _, cred := range existing {
		if cred.Name == credential.Name {
			updated, err := s.engine.UpdateCredential(ctx, cred.ID, credential)
			if err != nil {
				return "", fmt.Errorf("failed to update n8n credential: %w", err)
			}
			return updated.ID, nil
		}
	}

	created, err := s.engine.CreateCredential(ctx, credential)
	if err != nil {
		return "", fmt.Errorf("failed to create n8n credential: %w", err)
	}

	s.logger.Info("synced credentials to n8n", "provider", provider, "owner", owner)
	return created.ID, nil
}

// markError flips the integration into Error status with a message and
// re-signals the original failure.
func (s *SyncService) markError(ctx context.Context, integration *models.Integration, cause error) error {
	integration.Status = models.IntegrationStatusError
	integration.ErrorMessage = cause.Error()
	if err := s.store.Update(ctx, integration); err != nil {
		s.logger.Error("failed to record error state", "integration", integration.ID, "error", err)
	}
	return cause
}
