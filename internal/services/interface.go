package services

import (
	"context"

	"flowsync/pkg/models"
)

// WorkflowEngine is the slice of the n8n API the sync service and the
// reconciler depend on. *n8n.Client satisfies it; tests use a fake.
type WorkflowEngine interface {
	CreateWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error)
	UpdateWorkflow(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error)
	DeleteWorkflow(ctx context.Context, id string) error
	ListWorkflows(ctx context.Context) ([]*models.Workflow, error)
	ActivateWorkflow(ctx context.Context, id string) error
	DeactivateWorkflow(ctx context.Context, id string) error
	CreateCredential(ctx context.Context, credential *models.Credential) (*models.Credential, error)
	UpdateCredential(ctx context.Context, id string, credential *models.Credential) (*models.Credential, error)
	ListCredentials(ctx context.Context) ([]*models.Credential, error)
}
