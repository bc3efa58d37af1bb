package repository

import (
	"context"
	"errors"

	"flowsync/pkg/models"
)

// ErrNotFound is returned when an integration does not exist.
var ErrNotFound = errors.New("integration not found")

// IntegrationStore is the persistence interface for integration records.
type IntegrationStore interface {
	// Save inserts a new integration.
	Save(ctx context.Context, integration *models.Integration) error
	// Get retrieves an integration by id.
	Get(ctx context.Context, id string) (*models.Integration, error)
	// List returns every integration, with or without a workflow id.
	List(ctx context.Context) ([]*models.Integration, error)
	// ListByOwner returns the integrations belonging to one owner.
	ListByOwner(ctx context.Context, owner string) ([]*models.Integration, error)
	// Update persists the mutable fields of an existing integration.
	Update(ctx context.Context, integration *models.Integration) error
	// Delete removes an integration record.
	Delete(ctx context.Context, id string) error
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
