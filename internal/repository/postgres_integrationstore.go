package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flowsync/pkg/models"
)

// PostgresIntegrationStore is a PostgreSQL implementation of the
// IntegrationStore interface. The config sub-maps live in a JSONB column.
type PostgresIntegrationStore struct {
	db *pgxpool.Pool
}

// NewPostgresIntegrationStore creates a new PostgresIntegrationStore.
func NewPostgresIntegrationStore(db *pgxpool.Pool) *PostgresIntegrationStore {
	return &PostgresIntegrationStore{db: db}
}

const integrationColumns = "id, owner, flow_name, source_app, target_app, config, status, workflow_id, last_run, error_message, created_at, updated_at"

// Save inserts a new integration.
func (s *PostgresIntegrationStore) Save(ctx context.Context, integration *models.Integration) error {
	config, err := json.Marshal(integration.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO integrations (id, owner, flow_name, source_app, target_app, config, status, workflow_id, last_run, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		integration.ID, integration.Owner, integration.FlowName, integration.SourceApp, integration.TargetApp,
		config, integration.Status, integration.WorkflowID, integration.LastRun, integration.ErrorMessage)
	return err
}

// Get retrieves an integration by its id.
func (s *PostgresIntegrationStore) Get(ctx context.Context, id string) (*models.Integration, error) {
	row := s.db.QueryRow(ctx,
		"SELECT "+integrationColumns+" FROM integrations WHERE id = $1", id)
	integration, err := scanIntegration(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return integration, err
}

// List returns every integration.
func (s *PostgresIntegrationStore) List(ctx context.Context) ([]*models.Integration, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+integrationColumns+" FROM integrations ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIntegrations(rows)
}

// ListByOwner returns the integrations belonging to one owner.
func (s *PostgresIntegrationStore) ListByOwner(ctx context.Context, owner string) ([]*models.Integration, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+integrationColumns+" FROM integrations WHERE owner = $1 ORDER BY created_at", owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIntegrations(rows)
}

// Update persists the mutable fields of an existing integration.
func (s *PostgresIntegrationStore) Update(ctx context.Context, integration *models.Integration) error {
	config, err := json.Marshal(integration.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE integrations
		 SET flow_name = $1, source_app = $2, target_app = $3, config = $4, status = $5,
		     workflow_id = $6, last_run = $7, error_message = $8, updated_at = now()
		 WHERE id = $9`,
		integration.FlowName, integration.SourceApp, integration.TargetApp, config, integration.Status,
		integration.WorkflowID, integration.LastRun, integration.ErrorMessage, integration.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an integration record.
func (s *PostgresIntegrationStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM integrations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the store is reachable.
func (s *PostgresIntegrationStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanIntegration(row pgx.Row) (*models.Integration, error) {
	var integration models.Integration
	var config []byte
	err := row.Scan(&integration.ID, &integration.Owner, &integration.FlowName,
		&integration.SourceApp, &integration.TargetApp, &config, &integration.Status,
		&integration.WorkflowID, &integration.LastRun, &integration.ErrorMessage,
		&integration.CreatedAt, &integration.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &integration.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config for %s: %w", integration.ID, err)
		}
	}
	return &integration, nil
}

func collectIntegrations(rows pgx.Rows) ([]*models.Integration, error) {
	var integrations []*models.Integration
	for rows.Next() {
		integration, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		integrations = append(integrations, integration)
	}
	return integrations, rows.Err()
}
