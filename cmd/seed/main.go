package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"flowsync/internal/config"
	"flowsync/internal/logging"
	"flowsync/internal/repository"
	"flowsync/pkg/models"
)

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	// Load config
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to DB
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresIntegrationStore(pool)

	// Check for existing integrations to prevent duplicates
	existing, err := store.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list existing integrations: %v", err)
	}

	existingMap := make(map[string]bool)
	for _, i := range existing {
		existingMap[i.FlowName] = true
	}

	// Create seed integrations. Workflow ids stay empty; the first
	// reconciliation pass creates the workflows in n8n.
	integrations := []struct {
		FlowName  string
		SourceApp string
		TargetApp string
		Config    models.IntegrationConfig
		Status    models.IntegrationStatus
	}{
		{
			FlowName:  "Slack to Sheets",
			SourceApp: "slack",
			TargetApp: "google_sheets",
			Config: models.IntegrationConfig{
				SourceSettings: map[string]string{"channel": "#ops"},
				TargetSettings: map[string]string{"spreadsheet_id": "abc123"},
			},
			Status: models.IntegrationStatusActive,
		},
		{
			FlowName:  "Jira to Gmail",
			SourceApp: "jira",
			TargetApp: "gmail",
			Config: models.IntegrationConfig{
				SourceSettings: map[string]string{"project_key": "OPS"},
				TargetSettings: map[string]string{"recipient": "dev@localhost"},
			},
			Status: models.IntegrationStatusPaused,
		},
	}

	for _, seed := range integrations {
		if existingMap[seed.FlowName] {
			logger.Info("Skipping existing integration", "flow_name", seed.FlowName)
			continue
		}

		integration := &models.Integration{
			ID:        uuid.New().String(),
			Owner:     "seed-script",
			FlowName:  seed.FlowName,
			SourceApp: seed.SourceApp,
			TargetApp: seed.TargetApp,
			Config:    seed.Config,
			Status:    seed.Status,
		}

		if err := store.Save(ctx, integration); err != nil {
			log.Printf("Failed to create integration %s: %v", seed.FlowName, err)
		} else {
			logger.Info("Seeded integration", "flow_name", seed.FlowName, "id", integration.ID)
		}
	}
	logger.Info("Seeding complete!")
}
