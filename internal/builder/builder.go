// Package builder turns an Integration into a complete n8n workflow graph.
// Build is a pure function: no network, no persistence, deterministic for
// the same input. That isolation is what lets the sync service and the
// reconciler be tested against a fake engine.
package builder

import (
	"strings"

	"flowsync/internal/catalog"
	"flowsync/pkg/models"
)

// NamePrefix marks workflows owned by flowsync. Orphan detection keys on
// it, so it must never change without a migration of existing workflows.
const NamePrefix = "Flowsync: "

// SystemTag is attached to every built workflow.
const SystemTag = "flowsync"

const (
	triggerNodeName = "Webhook Trigger"
	sourceNodeName  = "Source"
	targetNodeName  = "Target"
)

// Fixed layout positions. Cosmetic only.
var (
	triggerPosition = [2]int{50, 200}
	sourcePosition  = [2]int{250, 200}
	targetPosition  = [2]int{450, 200}
)

// Builder assembles workflow graphs using an injected app registry.
type Builder struct {
	catalog *catalog.Registry
}

// New creates a Builder.
func New(reg *catalog.Registry) *Builder {
	return &Builder{catalog: reg}
}

// Build maps an integration onto its n8n workflow graph: a webhook trigger,
// a source node, and a target node wired as a simple chain. The webhook
// path embeds the integration id so paths never collide across
// integrations.
func (b *Builder) Build(integration *models.Integration) *models.Workflow {
	sourceType, sourceParams := b.catalog.Resolve(integration.SourceApp, integration.Config.SourceSettings)
	targetType, targetParams := b.catalog.Resolve(integration.TargetApp, integration.Config.TargetSettings)

	webhookPath := "flowsync-" + integration.ID

	trigger := models.Node{
		Parameters: map[string]any{
			"httpMethod":   "POST",
			"path":         webhookPath,
			"responseMode": "onReceived",
			"responseData": "firstEntryJson",
		},
		Name:        triggerNodeName,
		Type:        "n8n-nodes-base.webhook",
		TypeVersion: 1,
		Position:    triggerPosition,
		WebhookID:   webhookPath,
	}

	source := models.Node{
		Parameters:  sourceParams,
		Name:        sourceNodeName,
		Type:        sourceType,
		TypeVersion: 1,
		Position:    sourcePosition,
	}

	target := models.Node{
		Parameters:  targetParams,
		Name:        targetNodeName,
		Type:        targetType,
		TypeVersion: 1,
		Position:    targetPosition,
	}

	connections := models.Connections{
		triggerNodeName: {Main: [][]models.ConnectionTarget{{
			{Node: sourceNodeName, Type: "main", Index: 0},
		}}},
		sourceNodeName: {Main: [][]models.ConnectionTarget{{
			{Node: targetNodeName, Type: "main", Index: 0},
		}}},
	}

	return &models.Workflow{
		Name:        NamePrefix + integration.FlowName,
		Nodes:       []models.Node{trigger, source, target},
		Connections: connections,
		Active:      integration.IsActive(),
		Settings: models.WorkflowSettings{
			SaveDataErrorExecution:   "all",
			SaveDataSuccessExecution: "all",
			SaveManualExecutions:     true,
			CallerPolicy:             "workflowsFromSameOwner",
			ExecutionTimeout:         3600,
		},
		Tags: []models.Tag{
			{Name: SystemTag},
			{Name: "user:" + integration.Owner},
			{Name: "integration:" + integration.ID},
		},
	}
}

// Owned reports whether a remote workflow belongs to flowsync, judged by
// the name prefix. Tags are a secondary signal only; a foreign workflow
// that happens to share a tag is still foreign.
func Owned(workflow *models.Workflow) bool {
	return strings.HasPrefix(workflow.Name, NamePrefix)
}
