package services

import (
	"context"

	"flowsync/internal/builder"
	"flowsync/internal/logging"
	"flowsync/internal/repository"
	"flowsync/pkg/models"
)

// ReconcileStats aggregates the outcome of one reconciliation pass.
type ReconcileStats struct {
	Synced  int `json:"synced"`
	Created int `json:"created"`
	Deleted int `json:"deleted"`
	Errors  int `json:"errors"`
}

// Reconciler is the periodic full-scan controller that diffs local
// integrations against remote workflows and issues corrective sync calls.
// It is stateless and re-entrant; each pass recomputes full graphs rather
// than applying deltas, so repeated passes converge. One integration's
// remote outage must not block the rest: per-item failures are counted,
// never aborting the scan.
type Reconciler struct {
	store  repository.IntegrationStore
	engine WorkflowEngine
	sync   *SyncService
	logger *logging.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(store repository.IntegrationStore, engine WorkflowEngine, sync *SyncService, logger *logging.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		engine: engine,
		sync:   sync,
		logger: logger,
	}
}

// Reconcile runs one full scan:
//
//  1. status mismatches are pushed local→remote,
//  2. integrations whose workflow is missing (or never created) get a
//     fresh workflow,
//  3. leftover remote workflows carrying the flowsync name prefix are
//     orphans and are deleted. Foreign workflows are never touched.
//
// Only listing failures abort the pass; everything per-item is counted in
// Errors.
func (r *Reconciler) Reconcile(ctx context.Context) (*ReconcileStats, error) {
	stats := &ReconcileStats{}

	workflows, err := r.engine.ListWorkflows(ctx)
	if err != nil {
		return nil, err
	}
	remote := make(map[string]*models.Workflow, len(workflows))
	for _, wf := range workflows {
		remote[wf.ID] = wf
	}

	integrations, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, integration := range integrations {
		if err := r.reconcileIntegration(ctx, integration, remote, stats); err != nil {
			stats.Errors++
			r.logger.Error("failed to reconcile integration", "integration", integration.ID, "error", err)
		}
	}

	// Whatever is still in the remote index has no local counterpart.
	for id, wf := range remote {
		if !builder.Owned(wf) {
			continue
		}
		r.logger.Warn("deleting orphaned n8n workflow", "workflow_id", id, "name", wf.Name)
		if err := r.engine.DeleteWorkflow(ctx, id); err != nil {
			stats.Errors++
			r.logger.Error("failed to delete orphaned workflow", "workflow_id", id, "error", err)
			continue
		}
		stats.Deleted++
	}

	r.logger.Info("reconciliation pass completed",
		"synced", stats.Synced, "created", stats.Created, "deleted", stats.Deleted, "errors", stats.Errors)
	return stats, nil
}

func (r *Reconciler) reconcileIntegration(ctx context.Context, integration *models.Integration, remote map[string]*models.Workflow, stats *ReconcileStats) error {
	if integration.WorkflowID != "" {
		if wf, ok := remote[integration.WorkflowID]; ok {
			// Accounted for; take it out of the orphan candidates.
			delete(remote, integration.WorkflowID)

			if wf.Active != integration.IsActive() {
				if err := r.sync.SetStatus(ctx, integration, integration.Status); err != nil {
					return err
				}
				stats.Synced++
				r.logger.Info("synced workflow status", "integration", integration.ID, "status", integration.Status)
			}
			return nil
		}

		// The workflow vanished remotely; the stale reference points at
		// nothing, so recreate from scratch.
		r.logger.Warn("workflow missing in n8n, recreating", "integration", integration.ID, "workflow_id", integration.WorkflowID)
		integration.WorkflowID = ""
	}

	if err := r.sync.Create(ctx, integration); err != nil {
		return err
	}
	stats.Created++
	return nil
}
