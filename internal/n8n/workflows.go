package n8n

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"flowsync/pkg/models"
)

// list is the envelope n8n wraps collection responses in.
type list[T any] struct {
	Data []T `json:"data"`
}

// CreateWorkflow creates a workflow and returns the engine's
// representation, including the assigned id.
func (c *Client) CreateWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/workflows", workflow)
	if err != nil {
		return nil, err
	}
	return decodeWorkflow(body)
}

// GetWorkflow fetches a workflow by id.
func (c *Client) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/workflows/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeWorkflow(body)
}

// UpdateWorkflow replaces a workflow's definition.
func (c *Client) UpdateWorkflow(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error) {
	body, err := c.doRequest(ctx, http.MethodPut, "/workflows/"+id, workflow)
	if err != nil {
		return nil, err
	}
	return decodeWorkflow(body)
}

// DeleteWorkflow removes a workflow. A not-found response comes back as a
// *RemoteError like any other; whether that is fatal is the caller's call.
func (c *Client) DeleteWorkflow(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/workflows/"+id, nil)
	return err
}

// ListWorkflows returns every workflow in the engine.
func (c *Client) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/workflows", nil)
	if err != nil {
		return nil, err
	}
	var resp list[*models.Workflow]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode workflow list: %w", err)
	}
	return resp.Data, nil
}

// ActivateWorkflow flips a workflow's active flag on, as a get-then-update
// composition. Both calls share the caller's context.
func (c *Client) ActivateWorkflow(ctx context.Context, id string) error {
	return c.setActive(ctx, id, true)
}

// DeactivateWorkflow flips a workflow's active flag off.
func (c *Client) DeactivateWorkflow(ctx context.Context, id string) error {
	return c.setActive(ctx, id, false)
}

func (c *Client) setActive(ctx context.Context, id string, active bool) error {
	workflow, err := c.GetWorkflow(ctx, id)
	if err != nil {
		return err
	}
	workflow.Active = active
	_, err = c.UpdateWorkflow(ctx, id, workflow)
	return err
}

// ExecuteWorkflow triggers a manual run with optional input data.
func (c *Client) ExecuteWorkflow(ctx context.Context, id string, data map[string]any) (*models.Execution, error) {
	if data == nil {
		data = map[string]any{}
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/workflows/"+id+"/execute", data)
	if err != nil {
		return nil, err
	}
	var exec models.Execution
	if err := json.Unmarshal(body, &exec); err != nil {
		return nil, fmt.Errorf("failed to decode execution: %w", err)
	}
	return &exec, nil
}

// GetExecution fetches one execution by id.
func (c *Client) GetExecution(ctx context.Context, id string) (*models.Execution, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/executions/"+id, nil)
	if err != nil {
		return nil, err
	}
	var exec models.Execution
	if err := json.Unmarshal(body, &exec); err != nil {
		return nil, fmt.Errorf("failed to decode execution: %w", err)
	}
	return &exec, nil
}

// ListExecutions returns executions, optionally filtered to one workflow.
func (c *Client) ListExecutions(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	endpoint := "/executions"
	if workflowID != "" {
		endpoint += "?workflowId=" + url.QueryEscape(workflowID)
	}
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var resp list[*models.Execution]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode execution list: %w", err)
	}
	return resp.Data, nil
}

func decodeWorkflow(body []byte) (*models.Workflow, error) {
	var workflow models.Workflow
	if err := json.Unmarshal(body, &workflow); err != nil {
		return nil, fmt.Errorf("failed to decode workflow: %w", err)
	}
	return &workflow, nil
}
