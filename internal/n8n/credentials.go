package n8n

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"flowsync/pkg/models"
)

// CreateCredential creates a credential and returns it with the assigned
// id.
func (c *Client) CreateCredential(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/credentials", credential)
	if err != nil {
		return nil, err
	}
	return decodeCredential(body)
}

// GetCredential fetches a credential by id.
func (c *Client) GetCredential(ctx context.Context, id string) (*models.Credential, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/credentials/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeCredential(body)
}

// UpdateCredential replaces a credential's definition.
func (c *Client) UpdateCredential(ctx context.Context, id string, credential *models.Credential) (*models.Credential, error) {
	body, err := c.doRequest(ctx, http.MethodPut, "/credentials/"+id, credential)
	if err != nil {
		return nil, err
	}
	return decodeCredential(body)
}

// DeleteCredential removes a credential.
func (c *Client) DeleteCredential(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/credentials/"+id, nil)
	return err
}

// ListCredentials returns every credential in the engine.
func (c *Client) ListCredentials(ctx context.Context) ([]*models.Credential, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/credentials", nil)
	if err != nil {
		return nil, err
	}
	var resp list[*models.Credential]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode credential list: %w", err)
	}
	return resp.Data, nil
}

func decodeCredential(body []byte) (*models.Credential, error) {
	var credential models.Credential
	if err := json.Unmarshal(body, &credential); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}
	return &credential, nil
}
