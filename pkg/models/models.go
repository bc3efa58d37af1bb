// Package models defines the domain models for the flowsync service
package models

import (
	"time"
)

// IntegrationStatus represents the lifecycle state of an integration
type IntegrationStatus string

const (
	IntegrationStatusActive    IntegrationStatus = "Active"
	IntegrationStatusPaused    IntegrationStatus = "Paused"
	IntegrationStatusError     IntegrationStatus = "Error"
	IntegrationStatusCompleted IntegrationStatus = "Completed"
)

// IntegrationConfig holds the per-app settings of an integration. Settings
// are flat string maps; the catalog projects them into node parameters.
type IntegrationConfig struct {
	SourceSettings map[string]string `json:"source_settings,omitempty"`
	TargetSettings map[string]string `json:"target_settings,omitempty"`
}

// Integration is the local declarative record describing a desired
// source→target data flow. WorkflowID references the n8n workflow that
// realizes it; it is empty until the first successful create and is never
// cleared once assigned (deleting the integration removes the whole record).
type Integration struct {
	ID           string            `json:"id" db:"id"`
	Owner        string            `json:"owner" db:"owner"`
	FlowName     string            `json:"flow_name" db:"flow_name"`
	SourceApp    string            `json:"source_app" db:"source_app"`
	TargetApp    string            `json:"target_app" db:"target_app"`
	Config       IntegrationConfig `json:"config"`
	Status       IntegrationStatus `json:"status" db:"status"`
	WorkflowID   string            `json:"workflow_id,omitempty" db:"workflow_id"`
	LastRun      *time.Time        `json:"last_run,omitempty" db:"last_run"`
	ErrorMessage string            `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the integration should have an active remote
// workflow.
func (i *Integration) IsActive() bool {
	return i.Status == IntegrationStatusActive
}

// TokenData carries OAuth token material handed over by the credential
// layer for syncing into n8n. Token storage and refresh live outside this
// service.
type TokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// HealthStatus represents service health
type HealthStatus struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}
