// Package catalog maps app identifiers to n8n node types and projects
// integration settings into node parameters. The table is static and
// read-only after construction; new apps are data, not code changes in the
// builder.
package catalog

import (
	"strings"
)

// ProjectFunc turns integration settings into n8n node parameters for one
// app.
type ProjectFunc func(settings map[string]string) map[string]any

// Entry describes how one app maps onto an n8n node.
type Entry struct {
	NodeType string
	Project  ProjectFunc
}

// Registry resolves app identifiers to node configurations. Unknown apps
// resolve to a derived node type with settings passed through unchanged;
// that fallback is a deliberate escape hatch, not an error.
type Registry struct {
	entries map[string]Entry
}

// New creates a Registry from the given table.
func New(entries map[string]Entry) *Registry {
	return &Registry{entries: entries}
}

// Resolve returns the node type and parameters for an app. Apps missing
// from the table get type "n8n-nodes-base.<app>" and raw settings as
// parameters.
func (r *Registry) Resolve(app string, settings map[string]string) (string, map[string]any) {
	entry, ok := r.entries[app]
	if !ok {
		return "n8n-nodes-base." + app, passthrough(settings)
	}

	params := entry.Project(settings)
	if params == nil {
		params = map[string]any{}
	}
	return entry.NodeType, params
}

// DisplayName derives a human-readable node label from an app identifier,
// e.g. "google_sheets" → "Google Sheets".
func DisplayName(app string) string {
	parts := strings.Split(app, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// CredentialType maps an OAuth provider to its n8n credential type, with
// the same derived fallback as node types.
func CredentialType(provider string) string {
	if t, ok := credentialTypes[provider]; ok {
		return t
	}
	return provider + "OAuth2Api"
}

var credentialTypes = map[string]string{
	"google":  "googleOAuth2Api",
	"slack":   "slackOAuth2Api",
	"xero":    "xeroOAuth2Api",
	"hubspot": "hubspotOAuth2Api",
}

func passthrough(settings map[string]string) map[string]any {
	params := make(map[string]any, len(settings))
	for k, v := range settings {
		params[k] = v
	}
	return params
}

func get(settings map[string]string, key, fallback string) string {
	if v, ok := settings[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Default returns the built-in app table. Apps without a bespoke parameter
// projection pass their settings through unchanged.
func Default() *Registry {
	return New(map[string]Entry{
		"slack": {
			NodeType: "n8n-nodes-base.slack",
			Project: func(s map[string]string) map[string]any {
				return map[string]any{
					"channel": get(s, "channel", "#general"),
					"text":    get(s, "message_template", "{{$json.message}}"),
				}
			},
		},
		"google_sheets": {
			NodeType: "n8n-nodes-base.googleSheets",
			Project: func(s map[string]string) map[string]any {
				return map[string]any{
					"sheetId":          s["spreadsheet_id"],
					"range":            get(s, "range", "Sheet1!A1:Z1000"),
					"valueInputOption": get(s, "value_input_option", "USER_ENTERED"),
				}
			},
		},
		"gmail": {
			NodeType: "n8n-nodes-base.gmail",
			Project: func(s map[string]string) map[string]any {
				return map[string]any{
					"to":      s["recipient"],
					"subject": get(s, "subject_template", "{{$json.subject}}"),
					"message": get(s, "body_template", "{{$json.body}}"),
				}
			},
		},
		"jira": {
			NodeType: "n8n-nodes-base.jira",
			Project: func(s map[string]string) map[string]any {
				return map[string]any{
					"project":   s["project_key"],
					"issueType": get(s, "issue_type", "Task"),
					"summary":   get(s, "summary_template", "{{$json.title}}"),
				}
			},
		},
		"google_drive": {NodeType: "n8n-nodes-base.googleDrive", Project: passthrough},
		"hubspot":      {NodeType: "n8n-nodes-base.hubspot", Project: passthrough},
		"xero":         {NodeType: "n8n-nodes-base.xero", Project: passthrough},
		"notion":       {NodeType: "n8n-nodes-base.notion", Project: passthrough},
		"salesforce":   {NodeType: "n8n-nodes-base.salesforce", Project: passthrough},
		"mailchimp":    {NodeType: "n8n-nodes-base.mailchimp", Project: passthrough},
	})
}
