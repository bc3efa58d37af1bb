package models

// Workflow is the n8n representation of an executing flow. Flowsync owns
// workflows whose Name carries the "Flowsync: " prefix; everything else in
// the remote engine is foreign and must never be touched.
type Workflow struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Nodes       []Node           `json:"nodes"`
	Connections Connections      `json:"connections"`
	Active      bool             `json:"active"`
	Settings    WorkflowSettings `json:"settings"`
	StaticData  any              `json:"staticData"`
	Tags        []Tag            `json:"tags,omitempty"`
}

// Node is a single node in an n8n workflow graph. Position is a layout
// hint only.
type Node struct {
	Parameters  map[string]any `json:"parameters"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	TypeVersion int            `json:"typeVersion"`
	Position    [2]int         `json:"position"`
	WebhookID   string         `json:"webhookId,omitempty"`
}

// Connections maps a node name to its outgoing edges, keyed by port kind
// ("main" for data flow).
type Connections map[string]NodeConnections

// NodeConnections holds the outgoing edge lists of one node.
type NodeConnections struct {
	Main [][]ConnectionTarget `json:"main"`
}

// ConnectionTarget is one directed edge endpoint.
type ConnectionTarget struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// WorkflowSettings are n8n workflow-level execution settings.
type WorkflowSettings struct {
	SaveDataErrorExecution   string `json:"saveDataErrorExecution,omitempty"`
	SaveDataSuccessExecution string `json:"saveDataSuccessExecution,omitempty"`
	SaveManualExecutions     bool   `json:"saveManualExecutions,omitempty"`
	CallerPolicy             string `json:"callerPolicy,omitempty"`
	ExecutionTimeout         int    `json:"executionTimeout,omitempty"`
}

// Tag is an n8n workflow tag.
type Tag struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Credential is an n8n credential record.
type Credential struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Execution is a single run of a remote workflow.
type Execution struct {
	ID         string `json:"id"`
	WorkflowID string `json:"workflowId,omitempty"`
	Finished   bool   `json:"finished"`
	Mode       string `json:"mode,omitempty"`
	Status     string `json:"status,omitempty"`
}
