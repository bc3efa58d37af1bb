package n8n

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"flowsync/pkg/models"
)

func newTestServer(t *testing.T, method, path string, status int, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, method, r.Method)
		assert.Equal(t, path, r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-N8N-API-KEY"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
}

func TestCreateWorkflow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/workflows", r.URL.Path)

		var posted models.Workflow
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		assert.Equal(t, "Flowsync: Test Flow", posted.Name)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "wf-1", "name": "Flowsync: Test Flow", "active": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", 0)
	created, err := client.CreateWorkflow(context.Background(), &models.Workflow{Name: "Flowsync: Test Flow"})

	assert.NoError(t, err)
	assert.Equal(t, "wf-1", created.ID)
	assert.True(t, created.Active)
}

func TestGetWorkflow(t *testing.T) {
	server := newTestServer(t, http.MethodGet, "/api/v1/workflows/wf-1", http.StatusOK,
		`{"id": "wf-1", "name": "Flowsync: Test Flow", "active": false}`)
	defer server.Close()

	client := NewClient(server.URL, "secret-key", 0)
	workflow, err := client.GetWorkflow(context.Background(), "wf-1")

	assert.NoError(t, err)
	assert.Equal(t, "wf-1", workflow.ID)
	assert.False(t, workflow.Active)
}

func TestDeleteWorkflowNotFound(t *testing.T) {
	server := newTestServer(t, http.MethodDelete, "/api/v1/workflows/gone", http.StatusNotFound,
		`{"message": "workflow not found"}`)
	defer server.Close()

	client := NewClient(server.URL, "secret-key", 0)
	err := client.DeleteWorkflow(context.Background(), "gone")

	assert.Error(t, err)
	assert.True(t, IsNotFound(err))

	var remoteErr *RemoteError
	assert.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusNotFound, remoteErr.Status)
	assert.Equal(t, "workflow not found", remoteErr.Message)
	assert.False(t, remoteErr.Temporary())
}

func TestListWorkflows(t *testing.T) {
	server := newTestServer(t, http.MethodGet, "/api/v1/workflows", http.StatusOK,
		`{"data": [{"id": "wf-1", "name": "Flowsync: A"}, {"id": "wf-2", "name": "Other"}]}`)
	defer server.Close()

	client := NewClient(server.URL, "secret-key", 0)
	workflows, err := client.ListWorkflows(context.Background())

	assert.NoError(t, err)
	assert.Len(t, workflows, 2)
	assert.Equal(t, "wf-1", workflows[0].ID)
	assert.Equal(t, "Other", workflows[1].Name)
}

func TestActivateWorkflowComposesGetAndUpdate(t *testing.T) {
	var gotUpdate bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"id": "wf-1", "name": "Flowsync: A", "active": false}`))
		case http.MethodPut:
			gotUpdate = true
			var posted models.Workflow
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			assert.True(t, posted.Active)
			w.Write([]byte(`{"id": "wf-1", "name": "Flowsync: A", "active": true}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", 0)
	err := client.ActivateWorkflow(context.Background(), "wf-1")

	assert.NoError(t, err)
	assert.True(t, gotUpdate)
}

func TestServerErrorIsTemporary(t *testing.T) {
	server := newTestServer(t, http.MethodGet, "/api/v1/workflows/wf-1", http.StatusBadGateway, `upstream down`)
	defer server.Close()

	client := NewClient(server.URL, "secret-key", 0)
	_, err := client.GetWorkflow(context.Background(), "wf-1")

	var remoteErr *RemoteError
	assert.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusBadGateway, remoteErr.Status)
	assert.True(t, remoteErr.Temporary())
	assert.Equal(t, "upstream down", remoteErr.Message)
}

func TestNetworkErrorIsTemporary(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "secret-key", 500*time.Millisecond)
	_, err := client.GetWorkflow(context.Background(), "wf-1")

	var remoteErr *RemoteError
	assert.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, 0, remoteErr.Status)
	assert.True(t, remoteErr.Temporary())
	assert.False(t, IsNotFound(err))
}

func TestListExecutionsFiltersByWorkflow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/executions", r.URL.Path)
		assert.Equal(t, "wf-1", r.URL.Query().Get("workflowId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"id": "exec-1", "workflowId": "wf-1", "finished": true}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", 0)
	executions, err := client.ListExecutions(context.Background(), "wf-1")

	assert.NoError(t, err)
	assert.Len(t, executions, 1)
	assert.Equal(t, "exec-1", executions[0].ID)
	assert.True(t, executions[0].Finished)
}

func TestListCredentials(t *testing.T) {
	server := newTestServer(t, http.MethodGet, "/api/v1/credentials", http.StatusOK,
		`{"data": [{"id": "cred-1", "name": "Flowsync Google - alice", "type": "googleOAuth2Api"}]}`)
	defer server.Close()

	client := NewClient(server.URL, "secret-key", 0)
	credentials, err := client.ListCredentials(context.Background())

	assert.NoError(t, err)
	assert.Len(t, credentials, 1)
	assert.Equal(t, "googleOAuth2Api", credentials[0].Type)
}
