package services

import (
	"context"
	"fmt"
	"sync"

	"flowsync/internal/repository"
	"flowsync/pkg/models"
)

// fakeEngine is an in-memory n8n standing in for the real engine. Failures
// are injectable per operation.
type fakeEngine struct {
	mu          sync.Mutex
	workflows   map[string]*models.Workflow
	credentials map[string]*models.Credential
	nextID      int

	failCreate   error
	failUpdate   error
	failDelete   error
	failActivate error
	failList     error

	createCalls int
	deleteCalls []string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		workflows:   make(map[string]*models.Workflow),
		credentials: make(map[string]*models.Credential),
	}
}

func (e *fakeEngine) CreateWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.createCalls++
	if e.failCreate != nil {
		return nil, e.failCreate
	}
	e.nextID++
	stored := *workflow
	stored.ID = fmt.Sprintf("wf-%d", e.nextID)
	e.workflows[stored.ID] = &stored
	return &stored, nil
}

func (e *fakeEngine) UpdateWorkflow(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failUpdate != nil {
		return nil, e.failUpdate
	}
	if _, ok := e.workflows[id]; !ok {
		return nil, fmt.Errorf("workflow %s not found", id)
	}
	stored := *workflow
	stored.ID = id
	e.workflows[id] = &stored
	return &stored, nil
}

func (e *fakeEngine) DeleteWorkflow(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deleteCalls = append(e.deleteCalls, id)
	if e.failDelete != nil {
		return e.failDelete
	}
	delete(e.workflows, id)
	return nil
}

func (e *fakeEngine) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failList != nil {
		return nil, e.failList
	}
	var workflows []*models.Workflow
	for _, wf := range e.workflows {
		copied := *wf
		workflows = append(workflows, &copied)
	}
	return workflows, nil
}

func (e *fakeEngine) ActivateWorkflow(ctx context.Context, id string) error {
	return e.setActive(id, true)
}

func (e *fakeEngine) DeactivateWorkflow(ctx context.Context, id string) error {
	return e.setActive(id, false)
}

func (e *fakeEngine) setActive(id string, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failActivate != nil {
		return e.failActivate
	}
	wf, ok := e.workflows[id]
	if !ok {
		return fmt.Errorf("workflow %s not found", id)
	}
	wf.Active = active
	return nil
}

func (e *fakeEngine) CreateCredential(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	stored := *credential
	stored.ID = fmt.Sprintf("cred-%d", e.nextID)
	e.credentials[stored.ID] = &stored
	return &stored, nil
}

func (e *fakeEngine) UpdateCredential(ctx context.Context, id string, credential *models.Credential) (*models.Credential, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.credentials[id]; !ok {
		return nil, fmt.Errorf("credential %s not found", id)
	}
	stored := *credential
	stored.ID = id
	e.credentials[id] = &stored
	return &stored, nil
}

func (e *fakeEngine) ListCredentials(ctx context.Context) ([]*models.Credential, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var credentials []*models.Credential
	for _, cred := range e.credentials {
		copied := *cred
		credentials = append(credentials, &copied)
	}
	return credentials, nil
}

// memStore is an in-memory IntegrationStore.
type memStore struct {
	mu    sync.Mutex
	items map[string]*models.Integration
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]*models.Integration)}
}

func (s *memStore) Save(ctx context.Context, integration *models.Integration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *integration
	s.items[integration.ID] = &copied
	return nil
}

func (s *memStore) Get(ctx context.Context, id string) (*models.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	integration, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *integration
	return &copied, nil
}

func (s *memStore) List(ctx context.Context) ([]*models.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var integrations []*models.Integration
	for _, i := range s.items {
		copied := *i
		integrations = append(integrations, &copied)
	}
	return integrations, nil
}

func (s *memStore) ListByOwner(ctx context.Context, owner string) ([]*models.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var integrations []*models.Integration
	for _, i := range s.items {
		if i.Owner == owner {
			copied := *i
			integrations = append(integrations, &copied)
		}
	}
	return integrations, nil
}

func (s *memStore) Update(ctx context.Context, integration *models.Integration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[integration.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *integration
	s.items[integration.ID] = &copied
	return nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *memStore) Ping(ctx context.Context) error { return nil }
