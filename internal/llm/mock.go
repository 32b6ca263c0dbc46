package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a scripted test double for Provider. Retrieve walks
// through Jobs in order and repeats the last entry once exhausted.
type MockProvider struct {
	mu sync.Mutex

	// Complete
	Content     string
	Usage       *Usage
	CompleteErr error

	// Background
	SubmitID  string
	SubmitErr error
	Jobs      []Job
	PollErrs  []error

	Models    []string
	ModelsErr error

	Requests    []Request
	RetrieveIDs []string
	completeN   int
	submitN     int
	retrieveN   int
}

// NewMockProvider creates a MockProvider that answers content with usage.
func NewMockProvider(content string, usage *Usage) *MockProvider {
	return &MockProvider{
		Content:  content,
		Usage:    usage,
		SubmitID: "resp_mock",
	}
}

func (m *MockProvider) Complete(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeN++
	m.Requests = append(m.Requests, req)
	if m.CompleteErr != nil {
		return nil, m.CompleteErr
	}
	return &Response{ID: "resp_sync", Content: m.Content, Usage: m.Usage}, nil
}

func (m *MockProvider) Submit(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitN++
	m.Requests = append(m.Requests, req)
	if m.SubmitErr != nil {
		return "", m.SubmitErr
	}
	return m.SubmitID, nil
}

func (m *MockProvider) Retrieve(_ context.Context, jobID string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.retrieveN
	m.retrieveN++
	m.RetrieveIDs = append(m.RetrieveIDs, jobID)
	if i < len(m.PollErrs) && m.PollErrs[i] != nil {
		return nil, m.PollErrs[i]
	}
	if len(m.Jobs) == 0 {
		return &Job{ID: jobID, Status: JobCompleted, Content: m.Content, Usage: m.Usage}, nil
	}
	if i >= len(m.Jobs) {
		i = len(m.Jobs) - 1
	}
	job := m.Jobs[i]
	if job.ID == "" {
		job.ID = jobID
	}
	return &job, nil
}

func (m *MockProvider) ListModels(_ context.Context) ([]string, error) {
	if m.ModelsErr != nil {
		return nil, m.ModelsErr
	}
	if m.Models == nil {
		return nil, fmt.Errorf("no models scripted")
	}
	return m.Models, nil
}

// Calls returns how many times each method ran.
func (m *MockProvider) Calls() (complete, submit, retrieve int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completeN, m.submitN, m.retrieveN
}

// RequestHistory returns a copy of every request received.
func (m *MockProvider) RequestHistory() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.Requests))
	copy(out, m.Requests)
	return out
}
