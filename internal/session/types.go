// Package session persists consultation sessions on disk and runs them in
// detached worker processes.
package session

import (
	"errors"
	"time"

	"github.com/alanmeadows/consultant/internal/llm"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusRunning    Status = "running"
	StatusCallingLLM Status = "calling_llm"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

func (s Status) rank() int {
	switch s {
	case StatusRunning:
		return 0
	case StatusCallingLLM:
		return 1
	case StatusCompleted, StatusError:
		return 2
	}
	return -1
}

// canTransition reports whether a session may move from s to next.
// Re-asserting the current state is allowed; moving backwards or between
// terminal states is not.
func (s Status) canTransition(next Status) bool {
	if next.rank() < 0 {
		return false
	}
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	return next.rank() > s.rank()
}

// File names inside a session directory.
const (
	MetadataFile = "metadata.json"
	PromptFile   = "prompt.txt"
	OutputFile   = "output.txt"
	ErrorFile    = "error.txt"
	PIDFile      = "pid"
	WorkerLog    = "worker.log"
)

const (
	previewLength  = 200
	maxErrorLength = 500
)

var (
	// ErrNotFound means no session matches the given id or slug.
	ErrNotFound = errors.New("session not found")
	// ErrInvalidSlug means the slug cannot be used as a directory name.
	ErrInvalidSlug = errors.New("invalid slug")
	// ErrInvalidTransition means a status update would move a session backwards.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrWaitTimeout means the session did not finish within the wait bound.
	ErrWaitTimeout = errors.New("timed out waiting for session")
)

// Metadata is the persisted record of a session.
type Metadata struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Status          Status     `json:"status"`
	Model           string     `json:"model"`
	BaseURL         string     `json:"base_url,omitempty"`
	ReasoningEffort string     `json:"reasoning_effort,omitempty"`
	PromptPreview   string     `json:"prompt_preview"`
	Strategy        string     `json:"strategy,omitempty"`
	Resumable       bool       `json:"resumable"`
	PID             int        `json:"pid,omitempty"`
	Usage           *llm.Usage `json:"usage,omitempty"`
	Cost            *llm.Cost  `json:"cost_info,omitempty"`
	OutputLength    int        `json:"output_length,omitempty"`
	Error           string     `json:"error,omitempty"`
	ErrorKind       string     `json:"error_kind,omitempty"`

	// Attached when read, never persisted in metadata.json.
	Output       string `json:"output,omitempty"`
	ErrorDetails string `json:"error_details,omitempty"`
}

// CreateParams describes a new session.
type CreateParams struct {
	Slug            string
	Prompt          string
	Model           string
	BaseURL         string
	ReasoningEffort string
}

// Update is a partial metadata update. Zero-valued fields are left alone.
type Update struct {
	Status    Status
	Output    *string
	Error     string
	ErrorKind string
	Usage     *llm.Usage
	Cost      *llm.Cost
	Strategy  string
	Resumable *bool
	PID       int
}
