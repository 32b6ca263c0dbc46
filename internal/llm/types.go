package llm

import "context"

//go:generate mockgen -destination=llmmock/llmmock.go -package=llmmock github.com/alanmeadows/consultant/internal/llm Completer,BackgroundCompleter

// Usage reports token consumption for a completed request.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Total returns input plus output tokens.
func (u Usage) Total() int64 {
	return u.InputTokens + u.OutputTokens
}

// Request is a single-prompt completion request.
type Request struct {
	Model           string
	Prompt          string
	ReasoningEffort string
}

// Response is the result of a synchronous completion.
type Response struct {
	ID      string
	Content string
	Usage   *Usage
}

// JobStatus is the provider-reported state of a background job.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobIncomplete JobStatus = "incomplete"
	JobCancelled  JobStatus = "cancelled"
)

// Job is a snapshot of a background job retrieved by id.
type Job struct {
	ID      string
	Status  JobStatus
	Content string
	Usage   *Usage
	// Error carries the provider's failure detail when Status is failed.
	Error string
}

// Completer performs a blocking completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// BackgroundCompleter submits a job and retrieves it later by id.
type BackgroundCompleter interface {
	Submit(ctx context.Context, req Request) (string, error)
	Retrieve(ctx context.Context, jobID string) (*Job, error)
}

// ModelLister enumerates the models a provider serves.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Provider is everything the consultant needs from an LLM backend.
type Provider interface {
	Completer
	BackgroundCompleter
	ModelLister
}
