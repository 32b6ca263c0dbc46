// Package completion runs a single prompt against a provider, either as a
// blocking call with retries or as a resumable background job.
package completion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alanmeadows/consultant/internal/llm"
)

// ResponseIDFile holds the background job id inside a session directory.
const ResponseIDFile = "response_id.txt"

var (
	// ErrMaxRetries means every allowed attempt failed with a retryable error.
	ErrMaxRetries = errors.New("max retries exceeded")
	// ErrJobFailed means the provider reported the background job as failed.
	ErrJobFailed = errors.New("background job failed")
	// ErrPollTimeout means the job did not finish within the poll timeout.
	ErrPollTimeout = errors.New("background job poll timed out")
	// ErrEmptyResponse means the provider answered with no text.
	ErrEmptyResponse = errors.New("empty response from provider")
)

// Result is the outcome of a successful completion.
type Result struct {
	Content    string
	Usage      *llm.Usage
	ResponseID string
}

// Strategy executes a request to completion.
type Strategy interface {
	Name() string
	// Resumable reports whether Execute can pick up a job started by an
	// earlier process from state kept in the session directory.
	Resumable() bool
	// Execute runs req. dir is the session directory used for durable
	// state; it may be empty, in which case nothing is persisted.
	Execute(ctx context.Context, req llm.Request, dir string) (*Result, error)
}

// Client is the provider surface the strategies need.
type Client interface {
	llm.Completer
	llm.BackgroundCompleter
}

// Settings tunes retry and polling behaviour.
type Settings struct {
	MaxRetries         int
	RetryBase          time.Duration
	RetryCap           time.Duration
	PollBase           time.Duration
	PollCap            time.Duration
	PollTimeout        time.Duration
	BackgroundPrefixes []string
}

// DefaultSettings returns the stock retry and polling configuration.
func DefaultSettings() Settings {
	return Settings{
		MaxRetries:         3,
		RetryBase:          2 * time.Second,
		RetryCap:           60 * time.Second,
		PollBase:           2 * time.Second,
		PollCap:            10 * time.Second,
		PollTimeout:        time.Hour,
		BackgroundPrefixes: []string{"openai/", "azure/"},
	}
}

// SupportsBackground reports whether model lives in a namespace whose
// provider offers background jobs. Matching is a case-insensitive prefix test.
func SupportsBackground(model string, prefixes []string) bool {
	m := strings.ToLower(model)
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(m, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// ForModel picks the strategy for model.
func ForModel(model string, client Client, s Settings) Strategy {
	if SupportsBackground(model, s.BackgroundPrefixes) {
		return NewBackgroundJob(client, s)
	}
	return NewSyncRetry(client, s)
}

// Kind names the class of a strategy or provider error.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMaxRetries):
		return "max_retries"
	case errors.Is(err, ErrJobFailed):
		return "job_failed"
	case errors.Is(err, ErrPollTimeout):
		return "poll_timeout"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	}
	return llm.Kind(err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
