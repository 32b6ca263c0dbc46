package completion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/alanmeadows/consultant/internal/llm"
)

// SyncRetry issues a blocking completion and retries transient failures
// with exponential backoff. It keeps no durable state.
type SyncRetry struct {
	client   llm.Completer
	settings Settings

	// onBackoff observes each wait between attempts.
	onBackoff func(attempt int, d time.Duration)
}

// NewSyncRetry creates a SyncRetry strategy.
func NewSyncRetry(client llm.Completer, s Settings) *SyncRetry {
	return &SyncRetry{client: client, settings: s}
}

func (s *SyncRetry) Name() string    { return "sync_retry" }
func (s *SyncRetry) Resumable() bool { return false }

// Execute runs req, retrying network, rate-limit and overload errors up to
// MaxRetries attempts. Authentication, context-length and not-found errors
// fail on the first attempt.
func (s *SyncRetry) Execute(ctx context.Context, req llm.Request, _ string) (*Result, error) {
	maxAttempts := s.settings.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	var result *Result
	err := retry.Do(
		func() error {
			attempts++
			resp, err := s.client.Complete(ctx, req)
			if err != nil {
				return err
			}
			if strings.TrimSpace(resp.Content) == "" {
				return ErrEmptyResponse
			}
			result = &Result{Content: resp.Content, Usage: resp.Usage, ResponseID: resp.ID}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxAttempts)),
		retry.LastErrorOnly(true),
		retry.RetryIf(llm.IsTransient),
		retry.DelayType(func(_ uint, _ error, _ *retry.Config) time.Duration {
			d := Backoff(attempts-1, s.settings.RetryBase, s.settings.RetryCap)
			if s.onBackoff != nil {
				s.onBackoff(attempts, d)
			}
			return d
		}),
		retry.OnRetry(func(_ uint, err error) {
			slog.Warn("completion attempt failed", "model", req.Model, "attempt", attempts, "error", err)
		}),
	)
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("completion interrupted after %d attempts: %w", attempts, ctxErr)
	}
	if attempts >= maxAttempts && llm.IsTransient(err) {
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempts, err)
	}
	return nil, err
}
