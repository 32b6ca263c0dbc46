package completion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/alanmeadows/consultant/internal/llm"
	"github.com/alanmeadows/consultant/internal/store"
)

// BackgroundJob submits the request as a provider-side background job,
// records the job id in the session directory, and polls until the job
// reaches a terminal state. A later Execute on the same directory resumes
// polling the recorded job instead of submitting again.
type BackgroundJob struct {
	client   llm.BackgroundCompleter
	settings Settings

	now func() time.Time
}

// NewBackgroundJob creates a BackgroundJob strategy.
func NewBackgroundJob(client llm.BackgroundCompleter, s Settings) *BackgroundJob {
	return &BackgroundJob{client: client, settings: s, now: time.Now}
}

func (b *BackgroundJob) Name() string    { return "background_job" }
func (b *BackgroundJob) Resumable() bool { return true }

// Execute submits (or resumes) the job and waits for its result.
func (b *BackgroundJob) Execute(ctx context.Context, req llm.Request, dir string) (*Result, error) {
	var idPath string
	if dir != "" {
		idPath = filepath.Join(dir, ResponseIDFile)
	}

	jobID := ""
	if idPath != "" && store.Exists(idPath) {
		id, err := store.ReadText(idPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", ResponseIDFile, err)
		}
		jobID = id
	}

	if jobID != "" {
		slog.Info("resuming background job", "response_id", jobID)
	} else {
		id, err := b.client.Submit(ctx, req)
		if err != nil {
			return nil, err
		}
		jobID = id
		if idPath != "" {
			if err := store.WriteFile(idPath, []byte(jobID)); err != nil {
				return nil, fmt.Errorf("persisting response id %s: %w", jobID, err)
			}
		}
		slog.Info("submitted background job", "response_id", jobID, "model", req.Model)
	}

	return b.poll(ctx, jobID)
}

func (b *BackgroundJob) poll(ctx context.Context, jobID string) (*Result, error) {
	timeout := b.settings.PollTimeout
	deadline := b.now().Add(timeout)
	maxNetFailures := b.settings.MaxRetries
	if maxNetFailures < 1 {
		maxNetFailures = 1
	}

	pollAttempt := 0
	netFailures := 0
	for {
		var delay time.Duration

		job, err := b.client.Retrieve(ctx, jobID)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, fmt.Errorf("polling response %s: %w", jobID, ctx.Err())
		case err != nil && llm.IsNetwork(err):
			netFailures++
			if netFailures >= maxNetFailures {
				return nil, fmt.Errorf("%w: polling response %s failed %d times: %w", ErrMaxRetries, jobID, netFailures, err)
			}
			delay = Backoff(netFailures-1, b.settings.RetryBase, b.settings.RetryCap)
			slog.Warn("poll failed, retrying", "response_id", jobID, "attempt", netFailures, "delay", delay, "error", err)
		case err != nil:
			return nil, fmt.Errorf("polling response %s: %w", jobID, err)
		default:
			netFailures = 0
			result, done, err := interpret(jobID, job)
			if err != nil {
				return nil, err
			}
			if done {
				return result, nil
			}
			delay = Backoff(pollAttempt, b.settings.PollBase, b.settings.PollCap)
			pollAttempt++
			slog.Debug("background job pending", "response_id", jobID, "status", job.Status, "delay", delay)
		}

		remaining := deadline.Sub(b.now())
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: response %s did not finish within %s", ErrPollTimeout, jobID, timeout)
		}
		if delay > remaining {
			delay = remaining
		}
		if err := sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("polling response %s: %w", jobID, err)
		}
	}
}

// interpret maps a job snapshot to a result, a terminal error, or "keep
// polling". A missing status with content present counts as completed.
func interpret(jobID string, job *llm.Job) (*Result, bool, error) {
	switch job.Status {
	case llm.JobCompleted:
		if strings.TrimSpace(job.Content) == "" {
			return nil, true, fmt.Errorf("%w: response %s completed without text", ErrEmptyResponse, jobID)
		}
		return &Result{Content: job.Content, Usage: job.Usage, ResponseID: jobID}, true, nil
	case llm.JobFailed, llm.JobCancelled, llm.JobIncomplete:
		detail := job.Error
		if detail == "" {
			detail = "no error details"
		}
		return nil, true, fmt.Errorf("%w: response %s %s: %s", ErrJobFailed, jobID, job.Status, detail)
	case "":
		if strings.TrimSpace(job.Content) != "" {
			return &Result{Content: job.Content, Usage: job.Usage, ResponseID: jobID}, true, nil
		}
	}
	return nil, false, nil
}
