package completion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanmeadows/consultant/internal/llm"
	"github.com/alanmeadows/consultant/internal/llm/llmmock"
)

func newBackground(t *testing.T, s Settings) (*BackgroundJob, *llmmock.MockBackgroundCompleter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := llmmock.NewMockBackgroundCompleter(ctrl)
	return NewBackgroundJob(client, s), client
}

func completedJob(content string) *llm.Job {
	return &llm.Job{ID: "resp_1", Status: llm.JobCompleted, Content: content, Usage: &llm.Usage{InputTokens: 10, OutputTokens: 2}}
}

func TestBackgroundJobSubmitPersistsBeforePolling(t *testing.T) {
	b, client := newBackground(t, fastSettings())
	dir := t.TempDir()
	idPath := filepath.Join(dir, ResponseIDFile)

	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("resp_1", nil).Times(1)
	gomock.InOrder(
		client.EXPECT().Retrieve(gomock.Any(), "resp_1").DoAndReturn(func(context.Context, string) (*llm.Job, error) {
			data, err := os.ReadFile(idPath)
			require.NoError(t, err)
			assert.Equal(t, "resp_1", string(data))
			return &llm.Job{ID: "resp_1", Status: llm.JobQueued}, nil
		}),
		client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(&llm.Job{ID: "resp_1", Status: llm.JobInProgress}, nil),
		client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(completedJob("LGTM"), nil),
	)

	res, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro", Prompt: "review"}, dir)
	require.NoError(t, err)
	assert.Equal(t, "LGTM", res.Content)
	assert.Equal(t, "resp_1", res.ResponseID)
	assert.Equal(t, int64(2), res.Usage.OutputTokens)
}

func TestBackgroundJobResumesWithoutResubmitting(t *testing.T) {
	b, client := newBackground(t, fastSettings())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ResponseIDFile), []byte("resp_existing\n"), 0644))

	// No Submit expectation: a call would fail the test.
	client.EXPECT().Retrieve(gomock.Any(), "resp_existing").Return(completedJob("LGTM"), nil).Times(1)

	res, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, dir)
	require.NoError(t, err)
	assert.Equal(t, "LGTM", res.Content)
}

func TestBackgroundJobRepeatedExecuteConverges(t *testing.T) {
	b, client := newBackground(t, fastSettings())
	dir := t.TempDir()

	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("resp_1", nil).Times(1)
	client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(completedJob("LGTM"), nil).Times(2)

	first, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, dir)
	require.NoError(t, err)
	second, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBackgroundJobFailed(t *testing.T) {
	for _, status := range []llm.JobStatus{llm.JobFailed, llm.JobCancelled, llm.JobIncomplete} {
		t.Run(string(status), func(t *testing.T) {
			b, client := newBackground(t, fastSettings())
			client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("resp_1", nil)
			client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(&llm.Job{Status: status, Error: "upstream exploded"}, nil)

			_, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, t.TempDir())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrJobFailed)
			assert.Contains(t, err.Error(), "upstream exploded")
		})
	}
}

func TestBackgroundJobCompletedWithoutText(t *testing.T) {
	b, client := newBackground(t, fastSettings())
	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("resp_1", nil)
	client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(completedJob(""), nil)

	_, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestBackgroundJobMissingStatusWithContent(t *testing.T) {
	b, client := newBackground(t, fastSettings())
	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("resp_1", nil)
	gomock.InOrder(
		client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(&llm.Job{ID: "resp_1"}, nil),
		client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(&llm.Job{ID: "resp_1", Content: "LGTM"}, nil),
	)

	res, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "LGTM", res.Content)
}

func TestBackgroundJobPollTimeout(t *testing.T) {
	s := fastSettings()
	s.PollTimeout = 30 * time.Millisecond
	b, client := newBackground(t, s)

	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("resp_slow", nil)
	client.EXPECT().Retrieve(gomock.Any(), "resp_slow").Return(&llm.Job{Status: llm.JobInProgress}, nil).MinTimes(1)

	start := time.Now()
	_, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.Contains(t, err.Error(), "resp_slow")
	assert.Contains(t, err.Error(), "30ms")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBackgroundJobRetriesNetworkErrors(t *testing.T) {
	b, client := newBackground(t, fastSettings())
	reset := errors.New("read: connection reset by peer")

	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("resp_1", nil)
	gomock.InOrder(
		client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(nil, reset),
		client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(nil, reset),
		client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(completedJob("LGTM"), nil),
	)

	res, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "LGTM", res.Content)
}

func TestBackgroundJobNetworkErrorsExhaust(t *testing.T) {
	b, client := newBackground(t, fastSettings())
	reset := errors.New("dial tcp: connection refused")

	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("resp_1", nil)
	client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(nil, reset).Times(3)

	_, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, t.TempDir())
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, reset)
}

func TestBackgroundJobOtherPollErrorsPropagate(t *testing.T) {
	b, client := newBackground(t, fastSettings())
	bad := errors.New("invalid response id")

	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("resp_1", nil)
	client.EXPECT().Retrieve(gomock.Any(), "resp_1").Return(nil, bad).Times(1)

	_, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, t.TempDir())
	assert.ErrorIs(t, err, bad)
	assert.NotErrorIs(t, err, ErrMaxRetries)
}

func TestBackgroundJobSubmitFailureWritesNoHandle(t *testing.T) {
	b, client := newBackground(t, fastSettings())
	dir := t.TempDir()
	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("", errors.New("Incorrect API key provided"))

	_, err := b.Execute(t.Context(), llm.Request{Model: "openai/gpt-5-pro"}, dir)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, ResponseIDFile))
}
