package completion

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanmeadows/consultant/internal/llm"
	"github.com/alanmeadows/consultant/internal/llm/llmmock"
)

func newSync(t *testing.T) (*SyncRetry, *llmmock.MockCompleter, *int) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := llmmock.NewMockCompleter(ctrl)
	s := NewSyncRetry(client, fastSettings())
	waits := 0
	s.onBackoff = func(int, time.Duration) { waits++ }
	return s, client, &waits
}

func TestSyncRetrySuccess(t *testing.T) {
	s, client, waits := newSync(t)
	req := llm.Request{Model: "test-model", Prompt: "review"}

	client.EXPECT().Complete(gomock.Any(), req).
		Return(&llm.Response{ID: "r1", Content: "LGTM", Usage: &llm.Usage{InputTokens: 10, OutputTokens: 2}}, nil).
		Times(1)

	res, err := s.Execute(t.Context(), req, "")
	require.NoError(t, err)
	assert.Equal(t, "LGTM", res.Content)
	assert.Equal(t, int64(10), res.Usage.InputTokens)
	assert.Equal(t, 0, *waits)
}

func TestSyncRetryRecoversFromTransient(t *testing.T) {
	s, client, waits := newSync(t)

	gomock.InOrder(
		client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil, errors.New("429 rate limit exceeded")),
		client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Content: "LGTM"}, nil),
	)

	res, err := s.Execute(t.Context(), llm.Request{Model: "test-model"}, "")
	require.NoError(t, err)
	assert.Equal(t, "LGTM", res.Content)
	assert.Equal(t, 1, *waits)
}

func TestSyncRetryExhaustsAttempts(t *testing.T) {
	s, client, waits := newSync(t)
	unavailable := errors.New("503 Service Unavailable")

	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil, unavailable).Times(3)

	_, err := s.Execute(t.Context(), llm.Request{Model: "test-model"}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, unavailable)
	assert.Contains(t, err.Error(), "3 attempts")
	assert.Equal(t, 2, *waits)
}

func TestSyncRetryDoesNotRetryPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid api key", errors.New("Incorrect API key provided")},
		{"context length", errors.New("maximum context length exceeded")},
		{"model not found", errors.New("model not found")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, client, waits := newSync(t)
			client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil, tt.err).Times(1)

			_, err := s.Execute(t.Context(), llm.Request{Model: "test-model"}, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.NotErrorIs(t, err, ErrMaxRetries)
			assert.Equal(t, 0, *waits)
		})
	}
}

func TestSyncRetryEmptyResponse(t *testing.T) {
	s, client, _ := newSync(t)
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Content: "  "}, nil).Times(1)

	_, err := s.Execute(t.Context(), llm.Request{Model: "test-model"}, "")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestSyncRetryWritesNothing(t *testing.T) {
	s, client, _ := newSync(t)
	dir := t.TempDir()
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Content: "LGTM"}, nil)

	_, err := s.Execute(t.Context(), llm.Request{Model: "test-model"}, dir)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, ResponseIDFile))
}
