package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBest(t *testing.T) {
	assert.Equal(t, FallbackModel, SelectBest(nil))
	assert.Equal(t, "gpt-5-pro", SelectBest([]string{"gpt-3.5-turbo", "gpt-4o", "gpt-5-pro"}))
	assert.Equal(t, "claude-3-opus", SelectBest([]string{"claude-3-haiku", "claude-3-opus"}))
	// ties keep the first entry
	assert.Equal(t, "a", SelectBest([]string{"a", "b"}))
}

func TestScoreModel(t *testing.T) {
	assert.Greater(t, ScoreModel("gpt-5"), ScoreModel("gpt-4"))
	assert.Greater(t, ScoreModel("gpt-4-turbo"), ScoreModel("gpt-4"))
	assert.Greater(t, ScoreModel("claude-3-5-sonnet"), ScoreModel("claude-3-sonnet"))
}

func TestAvailableModelsFallback(t *testing.T) {
	m := NewMockProvider("", nil)
	m.ModelsErr = errors.New("connection refused")
	assert.Equal(t, KnownModels, AvailableModels(t.Context(), m))

	m.ModelsErr = nil
	m.Models = []string{"only-model"}
	assert.Equal(t, []string{"only-model"}, AvailableModels(t.Context(), m))

	assert.Equal(t, KnownModels, AvailableModels(t.Context(), nil))
}
