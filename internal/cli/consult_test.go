package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanmeadows/consultant/internal/config"
)

func withConsultFlags(t *testing.T) {
	t.Helper()
	prev := consultFlags
	t.Cleanup(func() { consultFlags = prev })
}

func TestConsultRequestPrecedence(t *testing.T) {
	withConsultFlags(t)
	t.Setenv("LITELLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	path := filepath.Join(t.TempDir(), "prompt.md")
	require.NoError(t, os.WriteFile(path, []byte("---\nslug: from-file\nmodel: file-model\n---\nFile prompt\n"), 0644))

	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://proxy:4000"

	consultFlags.promptFile = path
	consultFlags.slug = "from-flag"
	req, err := consultRequest(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "File prompt", req.Prompt)
	assert.Equal(t, "from-flag", req.Slug)
	assert.Equal(t, "file-model", req.Model)
	assert.Equal(t, "high", req.ReasoningEffort)
	assert.Equal(t, "http://proxy:4000", req.BaseURL)
	assert.Empty(t, req.APIKey, "environment keys are resolved for the worker, not the request")
}

func TestConsultRequestDefaultsFromConfig(t *testing.T) {
	withConsultFlags(t)
	consultFlags.prompt = "p"
	consultFlags.apiKey = "explicit"
	consultFlags.baseURL = "  http://flag:4000  "

	cfg := config.DefaultConfig()
	req, err := consultRequest(&cfg)
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-pro", req.Model)
	assert.Equal(t, "http://flag:4000", req.BaseURL)
	assert.Equal(t, "explicit", req.APIKey)
}

func TestNewSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Retry.MaxRetries = 0
	cfg.Poll.Timeout = "5m"

	s := newSettings(&cfg)
	assert.Equal(t, 3, s.MaxRetries)
	assert.Equal(t, 5*time.Minute, s.PollTimeout)
	assert.Equal(t, 2*time.Second, s.RetryBase)
	assert.Equal(t, []string{"openai/", "azure/"}, s.BackgroundPrefixes)
}

func TestNewCatalogUsesConfiguredPricing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ContextWindows = map[string]int{"test-model": 1000}
	cfg.Pricing = map[string]config.PriceConfig{"test-model": {InputPerMillion: 1, OutputPerMillion: 2}}

	c := newCatalog(&cfg)
	n, err := c.ContextWindow("test-model")
	require.NoError(t, err)
	assert.Equal(t, 1000, n)
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "short", shorten("short", 10))
	assert.Equal(t, "abcdefg...", shorten("abcdefghijklmnop", 10))
}
