package config

import "time"

// Config is the top-level consultant configuration.
type Config struct {
	Model               string  `json:"model"`
	BaseURL             string  `json:"base_url"`
	ReasoningEffort     string  `json:"reasoning_effort"`
	SessionsDir         string  `json:"sessions_dir"`
	ContextReserveRatio float64 `json:"context_reserve_ratio"`

	Retry   RetryConfig   `json:"retry"`
	Poll    PollConfig    `json:"poll"`
	Session SessionConfig `json:"session"`

	// BackgroundPrefixes lists model namespaces served by providers that
	// support background jobs.
	BackgroundPrefixes []string `json:"background_prefixes"`

	// ContextWindows and Pricing override the builtin model tables.
	ContextWindows map[string]int         `json:"context_windows"`
	Pricing        map[string]PriceConfig `json:"pricing"`
}

// RetryConfig controls retries of failed provider calls.
type RetryConfig struct {
	MaxRetries   int    `json:"max_retries"`
	InitialDelay string `json:"initial_delay"`
	MaxDelay     string `json:"max_delay"`
}

// ParseInitialDelay returns the first retry delay as a time.Duration.
func (r RetryConfig) ParseInitialDelay() time.Duration {
	return parseDuration(r.InitialDelay, 2*time.Second)
}

// ParseMaxDelay returns the retry delay cap as a time.Duration.
func (r RetryConfig) ParseMaxDelay() time.Duration {
	return parseDuration(r.MaxDelay, 60*time.Second)
}

// PollConfig controls polling of provider background jobs.
type PollConfig struct {
	InitialDelay string `json:"initial_delay"`
	MaxDelay     string `json:"max_delay"`
	Timeout      string `json:"timeout"`
}

func (p PollConfig) ParseInitialDelay() time.Duration {
	return parseDuration(p.InitialDelay, 2*time.Second)
}

func (p PollConfig) ParseMaxDelay() time.Duration {
	return parseDuration(p.MaxDelay, 10*time.Second)
}

func (p PollConfig) ParseTimeout() time.Duration {
	return parseDuration(p.Timeout, time.Hour)
}

// SessionConfig controls how the CLI waits on sessions.
type SessionConfig struct {
	PollInterval string `json:"poll_interval"`
	WaitTimeout  string `json:"wait_timeout"`
}

// ParsePollInterval returns the session status poll interval.
func (s SessionConfig) ParsePollInterval() time.Duration {
	return parseDuration(s.PollInterval, 2*time.Second)
}

// ParseWaitTimeout returns how long the CLI waits for a session.
func (s SessionConfig) ParseWaitTimeout() time.Duration {
	return parseDuration(s.WaitTimeout, time.Hour)
}

// PriceConfig is a per-million-token price in USD.
type PriceConfig struct {
	InputPerMillion  float64 `json:"input_per_million"`
	OutputPerMillion float64 `json:"output_per_million"`
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Model:               "gpt-5-pro",
		ReasoningEffort:     "high",
		SessionsDir:         "~/.consultant/sessions",
		ContextReserveRatio: 0.2,
		Retry: RetryConfig{
			MaxRetries:   3,
			InitialDelay: "2s",
			MaxDelay:     "60s",
		},
		Poll: PollConfig{
			InitialDelay: "2s",
			MaxDelay:     "10s",
			Timeout:      "1h",
		},
		Session: SessionConfig{
			PollInterval: "2s",
			WaitTimeout:  "1h",
		},
		BackgroundPrefixes: []string{"openai/", "azure/"},
		ContextWindows:     make(map[string]int),
		Pricing:            make(map[string]PriceConfig),
	}
}
