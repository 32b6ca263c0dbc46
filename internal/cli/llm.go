package cli

import (
	"path/filepath"

	"github.com/alanmeadows/consultant/internal/completion"
	"github.com/alanmeadows/consultant/internal/config"
	"github.com/alanmeadows/consultant/internal/consult"
	"github.com/alanmeadows/consultant/internal/llm"
	"github.com/alanmeadows/consultant/internal/session"
)

// newCatalog layers the configured context windows and pricing over the
// builtin model tables.
func newCatalog(cfg *config.Config) *llm.Catalog {
	var pricing map[string]llm.Price
	if len(cfg.Pricing) > 0 {
		pricing = make(map[string]llm.Price, len(cfg.Pricing))
		for model, p := range cfg.Pricing {
			pricing[model] = llm.Price{InputPerMillion: p.InputPerMillion, OutputPerMillion: p.OutputPerMillion}
		}
	}
	return llm.NewCatalog(cfg.ContextWindows, pricing)
}

func newSettings(cfg *config.Config) completion.Settings {
	s := completion.Settings{
		MaxRetries:         cfg.Retry.MaxRetries,
		RetryBase:          cfg.Retry.ParseInitialDelay(),
		RetryCap:           cfg.Retry.ParseMaxDelay(),
		PollBase:           cfg.Poll.ParseInitialDelay(),
		PollCap:            cfg.Poll.ParseMaxDelay(),
		PollTimeout:        cfg.Poll.ParseTimeout(),
		BackgroundPrefixes: cfg.BackgroundPrefixes,
	}
	if s.MaxRetries <= 0 {
		s.MaxRetries = completion.DefaultSettings().MaxRetries
	}
	return s
}

// newManager wires a session manager whose workers are this binary run as
// "consultant worker <id>". apiKey is handed to workers and used for the
// provider they build.
func newManager(cfg *config.Config, apiKey string) *session.Manager {
	root := cfg.SessionsPath()
	return session.NewManager(session.ManagerConfig{
		Store: session.NewStore(root),
		Dispatcher: &session.ProcessDispatcher{
			Args:         workerArgs(),
			APIKey:       apiKey,
			SessionsRoot: root,
		},
		NewProvider: func(m *session.Metadata) (completion.Client, error) {
			return llm.NewOpenAIProvider(llm.OpenAIConfig{BaseURL: m.BaseURL, APIKey: apiKey}), nil
		},
		Catalog:      newCatalog(cfg),
		Settings:     newSettings(cfg),
		PollInterval: cfg.Session.ParsePollInterval(),
		WaitTimeout:  cfg.Session.ParseWaitTimeout(),
	})
}

// newSessions is swapped out in tests.
var newSessions = func(cfg *config.Config, apiKey string) consult.Sessions {
	return newManager(cfg, apiKey)
}

// workerArgs is the worker command line minus the session id. The worker
// loads the same --config file and logs at the same level as its creator.
func workerArgs() []string {
	args := []string{"worker"}
	if configPath != "" {
		path := configPath
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		args = append(args, "--config", path)
	}
	if verbose {
		args = append(args, "--verbose")
	}
	return args
}
