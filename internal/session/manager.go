package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alanmeadows/consultant/internal/completion"
	"github.com/alanmeadows/consultant/internal/llm"
	"github.com/alanmeadows/consultant/internal/store"
)

// ProviderFactory builds a provider client for a session inside the worker.
type ProviderFactory func(m *Metadata) (completion.Client, error)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Store       *Store
	Dispatcher  Dispatcher
	NewProvider ProviderFactory
	Catalog     *llm.Catalog
	Settings    completion.Settings

	PollInterval time.Duration
	WaitTimeout  time.Duration
}

// Manager creates sessions, runs them in workers and waits on them.
type Manager struct {
	store       *Store
	dispatcher  Dispatcher
	newProvider ProviderFactory
	catalog     *llm.Catalog
	settings    completion.Settings

	pollInterval time.Duration
	waitTimeout  time.Duration
}

// NewManager creates a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		store:        cfg.Store,
		dispatcher:   cfg.Dispatcher,
		newProvider:  cfg.NewProvider,
		catalog:      cfg.Catalog,
		settings:     cfg.Settings,
		pollInterval: cfg.PollInterval,
		waitTimeout:  cfg.WaitTimeout,
	}
	if m.catalog == nil {
		m.catalog = llm.NewCatalog(nil, nil)
	}
	if m.pollInterval <= 0 {
		m.pollInterval = 2 * time.Second
	}
	if m.waitTimeout <= 0 {
		m.waitTimeout = time.Hour
	}
	return m
}

// Store returns the underlying session store.
func (m *Manager) Store() *Store { return m.store }

// CreateSession persists a new session and starts its worker. It returns
// as soon as the worker is launched. If the worker cannot be started the
// session is marked as errored and the id is still returned.
func (m *Manager) CreateSession(ctx context.Context, p CreateParams) (string, error) {
	id, err := m.store.Create(p)
	if err != nil {
		return "", err
	}
	dir := m.store.Dir(id)

	pid, err := m.dispatcher.Dispatch(ctx, id, dir)
	if err != nil {
		if uerr := m.store.UpdateStatus(id, Update{
			Status:    StatusError,
			Error:     fmt.Sprintf("dispatching worker: %v", err),
			ErrorKind: "dispatch",
		}); uerr != nil {
			slog.Warn("could not record dispatch failure", "id", id, "error", uerr)
		}
		return id, fmt.Errorf("dispatching session %s: %w", id, err)
	}

	if err := store.WriteFile(filepath.Join(dir, PIDFile), []byte(strconv.Itoa(pid))); err != nil {
		slog.Warn("could not write pid file", "id", id, "error", err)
	}

	slog.Info("session dispatched", "id", id, "pid", pid)
	return id, nil
}

// Execute is the worker body. It runs the session's prompt through the
// strategy chosen for its model and records the outcome. Every failure,
// including a panic, ends as an error status on the session.
func (m *Manager) Execute(ctx context.Context, id string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panic: %v", r)
			m.fail(id, err)
		}
	}()

	meta, err := m.store.Load(id)
	if err != nil {
		return err
	}
	if meta.Status.Terminal() {
		slog.Info("session already finished", "id", id, "status", meta.Status)
		return nil
	}

	prompt, err := m.store.Prompt(id)
	if err != nil {
		m.fail(id, err)
		return err
	}

	client, err := m.newProvider(meta)
	if err != nil {
		err = fmt.Errorf("creating provider: %w", err)
		m.fail(id, err)
		return err
	}

	strategy := completion.ForModel(meta.Model, client, m.settings)
	resumable := strategy.Resumable()
	if err := m.store.UpdateStatus(id, Update{
		Status:    StatusCallingLLM,
		Strategy:  strategy.Name(),
		Resumable: &resumable,
		PID:       os.Getpid(),
	}); err != nil {
		return err
	}

	slog.Info("calling model", "id", id, "model", meta.Model, "strategy", strategy.Name())
	res, err := strategy.Execute(ctx, llm.Request{
		Model:           meta.Model,
		Prompt:          prompt,
		ReasoningEffort: meta.ReasoningEffort,
	}, m.store.Dir(id))
	if err != nil {
		err = llm.Classify(err)
		m.fail(id, err)
		return err
	}

	cost := m.catalog.Cost(meta.Model, res.Usage)
	if err := m.store.UpdateStatus(id, Update{
		Status: StatusCompleted,
		Output: &res.Content,
		Usage:  res.Usage,
		Cost:   cost,
	}); err != nil {
		return err
	}

	slog.Info("session completed", "id", id, "output_length", len(res.Content))
	return nil
}

func (m *Manager) fail(id string, err error) {
	slog.Error("session failed", "id", id, "error", err)
	if uerr := m.store.UpdateStatus(id, Update{
		Status:    StatusError,
		Error:     err.Error(),
		ErrorKind: completion.Kind(err),
	}); uerr != nil {
		slog.Error("could not record session failure", "id", id, "error", uerr)
	}
}

// Wait blocks until session id is terminal or timeout elapses. A zero
// timeout uses the configured default. Timing out leaves the worker running.
func (m *Manager) Wait(ctx context.Context, id string, timeout time.Duration) (*Metadata, error) {
	if timeout <= 0 {
		timeout = m.waitTimeout
	}
	return m.store.WaitForCompletion(ctx, id, timeout, m.pollInterval)
}
