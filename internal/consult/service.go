package consult

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alanmeadows/consultant/internal/llm"
	"github.com/alanmeadows/consultant/internal/session"
)

// ErrEnvironment means the credentials a model needs are not available.
var ErrEnvironment = errors.New("missing API credentials")

// EnvironmentError carries the variables that would satisfy the check.
type EnvironmentError struct {
	Model  string
	Status llm.EnvStatus
}

func (e *EnvironmentError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s for model %s\n\nMissing environment variables:\n", ErrEnvironment, e.Model)
	for _, k := range e.Status.MissingKeys {
		fmt.Fprintf(&b, "  - %s\n", k)
	}
	b.WriteString("\nSet them with:\n")
	for _, k := range e.Status.MissingKeys {
		fmt.Fprintf(&b, "  export %s=your-api-key\n", k)
	}
	b.WriteString("\nor pass --api-key, or point --base-url at a proxy that holds the keys")
	return b.String()
}

func (e *EnvironmentError) Unwrap() error { return ErrEnvironment }

// Sessions is the part of the session manager a consultation needs.
type Sessions interface {
	CreateSession(ctx context.Context, p session.CreateParams) (string, error)
	Wait(ctx context.Context, id string, timeout time.Duration) (*session.Metadata, error)
}

// Service validates consultations and hands them to the session manager.
type Service struct {
	sessions Sessions
	catalog  *llm.Catalog
	reserve  float64
}

// NewService creates a Service. reserve is the share of the context window
// kept free for the response.
func NewService(sessions Sessions, catalog *llm.Catalog, reserve float64) *Service {
	if catalog == nil {
		catalog = llm.NewCatalog(nil, nil)
	}
	return &Service{sessions: sessions, catalog: catalog, reserve: reserve}
}

// Prepared is a validated consultation ready to dispatch.
type Prepared struct {
	Request    Request
	FullPrompt string
	Files      []Attachment
	Budget     Budget
}

// Prepare validates req, reads its attachments and checks the result fits
// the model's context window. Nothing is written to disk.
func (s *Service) Prepare(req Request) (*Prepared, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// A proxy holds provider keys itself.
	if req.BaseURL == "" {
		if status := llm.ValidateEnvironment(req.Model, req.APIKey); !status.OK() {
			return nil, &EnvironmentError{Model: req.Model, Status: status}
		}
	}

	files, err := LoadAttachments(req.Files)
	if err != nil {
		return nil, err
	}
	full, err := BuildPrompt(req.Prompt, files)
	if err != nil {
		return nil, err
	}

	window, err := s.catalog.ContextWindow(req.Model)
	if err != nil {
		return nil, fmt.Errorf("checking context size: %w", err)
	}
	budget, err := CheckContext(s.catalog.CountTokens(full, req.Model), window, s.reserve)
	if err != nil {
		return nil, err
	}
	slog.Debug("context budget", "model", req.Model, "tokens", budget.Tokens, "max", budget.Max, "files", len(files))

	return &Prepared{Request: req, FullPrompt: full, Files: files, Budget: budget}, nil
}

// Start creates the session for p and returns its id without waiting.
func (s *Service) Start(ctx context.Context, p *Prepared) (string, error) {
	return s.sessions.CreateSession(ctx, session.CreateParams{
		Slug:            p.Request.Slug,
		Prompt:          p.FullPrompt,
		Model:           p.Request.Model,
		BaseURL:         p.Request.BaseURL,
		ReasoningEffort: p.Request.ReasoningEffort,
	})
}

// Wait blocks until session id finishes or timeout elapses.
func (s *Service) Wait(ctx context.Context, id string, timeout time.Duration) (*session.Metadata, error) {
	return s.sessions.Wait(ctx, id, timeout)
}
