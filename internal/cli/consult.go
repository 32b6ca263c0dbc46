package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanmeadows/consultant/internal/config"
	"github.com/alanmeadows/consultant/internal/consult"
	"github.com/alanmeadows/consultant/internal/session"
	"github.com/spf13/cobra"
)

type consultOptions struct {
	prompt          string
	files           []string
	slug            string
	model           string
	baseURL         string
	apiKey          string
	reasoningEffort string
	promptFile      string
	output          string
	timeout         time.Duration
	noWait          bool
}

var consultFlags consultOptions

var consultCmd = &cobra.Command{
	Use:   "consult",
	Short: "Send a prompt and files to an LLM and wait for the response",
	Long: `Build a prompt from -p and any attached files, check it fits the model's
context window, start a background session and wait for it to finish.

A --prompt-file may supply the prompt as markdown. Its YAML frontmatter can set
slug, model, reasoning_effort and files; command-line flags win.`,
	Example: `  consultant consult -p "Review this code for bugs" -f src/main.go -s code-review
  consultant consult --prompt-file review.md -m openai/gpt-5-pro --output review-report.md
  consultant consult -p "Explain the design" -f a.go -f b.go -s design --no-wait`,
	Args: cobra.NoArgs,
	RunE: runConsult,
}

func init() {
	f := consultCmd.Flags()
	f.StringVarP(&consultFlags.prompt, "prompt", "p", "", "Analysis prompt")
	f.StringArrayVarP(&consultFlags.files, "file", "f", nil, "File to attach (repeatable)")
	f.StringVarP(&consultFlags.slug, "slug", "s", "", "Session name used to reattach later")
	f.StringVarP(&consultFlags.model, "model", "m", "", "Model to use (default from config)")
	f.StringVar(&consultFlags.baseURL, "base-url", "", "Base URL of an OpenAI-compatible endpoint")
	f.StringVar(&consultFlags.apiKey, "api-key", "", "API key (default from environment)")
	f.StringVar(&consultFlags.reasoningEffort, "reasoning-effort", "", "Reasoning effort: low, medium or high")
	f.StringVar(&consultFlags.promptFile, "prompt-file", "", "Markdown prompt file with optional frontmatter")
	f.StringVar(&consultFlags.output, "output", "", "Also write the response as a markdown report")
	f.DurationVar(&consultFlags.timeout, "timeout", 0, "How long to wait for the response (default from config)")
	f.BoolVar(&consultFlags.noWait, "no-wait", false, "Start the session and exit without waiting")
}

// consultRequest merges flags, the prompt file and config, in that order of
// precedence. APIKey carries only an explicit --api-key so the credential
// check still looks at the model's own environment variable.
func consultRequest(cfg *config.Config) (consult.Request, error) {
	req := consult.Request{
		Prompt:          consultFlags.prompt,
		Files:           consultFlags.files,
		Slug:            consultFlags.slug,
		Model:           consultFlags.model,
		BaseURL:         strings.TrimSpace(consultFlags.baseURL),
		ReasoningEffort: consultFlags.reasoningEffort,
	}
	if consultFlags.promptFile != "" {
		if err := req.ApplyPromptFile(consultFlags.promptFile); err != nil {
			return req, err
		}
	}
	if req.Model == "" {
		req.Model = cfg.Model
	}
	if req.ReasoningEffort == "" {
		req.ReasoningEffort = cfg.ReasoningEffort
	}
	if req.BaseURL == "" {
		req.BaseURL = cfg.BaseURL
	}
	req.APIKey = strings.TrimSpace(consultFlags.apiKey)
	return req, nil
}

func runConsult(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	req, err := consultRequest(appConfig)
	if err != nil {
		return err
	}
	if consultFlags.baseURL == "" && req.BaseURL != "" {
		fmt.Fprintf(out, "Using base URL: %s\n", req.BaseURL)
	}

	sessions := newSessions(appConfig, config.ResolveAPIKey(req.APIKey))
	svc := consult.NewService(sessions, newCatalog(appConfig), appConfig.ContextReserveRatio)

	prepared, err := svc.Prepare(req)
	if err != nil {
		return err
	}
	consult.WriteBudget(out, prepared.Budget, len(prepared.Files))

	id, err := svc.Start(ctx, prepared)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Session created: %s\n", id)
	fmt.Fprintf(out, "Reattach via: consultant session %s\n", req.Slug)
	if consultFlags.noWait {
		return nil
	}
	fmt.Fprintln(out, "Waiting for completion...")

	result, err := svc.Wait(ctx, id, consultFlags.timeout)
	if errors.Is(err, session.ErrWaitTimeout) {
		return fmt.Errorf("session %s did not complete in time; it is still running, check it with: consultant session %s", id, req.Slug)
	}
	if err != nil {
		return err
	}

	if result.Status != session.StatusCompleted {
		fmt.Fprintf(out, "\nSession ended with status: %s\n", result.Status)
		return fmt.Errorf("session %s failed: %s", id, result.Error)
	}

	consult.WriteResult(out, result)
	if consultFlags.output != "" {
		if err := consult.WriteReport(consultFlags.output, result); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(out, "Report written to %s\n", consultFlags.output)
	}
	return nil
}
