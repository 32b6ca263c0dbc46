package consult

import (
	"fmt"
	"io"

	"github.com/alanmeadows/consultant/internal/prompts"
	"github.com/alanmeadows/consultant/internal/session"
	"github.com/alanmeadows/consultant/internal/store"
)

// WriteBudget prints the token summary shown before dispatch.
func WriteBudget(w io.Writer, b Budget, files int) {
	fmt.Fprintf(w, "\nToken Usage:\n")
	fmt.Fprintf(w, "- Input: %d tokens (%d files)\n", b.Tokens, files)
	fmt.Fprintf(w, "- Limit: %d tokens\n", b.Max)
	fmt.Fprintf(w, "- Available: %d tokens\n\n", b.Available)
	if b.Warn {
		fmt.Fprintf(w, "WARNING: Using %d%% of context\n", b.Percent())
		fmt.Fprintf(w, "   Consider reducing input size for better response quality\n\n")
	}
}

// WriteResult prints a completed session's response and metadata blocks.
func WriteResult(w io.Writer, m *session.Metadata) {
	fmt.Fprintf(w, "\n%s\nRESPONSE:\n%s\n", separator, separator)
	fmt.Fprintln(w, m.Output)
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n%s\nMETADATA:\n%s\n", separator, separator)
	fmt.Fprintf(w, "model: %s\n", m.Model)
	if m.ReasoningEffort != "" {
		fmt.Fprintf(w, "reasoning_effort: %s\n", m.ReasoningEffort)
	}
	if u := m.Usage; u != nil {
		fmt.Fprintf(w, "input_tokens: %d\n", u.InputTokens)
		fmt.Fprintf(w, "output_tokens: %d\n", u.OutputTokens)
		fmt.Fprintf(w, "total_tokens: %d\n", u.Total())
	}
	if c := m.Cost; c != nil {
		fmt.Fprintf(w, "input_cost_usd: %.6f\n", c.InputCost)
		fmt.Fprintf(w, "output_cost_usd: %.6f\n", c.OutputCost)
		fmt.Fprintf(w, "total_cost_usd: %.6f\n", c.TotalCost)
	}
	fmt.Fprintln(w, separator)
}

// WriteReport saves a completed session as markdown with its metadata in
// the frontmatter.
func WriteReport(path string, m *session.Metadata) error {
	body, err := prompts.Execute("report.md", m)
	if err != nil {
		return err
	}

	fm := map[string]any{
		"session_id": m.ID,
		"slug":       m.Slug,
		"model":      m.Model,
		"status":     string(m.Status),
		"created_at": store.FormatTime(m.CreatedAt),
	}
	if m.CompletedAt != nil {
		fm["completed_at"] = store.FormatTime(*m.CompletedAt)
	}
	if m.ReasoningEffort != "" {
		fm["reasoning_effort"] = m.ReasoningEffort
	}
	if u := m.Usage; u != nil {
		fm["input_tokens"] = u.InputTokens
		fm["output_tokens"] = u.OutputTokens
		fm["total_tokens"] = u.Total()
	}
	if c := m.Cost; c != nil {
		fm["total_cost_usd"] = c.TotalCost
	}

	return store.WriteDocument(path, &store.Document{Frontmatter: fm, Body: body})
}
