package llm

import (
	"fmt"
	"strings"
)

// Price is a per-million-token price in USD.
type Price struct {
	InputPerMillion  float64 `json:"input_per_million"`
	OutputPerMillion float64 `json:"output_per_million"`
}

// Cost is the computed price of a completed request.
type Cost struct {
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	InputCost    float64 `json:"input_cost"`
	OutputCost   float64 `json:"output_cost"`
	TotalCost    float64 `json:"total_cost"`
	Currency     string  `json:"currency"`
}

var builtinContextWindows = map[string]int{
	"gpt-5-pro":       400_000,
	"gpt-5":           400_000,
	"gpt-4.1":         1_047_576,
	"gpt-4o":          128_000,
	"gpt-4-turbo":     128_000,
	"gpt-4":           8_192,
	"gpt-3.5-turbo":   16_385,
	"o1":              200_000,
	"o3":              200_000,
	"o4-mini":         200_000,
	"claude-opus-4":   200_000,
	"claude-sonnet-4": 200_000,
	"claude-3-7":      200_000,
	"claude-3-5":      200_000,
	"gemini-2.5":      1_048_576,
	"gemini-2.0":      1_048_576,
}

var builtinPricing = map[string]Price{
	"gpt-5-pro":       {InputPerMillion: 15, OutputPerMillion: 120},
	"gpt-5-mini":      {InputPerMillion: 0.25, OutputPerMillion: 2},
	"gpt-5":           {InputPerMillion: 1.25, OutputPerMillion: 10},
	"gpt-4.1":         {InputPerMillion: 2, OutputPerMillion: 8},
	"gpt-4o-mini":     {InputPerMillion: 0.15, OutputPerMillion: 0.6},
	"gpt-4o":          {InputPerMillion: 2.5, OutputPerMillion: 10},
	"o3":              {InputPerMillion: 2, OutputPerMillion: 8},
	"o4-mini":         {InputPerMillion: 1.1, OutputPerMillion: 4.4},
	"claude-opus-4":   {InputPerMillion: 15, OutputPerMillion: 75},
	"claude-sonnet-4": {InputPerMillion: 3, OutputPerMillion: 15},
	"gemini-2.5-pro":  {InputPerMillion: 1.25, OutputPerMillion: 10},
}

// Catalog answers context-window and pricing questions about models.
// Configured entries take precedence over the builtin tables.
type Catalog struct {
	windows map[string]int
	pricing map[string]Price
}

// NewCatalog builds a catalog with the given overrides layered over the
// builtin tables. Either map may be nil.
func NewCatalog(windows map[string]int, pricing map[string]Price) *Catalog {
	c := &Catalog{
		windows: make(map[string]int, len(builtinContextWindows)+len(windows)),
		pricing: make(map[string]Price, len(builtinPricing)+len(pricing)),
	}
	for k, v := range builtinContextWindows {
		c.windows[k] = v
	}
	for k, v := range windows {
		c.windows[strings.ToLower(k)] = v
	}
	for k, v := range builtinPricing {
		c.pricing[k] = v
	}
	for k, v := range pricing {
		c.pricing[strings.ToLower(k)] = v
	}
	return c
}

// BareModel lowercases a model name and strips any provider namespace
// ("openai/gpt-5" -> "gpt-5").
func BareModel(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	if i := strings.LastIndex(m, "/"); i >= 0 {
		m = m[i+1:]
	}
	return m
}

// lookup resolves model against table: the full lowercased name, then the
// bare name, then the longest table key that prefixes the bare name.
func lookup[V any](table map[string]V, model string) (V, bool) {
	full := strings.ToLower(strings.TrimSpace(model))
	if v, ok := table[full]; ok {
		return v, true
	}
	bare := BareModel(model)
	if v, ok := table[bare]; ok {
		return v, true
	}
	best := ""
	for k := range table {
		if strings.HasPrefix(bare, k) && len(k) > len(best) {
			best = k
		}
	}
	if best == "" {
		var zero V
		return zero, false
	}
	return table[best], true
}

// ContextWindow returns the model's context window in tokens. An unknown
// model is an error, never a silent default.
func (c *Catalog) ContextWindow(model string) (int, error) {
	if n, ok := lookup(c.windows, model); ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: no context window known for %q", ErrUnknownModel, model)
}

// CountTokens estimates the token count of text. The estimate is one token
// per four characters, never less than one.
func (c *Catalog) CountTokens(text, _ string) int {
	n := len(text) / 4
	if n < 1 {
		return 1
	}
	return n
}

// Cost prices usage for model. It returns nil when usage is absent or the
// model has no known pricing.
func (c *Catalog) Cost(model string, usage *Usage) *Cost {
	if usage == nil {
		return nil
	}
	p, ok := lookup(c.pricing, model)
	if !ok {
		return nil
	}
	in := float64(usage.InputTokens) * p.InputPerMillion / 1_000_000
	out := float64(usage.OutputTokens) * p.OutputPerMillion / 1_000_000
	return &Cost{
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		InputCost:    in,
		OutputCost:   out,
		TotalCost:    in + out,
		Currency:     "USD",
	}
}
