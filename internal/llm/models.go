package llm

import (
	"context"
	"log/slog"
	"strings"
)

// KnownModels is returned when the provider cannot be asked.
var KnownModels = []string{
	"gpt-5-pro",
	"gpt-5",
	"gpt-4.1",
	"gpt-4o",
	"o3",
	"claude-opus-4",
	"claude-sonnet-4",
	"gemini-2.5-pro",
}

// FallbackModel is chosen when there is nothing to score.
const FallbackModel = "gpt-4o"

// AvailableModels asks lister for its models and falls back to KnownModels
// when the call fails or returns nothing.
func AvailableModels(ctx context.Context, lister ModelLister) []string {
	if lister != nil {
		ids, err := lister.ListModels(ctx)
		if err == nil && len(ids) > 0 {
			return ids
		}
		if err != nil {
			slog.Warn("could not list models, using known models", "error", err)
		}
	}
	out := make([]string, len(KnownModels))
	copy(out, KnownModels)
	return out
}

// ScoreModel ranks a model id by name; higher is more capable.
func ScoreModel(id string) float64 {
	m := strings.ToLower(id)
	var score float64

	switch {
	case strings.Contains(m, "gpt-5") || strings.Contains(m, "o1") || strings.Contains(m, "o3"):
		score += 50
	case strings.Contains(m, "gpt-4"):
		score += 40
	case strings.Contains(m, "gpt-3.5"):
		score += 30
	}

	for _, w := range []string{"pro", "turbo", "large", "xl", "ultra"} {
		if strings.Contains(m, w) {
			score += 20
			break
		}
	}

	switch {
	case strings.Contains(m, "128k") || strings.Contains(m, "200k"):
		score += 15
	case strings.Contains(m, "32k"):
		score += 12
	case strings.Contains(m, "16k"):
		score += 10
	}

	if strings.Contains(m, "claude") {
		switch {
		case strings.Contains(m, "opus"):
			score += 50
		case strings.Contains(m, "sonnet"):
			score += 45
			if strings.Contains(m, "3.5") || strings.Contains(m, "3-5") {
				score += 3
			}
		case strings.Contains(m, "haiku"):
			score += 35
		}
	}

	if strings.Contains(m, "gemini") {
		switch {
		case strings.Contains(m, "2.0") || strings.Contains(m, "2-0"):
			score += 45
		case strings.Contains(m, "pro"):
			score += 40
		}
	}

	return score
}

// SelectBest picks the highest-scoring model. Ties keep the earlier entry.
func SelectBest(ids []string) string {
	if len(ids) == 0 {
		return FallbackModel
	}
	best := ids[0]
	bestScore := ScoreModel(best)
	for _, id := range ids[1:] {
		if s := ScoreModel(id); s > bestScore {
			best, bestScore = id, s
		}
	}
	return best
}
