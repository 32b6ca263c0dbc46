package llm

import (
	"os"
	"strings"
)

// EnvStatus reports which credential variables a model needs and which are set.
type EnvStatus struct {
	KeysInEnvironment []string `json:"keys_in_environment"`
	MissingKeys       []string `json:"missing_keys"`
}

// OK reports whether nothing required is missing.
func (s EnvStatus) OK() bool {
	return len(s.MissingKeys) == 0
}

// requiredKey names the environment variable the provider behind model reads.
func requiredKey(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "anthropic/") || strings.Contains(m, "claude"):
		return "ANTHROPIC_API_KEY"
	case strings.HasPrefix(m, "gemini/") || strings.Contains(m, "gemini"):
		return "GEMINI_API_KEY"
	case strings.HasPrefix(m, "azure/"):
		return "AZURE_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// ValidateEnvironment checks that credentials for model are available. An
// explicit apiKey satisfies the requirement regardless of the environment.
func ValidateEnvironment(model, apiKey string) EnvStatus {
	key := requiredKey(model)
	var status EnvStatus
	if strings.TrimSpace(os.Getenv(key)) != "" {
		status.KeysInEnvironment = append(status.KeysInEnvironment, key)
	}
	if strings.TrimSpace(apiKey) == "" && len(status.KeysInEnvironment) == 0 {
		status.MissingKeys = append(status.MissingKeys, key)
	}
	return status
}
