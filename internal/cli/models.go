package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alanmeadows/consultant/internal/config"
	"github.com/alanmeadows/consultant/internal/llm"
	"github.com/spf13/cobra"
)

var (
	modelsBaseURL string
	modelsAPIKey  string
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available from the endpoint",
	Long: `Query the endpoint's model listing and print the available models as JSON,
followed by the model that scores best for deep analysis. Falls back to a
builtin list when the endpoint cannot be reached.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL := strings.TrimSpace(modelsBaseURL)
		if baseURL == "" {
			baseURL = appConfig.BaseURL
			if baseURL != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Using base URL: %s\n", baseURL)
			}
		}

		provider := llm.NewOpenAIProvider(llm.OpenAIConfig{
			BaseURL: baseURL,
			APIKey:  config.ResolveAPIKey(modelsAPIKey),
		})
		models := llm.AvailableModels(cmd.Context(), provider)

		data, err := json.MarshalIndent(models, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling models: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, string(data))
		if best := llm.SelectBest(models); best != "" {
			fmt.Fprintf(out, "Best model: %s\n", best)
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().StringVar(&modelsBaseURL, "base-url", "", "Base URL of an OpenAI-compatible endpoint")
	modelsCmd.Flags().StringVar(&modelsAPIKey, "api-key", "", "API key (default from environment)")
}
