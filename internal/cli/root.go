package cli

import (
	"fmt"

	"github.com/alanmeadows/consultant/internal/config"
	"github.com/alanmeadows/consultant/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	appConfig  *config.Config

	rootCmd = &cobra.Command{
		Use:   "consultant",
		Short: "Consult powerful LLMs about code from the command line",
		Long: `Consultant sends a prompt plus attached files to an LLM and prints the response
with model, token and cost metadata.

Every consultation runs as a session in its own background worker, so a
long-running request survives the terminal that started it. Reattach with
"consultant session <slug>".

Environment:
  LITELLM_API_KEY      Primary API key (checked first)
  OPENAI_API_KEY       OpenAI API key (fallback)
  ANTHROPIC_API_KEY    Anthropic API key (fallback)
  OPENAI_BASE_URL      Default base URL for an OpenAI-compatible proxy`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Additional config file merged over the user and repo config")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, "")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg
		return nil
	}

	rootCmd.AddCommand(consultCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(workerCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
