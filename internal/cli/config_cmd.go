package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alanmeadows/consultant/internal/config"
	"github.com/alanmeadows/consultant/internal/store"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/sjson"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage consultant configuration",
	Long:  `Show and modify consultant configuration values.`,
}

var configJSONFlag bool

func init() {
	configShowCmd.Flags().BoolVar(&configJSONFlag, "json", false, "Output raw JSON without formatting")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show merged configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if configJSONFlag {
			data, err = json.Marshal(appConfig)
		} else {
			data, err = json.MarshalIndent(appConfig, "", "  ")
		}
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

// parseConfigValue types a raw command-line value: bool, then integer,
// then float, else string.
func parseConfigValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// setConfigValue sets a dotted key in the JSONC file at path, creating the
// file if needed. Comments are not preserved.
func setConfigValue(path, key string, value any) error {
	existing := []byte("{}")
	if data, err := os.ReadFile(path); err == nil {
		existing = jsonc.ToJSON(data)
	}

	updated, err := sjson.SetBytes(existing, key, value)
	if err != nil {
		return fmt.Errorf("setting key %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return store.WriteFile(path, updated)
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a configuration value using a dotted key path.

The value is written to .consultant/consultant.jsonc in the repository root.
The file is created if it does not exist.

Note: JSONC comments are not preserved on write.

Examples:
  consultant config set model "openai/gpt-5-pro"
  consultant config set retry.max_retries 5
  consultant config set poll.timeout 2h`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := parseConfigValue(args[1])

		path := config.RepoConfigPath()
		if path == "" {
			return fmt.Errorf("not in a git repository")
		}
		if err := setConfigValue(path, key, value); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
		return nil
	},
}
