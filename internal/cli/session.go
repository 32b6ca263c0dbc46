package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alanmeadows/consultant/internal/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session <slug>",
	Short: "Show the latest session for a slug",
	Long: `Print the metadata of the most recent session whose id is <slug> or
<slug>-<timestamp>, including its output or error once it has finished.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := session.NewStore(appConfig.SessionsPath())
		m, err := st.GetStatus(args[0])
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}
