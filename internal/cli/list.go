package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alanmeadows/consultant/internal/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var listJSONFlag bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := session.NewStore(appConfig.SessionsPath()).List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if listJSONFlag {
			if sessions == nil {
				sessions = []session.Metadata{}
			}
			data, err := json.MarshalIndent(sessions, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling sessions: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		writeSessionTable(out, sessions)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSONFlag, "json", false, "Output as JSON")
}

var statusColors = map[session.Status]lipgloss.Color{
	session.StatusRunning:    lipgloss.Color("33"),
	session.StatusCallingLLM: lipgloss.Color("214"),
	session.StatusCompleted:  lipgloss.Color("42"),
	session.StatusError:      lipgloss.Color("196"),
}

func writeSessionTable(w io.Writer, sessions []session.Metadata) {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers("ID", "Status", "Model", "Created", "Error").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 && row >= 0 && row < len(sessions) {
				if c, ok := statusColors[sessions[row].Status]; ok {
					return cellStyle.Foreground(c)
				}
			}
			return cellStyle
		})

	for _, s := range sessions {
		t = t.Row(s.ID, string(s.Status), s.Model, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), shorten(s.Error, 60))
	}

	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%d session(s)\n", len(sessions))
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
