package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alanmeadows/consultant/internal/config"
	"github.com/alanmeadows/consultant/internal/logging"
	"github.com/alanmeadows/consultant/internal/session"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:    "worker <id>",
	Short:  "Run a session (started by consult)",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, "worker")

		apiKey := os.Getenv(session.WorkerAPIKeyEnv)
		if apiKey == "" {
			apiKey = config.ResolveAPIKey("")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		id := args[0]
		slog.Info("worker started", "id", id, "pid", os.Getpid())
		return newManager(appConfig, apiKey).Execute(ctx, id)
	},
}
