package logging

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Setup initializes the global slog logger using charmbracelet/log as the backend.
// If the output is a terminal, uses colored text format. Otherwise, uses JSON format,
// which is what a detached worker writes into its session's worker.log.
func Setup(verbose bool, prefix string) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, verbose, isTerminal(), prefix)))
}

// NewHandler builds the charmbracelet/log handler used by Setup.
func NewHandler(w io.Writer, verbose, tty bool, prefix string) *charmlog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})

	if verbose {
		handler.SetLevel(charmlog.DebugLevel)
	} else {
		handler.SetLevel(charmlog.InfoLevel)
	}

	if !tty {
		handler.SetFormatter(charmlog.JSONFormatter)
	}
	return handler
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
