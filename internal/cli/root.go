// Package cli implements the command-line interface for fleetvars.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fleetvars/internal/output"
)

// GlobalFlags holds flags shared by every subcommand
type GlobalFlags struct {
	LogLevel  string
	LogFormat string
}

// NewRootCmd creates an isolated root command instance. Commands are
// built per-call rather than as package globals so tests never share
// flag state.
func NewRootCmd() *cobra.Command {
	flags := &GlobalFlags{
		LogLevel:  "info",
		LogFormat: "text",
	}

	cmd := &cobra.Command{
		Use:   "fleetvars",
		Short: "Bulk-manage GitHub Actions secrets and variables across repositories",
		Long: `fleetvars applies declarative secret and variable changes (set, delete)
across a fleet of GitHub repositories through the authenticated gh CLI.

Desired state comes from KEY=VALUE set-files, deletion lists, and either an
explicit repository list or discovery of every repository under an owner.
Changes are confirmed before anything runs, fan out over a worker pool, and
can be stopped mid-run by typing 'q'; repositories already started always
finish.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	w := output.NewStandardWriter()

	go func() {
		<-sigChan
		w.Warn("Interrupt received, canceling...")
		cancel()
	}()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				w.Error(exitErr.Err.Error())
			}
			return exitErr.Code
		}
		w.Error(err.Error())
		return ExitFatal
	}
	return ExitSuccess
}
