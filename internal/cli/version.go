package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"fleetvars/internal/output"
)

// Build information set via ldflags
//
//nolint:gochecknoglobals // build variables are set via ldflags during compilation
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			w := output.NewStandardWriter()
			w.Info(fmt.Sprintf("fleetvars %s", version))
			w.Info(fmt.Sprintf("Commit:     %s", commit))
			w.Info(fmt.Sprintf("Build Date: %s", buildDate))
			w.Info(fmt.Sprintf("Go Version: %s", runtime.Version()))
			w.Info(fmt.Sprintf("Platform:   %s/%s", runtime.GOOS, runtime.GOARCH))
		},
	}
}
