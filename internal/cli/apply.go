package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fleetvars/internal/apply"
	"fleetvars/internal/config"
	"fleetvars/internal/gh"
	"fleetvars/internal/logging"
	"fleetvars/internal/output"
	"fleetvars/internal/plan"
)

// Flag validation errors
var (
	errManifestExclusive = errors.New("--manifest cannot be combined with --secrets-file, --vars-file, --delete-secrets-file, --delete-vars-file, or --repos-file")
	errNoInputs          = errors.New("nothing to do: provide a manifest or at least one input file")
	errAborted           = errors.New("aborted by user, nothing was changed")
)

// applyFlags holds every flag of the apply subcommand
type applyFlags struct {
	Owner           string
	SecretsFile     string
	VarsFile        string
	DeleteSecrets   string
	DeleteVariables string
	ReposFile       string
	Manifest        string
	Workers         int
	SleepSeconds    int
	Force           bool
	AssumeYes       bool
	RepoLimit       int
}

func newApplyCmd(global *GlobalFlags) *cobra.Command {
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply secret and variable changes to the target repositories",
		Long: `Apply reads the desired state from input files (or a YAML manifest),
resolves the target repositories (explicit list or owner discovery), shows the
full plan for confirmation, and then executes it.

Set-files contain KEY=VALUE lines, delete-files one name per line, repo-files
one repository per line. While the run is in flight, type 'q' and press Enter
to stop: repositories already started will finish, new ones will not start.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd.Context(), global, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Owner, "owner", "o", "", "GitHub organization or user owning the target repositories")
	cmd.Flags().StringVar(&flags.SecretsFile, "secrets-file", "", "KEY=VALUE file of secrets to set")
	cmd.Flags().StringVar(&flags.VarsFile, "vars-file", "", "KEY=VALUE file of variables to set")
	cmd.Flags().StringVar(&flags.DeleteSecrets, "delete-secrets-file", "", "File listing secret names to delete")
	cmd.Flags().StringVar(&flags.DeleteVariables, "delete-vars-file", "", "File listing variable names to delete")
	cmd.Flags().StringVar(&flags.ReposFile, "repos-file", "", "File listing target repositories (otherwise all repos of --owner)")
	cmd.Flags().StringVar(&flags.Manifest, "manifest", "", "YAML manifest carrying all inputs in one file")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 1, "Number of concurrent workers")
	cmd.Flags().IntVar(&flags.SleepSeconds, "sleep", 0, "Seconds to pause after each repository (sequential mode only)")
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "Overwrite existing secrets/variables instead of skipping them")
	cmd.Flags().BoolVarP(&flags.AssumeYes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&flags.RepoLimit, "repo-limit", 0, "Maximum repositories returned by owner discovery")

	return cmd
}

func runApply(ctx context.Context, global *GlobalFlags, flags *applyFlags) error {
	logger, err := logging.Setup(global.LogLevel, global.LogFormat, os.Stderr)
	if err != nil {
		return NewExitError(ExitFatal, err)
	}
	w := output.NewStandardWriter()

	opts := apply.Options{
		Workers:   flags.Workers,
		Force:     flags.Force,
		Delay:     time.Duration(flags.SleepSeconds) * time.Second,
		AssumeYes: flags.AssumeYes,
	}
	if err := opts.Validate(); err != nil {
		return NewExitError(ExitFatal, err)
	}

	inputs, err := buildInputs(flags, logger)
	if err != nil {
		return NewExitError(ExitFatal, err)
	}

	// Register every secret value before the first collaborator call so
	// no log line can leak one.
	redactor := logging.NewRedactor()
	for _, item := range inputs.Secrets {
		redactor.Add(item.Value)
	}
	logger.AddHook(redactor)

	client, err := gh.NewClient(ctx, logger, gh.Options{RepoLimit: flags.RepoLimit})
	if err != nil {
		return NewExitError(ExitFatal, err)
	}

	p, err := plan.Build(ctx, inputs, client)
	if err != nil {
		return NewExitError(ExitFatal, err)
	}

	approved, err := apply.Confirm(p, opts, os.Stdin, w)
	if err != nil {
		return NewExitError(ExitFatal, err)
	}
	if !approved {
		w.Warn(errAborted.Error())
		return NewExitError(ExitAborted, nil)
	}

	canceller := apply.NewCanceller()
	if isatty.IsTerminal(os.Stdin.Fd()) {
		canceller.StartWatch(os.Stdin, w, logger)
		w.Info("Type 'q' and press Enter at any time to stop after the current repositories")
	}

	tracker := apply.NewTracker(w, logger)
	executor, err := apply.NewExecutor(client, opts, canceller, tracker, logger)
	if err != nil {
		return NewExitError(ExitFatal, err)
	}

	logger.WithFields(logrus.Fields{
		"repos":   p.Repos(),
		"workers": opts.Workers,
		"force":   opts.Force,
	}).Info("Starting run")

	summary := executor.Run(ctx, p)
	summary.PrintSummary(w)

	switch {
	case summary.CancelledEarly:
		return NewExitError(ExitCancelled, nil)
	case summary.Failed > 0:
		return NewExitError(ExitPartialFailure, nil)
	default:
		return nil
	}
}

// buildInputs assembles plan inputs from either the manifest or the
// individual input-file flags.
func buildInputs(flags *applyFlags, logger *logrus.Logger) (plan.Inputs, error) {
	if flags.Manifest != "" {
		if flags.SecretsFile != "" || flags.VarsFile != "" || flags.DeleteSecrets != "" ||
			flags.DeleteVariables != "" || flags.ReposFile != "" {
			return plan.Inputs{}, errManifestExclusive
		}
		m, err := config.LoadManifest(flags.Manifest)
		if err != nil {
			return plan.Inputs{}, err
		}
		return m.Inputs(flags.Owner, logger)
	}

	if flags.SecretsFile == "" && flags.VarsFile == "" &&
		flags.DeleteSecrets == "" && flags.DeleteVariables == "" {
		return plan.Inputs{}, errNoInputs
	}

	in := plan.Inputs{Owner: flags.Owner}
	var err error

	if flags.SecretsFile != "" {
		if in.Secrets, err = config.LoadItemsFile(flags.SecretsFile, gh.KindSecret, logger); err != nil {
			return in, err
		}
	}
	if flags.VarsFile != "" {
		if in.Variables, err = config.LoadItemsFile(flags.VarsFile, gh.KindVariable, logger); err != nil {
			return in, err
		}
	}
	if flags.DeleteSecrets != "" {
		if in.DeleteSecrets, err = config.LoadNameListFile(flags.DeleteSecrets, gh.KindSecret); err != nil {
			return in, err
		}
	}
	if flags.DeleteVariables != "" {
		if in.DeleteVariables, err = config.LoadNameListFile(flags.DeleteVariables, gh.KindVariable); err != nil {
			return in, err
		}
	}
	if flags.ReposFile != "" {
		if in.Repos, err = config.LoadRepoListFile(flags.ReposFile, flags.Owner); err != nil {
			return in, err
		}
	}

	return in, nil
}
