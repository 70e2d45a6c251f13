package gh

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	appErrors "fleetvars/internal/errors"
	"fleetvars/internal/jsonutil"
)

// Common errors
var (
	ErrNotAuthenticated = errors.New("gh CLI not authenticated")
	ErrGHNotFound       = errors.New("gh CLI not found in PATH")
	ErrGHVersionTooOld  = errors.New("gh CLI version too old")
	ErrOwnerNotFound    = errors.New("owner not found")
)

// minGHVersion is the oldest gh release carrying `gh variable` and the
// --json flag on secret/variable list.
var minGHVersion = semver.MustParse("2.31.0")

// Options tunes the gh-backed client.
type Options struct {
	// RepoLimit caps how many repositories discovery returns per owner.
	RepoLimit int

	// RequestsPerSecond throttles gh invocations so wide fleets do not
	// trip GitHub's secondary rate limits.
	RequestsPerSecond float64

	// SkipChecks disables the PATH, version, and auth preflight. Used by
	// tests that inject a fake runner.
	SkipChecks bool
}

const (
	defaultRepoLimit  = 1000
	defaultRate       = 8.0
	defaultRateBurst  = 4
	versionFieldCount = 3
)

// ghClient implements the Client interface using the gh CLI
type ghClient struct {
	runner    CommandRunner
	limiter   *rate.Limiter
	logger    *logrus.Logger
	repoLimit int
}

// NewClient creates a GitHub client backed by the gh CLI. It verifies that
// gh is installed, recent enough, and authenticated before returning.
func NewClient(ctx context.Context, logger *logrus.Logger, opts Options) (Client, error) {
	return newClientWithRunner(ctx, NewCommandRunner(logger), logger, opts)
}

func newClientWithRunner(ctx context.Context, runner CommandRunner, logger *logrus.Logger, opts Options) (Client, error) {
	if opts.RepoLimit <= 0 {
		opts.RepoLimit = defaultRepoLimit
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRate
	}

	client := &ghClient{
		runner:    runner,
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), defaultRateBurst),
		logger:    logger,
		repoLimit: opts.RepoLimit,
	}

	if opts.SkipChecks {
		return client, nil
	}

	if _, err := exec.LookPath("gh"); err != nil {
		return nil, ErrGHNotFound
	}

	versionOut, err := runner.Run(ctx, "gh", "--version")
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "check gh version")
	}
	installed, err := parseGHVersion(string(versionOut))
	if err != nil {
		return nil, err
	}
	if installed.LessThan(minGHVersion) {
		return nil, fmt.Errorf("%w: have %s, need >= %s", ErrGHVersionTooOld, installed, minGHVersion)
	}

	if _, err := runner.Run(ctx, "gh", "auth", "status"); err != nil {
		return nil, fmt.Errorf("%w: gh auth status failed", ErrNotAuthenticated)
	}

	return client, nil
}

// parseGHVersion extracts the semver from `gh --version` output, whose
// first line looks like "gh version 2.40.1 (2024-01-08)".
func parseGHVersion(out string) (*semver.Version, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	fields := strings.Fields(line)
	if len(fields) < versionFieldCount {
		return nil, appErrors.FormatError("gh version output", line, "gh version X.Y.Z")
	}

	v, err := semver.NewVersion(fields[2])
	if err != nil {
		return nil, appErrors.FormatError("gh version", fields[2], "semantic version")
	}
	return v, nil
}

// ListRepositories returns all repositories for an organization or user,
// sorted by full name.
func (g *ghClient) ListRepositories(ctx context.Context, owner string) ([]Repo, error) {
	if owner == "" {
		return nil, appErrors.EmptyFieldError("owner")
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	output, err := g.runner.Run(ctx, "gh", "repo", "list", owner,
		"--json", "name,owner",
		"-L", fmt.Sprintf("%d", g.repoLimit))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrOwnerNotFound, owner)
		}
		return nil, appErrors.WrapWithContext(err, "list repositories")
	}

	entries, err := jsonutil.UnmarshalJSON[[]repoListEntry](output)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "parse repository list")
	}

	repos := make([]Repo, 0, len(entries))
	for _, e := range entries {
		repos = append(repos, Repo{Owner: e.Owner.Login, Name: e.Name})
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].String() < repos[j].String() })

	return repos, nil
}

// ItemExists reports whether the named secret or variable is present on
// the repository.
func (g *ghClient) ItemExists(ctx context.Context, repo Repo, kind ItemKind, name string) (bool, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return false, err
	}

	output, err := g.runner.Run(ctx, "gh", string(kind), "list",
		"--repo", repo.String(),
		"--json", "name")
	if err != nil {
		return false, appErrors.WrapWithContext(err, fmt.Sprintf("list %ss for %s", kind, repo))
	}

	entries, err := jsonutil.UnmarshalJSON[[]itemListEntry](output)
	if err != nil {
		return false, appErrors.WrapWithContext(err, fmt.Sprintf("parse %s list", kind))
	}

	for _, e := range entries {
		if e.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// SetItem creates or updates a secret or variable. The value is passed on
// stdin so it never appears in the process table or logs.
func (g *ghClient) SetItem(ctx context.Context, repo Repo, kind ItemKind, name, value string) error {
	if value == "" {
		return appErrors.EmptyFieldError(fmt.Sprintf("%s %s value", kind, name))
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := g.runner.RunWithInput(ctx, []byte(value), "gh", string(kind), "set", name,
		"--repo", repo.String())
	if err != nil {
		return appErrors.WrapWithContext(err, fmt.Sprintf("set %s %s on %s", kind, name, repo))
	}

	if g.logger != nil {
		g.logger.WithFields(logrus.Fields{
			"repo": repo.String(),
			"kind": string(kind),
			"name": name,
		}).Debug("Item set")
	}
	return nil
}

// DeleteItem removes a secret or variable. A 404 from GitHub means the
// item was already absent, which is treated as success.
func (g *ghClient) DeleteItem(ctx context.Context, repo Repo, kind ItemKind, name string) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := g.runner.Run(ctx, "gh", string(kind), "delete", name,
		"--repo", repo.String())
	if err != nil {
		if isNotFoundError(err) {
			if g.logger != nil {
				g.logger.WithFields(logrus.Fields{
					"repo": repo.String(),
					"kind": string(kind),
					"name": name,
				}).Debug("Item already absent, delete is a no-op")
			}
			return nil
		}
		return appErrors.WrapWithContext(err, fmt.Sprintf("delete %s %s from %s", kind, name, repo))
	}
	return nil
}

// isNotFoundError checks whether a command failure was an HTTP 404
func isNotFoundError(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	stderr := strings.ToLower(cmdErr.Stderr)
	return strings.Contains(stderr, "http 404") || strings.Contains(stderr, "not found")
}
