package plan

import (
	"context"
	"errors"
	"fmt"

	"fleetvars/internal/gh"
)

// Build errors
var (
	// ErrNoTargets indicates that no target repositories could be
	// resolved from either an explicit list or owner discovery.
	ErrNoTargets = errors.New("no target repositories resolved")

	// ErrNothingToDo indicates the inputs contain no operations at all.
	ErrNothingToDo = errors.New("no items to set or delete")

	// ErrDiscovery wraps failures of the repository listing capability.
	ErrDiscovery = errors.New("repository discovery failed")
)

// Inputs are the parsed desired-state mappings and target selection.
// Item slices preserve source-file order.
type Inputs struct {
	Secrets         []Item
	Variables       []Item
	DeleteSecrets   []Deletion
	DeleteVariables []Deletion

	// Repos is the explicit target list. When empty, all repositories
	// under Owner are discovered through the client.
	Repos []gh.Repo
	Owner string
}

// Build produces exactly one bundle per target repository. Upserts carry
// secrets before variables, each in source order; deletions likewise.
// Explicit repository lists win over discovery and are de-duplicated
// preserving first occurrence.
func Build(ctx context.Context, in Inputs, client gh.Client) (*Plan, error) {
	if len(in.Secrets)+len(in.Variables)+len(in.DeleteSecrets)+len(in.DeleteVariables) == 0 {
		return nil, ErrNothingToDo
	}

	repos := dedupeRepos(in.Repos)
	discovered := false

	if len(repos) == 0 {
		if in.Owner == "" {
			return nil, fmt.Errorf("%w: no repository list and no owner to discover from", ErrNoTargets)
		}
		found, err := client.ListRepositories(ctx, in.Owner)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDiscovery, err)
		}
		repos = found
		discovered = true
	}

	if len(repos) == 0 {
		return nil, fmt.Errorf("%w: owner %q has no repositories", ErrNoTargets, in.Owner)
	}

	upserts := make([]Item, 0, len(in.Secrets)+len(in.Variables))
	upserts = append(upserts, in.Secrets...)
	upserts = append(upserts, in.Variables...)

	deletions := make([]Deletion, 0, len(in.DeleteSecrets)+len(in.DeleteVariables))
	deletions = append(deletions, in.DeleteSecrets...)
	deletions = append(deletions, in.DeleteVariables...)

	bundles := make([]Bundle, 0, len(repos))
	for _, repo := range repos {
		bundles = append(bundles, Bundle{
			Repo:      repo,
			Upserts:   upserts,
			Deletions: deletions,
		})
	}

	return &Plan{Bundles: bundles, Discovered: discovered}, nil
}

// dedupeRepos removes duplicate repositories preserving first occurrence
func dedupeRepos(repos []gh.Repo) []gh.Repo {
	if len(repos) == 0 {
		return nil
	}
	seen := make(map[gh.Repo]struct{}, len(repos))
	out := make([]gh.Repo, 0, len(repos))
	for _, r := range repos {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
