package gh

import "context"

// Client defines the four capabilities the orchestrator needs from GitHub.
// The rest of the application never depends on gh invocation syntax.
type Client interface {
	// ListRepositories returns all repositories owned by an organization
	// or user account.
	ListRepositories(ctx context.Context, owner string) ([]Repo, error)

	// ItemExists reports whether a secret or variable with the given name
	// is already present on the repository.
	ItemExists(ctx context.Context, repo Repo, kind ItemKind, name string) (bool, error)

	// SetItem creates or updates a secret or variable.
	SetItem(ctx context.Context, repo Repo, kind ItemKind, name, value string) error

	// DeleteItem removes a secret or variable. Deleting an absent item is
	// a successful no-op.
	DeleteItem(ctx context.Context, repo Repo, kind ItemKind, name string) error
}
