package gh

import (
	"fmt"
	"strings"

	appErrors "fleetvars/internal/errors"
)

// ItemKind distinguishes Actions secrets from Actions variables.
// The value doubles as the gh subcommand name ("secret", "variable").
type ItemKind string

// Supported item kinds
const (
	KindSecret   ItemKind = "secret"
	KindVariable ItemKind = "variable"
)

// Label returns the capitalized display name for the kind
func (k ItemKind) Label() string {
	switch k {
	case KindSecret:
		return "Secret"
	case KindVariable:
		return "Variable"
	default:
		return string(k)
	}
}

// Repo identifies a repository by owner and name
type Repo struct {
	Owner string
	Name  string
}

// String returns the canonical "owner/name" form used by gh --repo flags
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepo parses "owner/name" or a bare "name" that gets defaultOwner.
func ParseRepo(s, defaultOwner string) (Repo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Repo{}, appErrors.EmptyFieldError("repository")
	}

	if !strings.Contains(s, "/") {
		if defaultOwner == "" {
			return Repo{}, appErrors.FormatError("repository", s, "owner/name when no owner is configured")
		}
		return Repo{Owner: defaultOwner, Name: s}, nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, appErrors.FormatError("repository", s, "owner/name")
	}
	return Repo{Owner: parts[0], Name: parts[1]}, nil
}

// repoListEntry mirrors one element of `gh repo list --json name,owner` output
type repoListEntry struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// itemListEntry mirrors one element of `gh secret|variable list --json name` output
type itemListEntry struct {
	Name string `json:"name"`
}

// CommandError provides detailed error information from gh command execution
type CommandError struct {
	Command string
	Args    []string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return strings.TrimSpace(e.Stderr)
	}
	return fmt.Sprintf("%s command failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
