// Package config parses desired-state input files into plan inputs.
//
// Three line-oriented formats are supported: KEY=VALUE set-files, bare
// identifier delete-files, and owner/repo target lists. A YAML manifest
// can carry all of them in one file. Blank lines and '#' comments are
// ignored everywhere.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	appErrors "fleetvars/internal/errors"
	"fleetvars/internal/gh"
	"fleetvars/internal/plan"
)

// Parse errors
var (
	// ErrMalformedLine indicates a line that fits neither KEY=VALUE nor
	// a bare identifier, depending on the file type.
	ErrMalformedLine = errors.New("malformed line")

	// ErrInvalidName indicates an item name GitHub would reject.
	ErrInvalidName = errors.New("invalid item name")
)

// itemNamePattern matches the names GitHub accepts for secrets and
// variables.
var itemNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseKeyValues reads KEY=VALUE lines into items of the given kind,
// preserving first-occurrence order. Duplicate keys take the last value
// seen (a warning is logged); this mirrors how a mapping file is usually
// meant and keeps re-running with appended lines predictable.
func ParseKeyValues(r io.Reader, kind gh.ItemKind, logger *logrus.Logger) ([]plan.Item, error) {
	var items []plan.Item
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if skippable(line) {
			continue
		}

		name, value, found := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("%w: line %d: %q is not KEY=VALUE", ErrMalformedLine, lineNo, line)
		}
		if err := validateItemName(name, kind, logger); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if at, ok := index[name]; ok {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"name": name,
					"kind": string(kind),
					"line": lineNo,
				}).Warn("Duplicate key, last value wins")
			}
			items[at].Value = value
			continue
		}

		index[name] = len(items)
		items = append(items, plan.Item{Name: name, Value: value, Kind: kind})
	}
	if err := scanner.Err(); err != nil {
		return nil, appErrors.WrapWithContext(err, "read set-file")
	}

	return items, nil
}

// ParseNameList reads one bare identifier per line into deletions of the
// given kind, preserving order and dropping duplicates.
func ParseNameList(r io.Reader, kind gh.ItemKind) ([]plan.Deletion, error) {
	var deletions []plan.Deletion
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if skippable(line) {
			continue
		}

		if !itemNamePattern.MatchString(line) {
			return nil, fmt.Errorf("%w: line %d: %q is not a bare identifier", ErrMalformedLine, lineNo, line)
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		deletions = append(deletions, plan.Deletion{Name: line, Kind: kind})
	}
	if err := scanner.Err(); err != nil {
		return nil, appErrors.WrapWithContext(err, "read delete-file")
	}

	return deletions, nil
}

// ParseRepoList reads one repository per line, either owner/name or a
// bare name completed with defaultOwner.
func ParseRepoList(r io.Reader, defaultOwner string) ([]gh.Repo, error) {
	var repos []gh.Repo

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if skippable(line) {
			continue
		}

		repo, err := gh.ParseRepo(line, defaultOwner)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		repos = append(repos, repo)
	}
	if err := scanner.Err(); err != nil {
		return nil, appErrors.WrapWithContext(err, "read repo-file")
	}

	return repos, nil
}

// LoadItemsFile parses a KEY=VALUE set-file from disk
func LoadItemsFile(path string, kind gh.ItemKind, logger *logrus.Logger) ([]plan.Item, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	items, err := ParseKeyValues(f, kind, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// LoadNameListFile parses a deletion-list file from disk
func LoadNameListFile(path string, kind gh.ItemKind) ([]plan.Deletion, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	deletions, err := ParseNameList(f, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return deletions, nil
}

// LoadRepoListFile parses a target-repository file from disk
func LoadRepoListFile(path, defaultOwner string) ([]gh.Repo, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	repos, err := ParseRepoList(f, defaultOwner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return repos, nil
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied input file path
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "open input file")
	}
	return f, nil
}

// validateItemName enforces GitHub's naming rules. Secrets starting with
// GITHUB_ are reserved by GitHub; warn but do not fail, since gh reports
// the authoritative error.
func validateItemName(name string, kind gh.ItemKind, logger *logrus.Logger) error {
	if !itemNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must match %s", ErrInvalidName, name, itemNamePattern)
	}
	if kind == gh.KindSecret && strings.HasPrefix(strings.ToUpper(name), "GITHUB_") && logger != nil {
		logger.WithField("name", name).Warn("Secret names with GITHUB_ prefix are reserved by GitHub")
	}
	return nil
}

func skippable(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}
