package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	appErrors "fleetvars/internal/errors"
	"fleetvars/internal/gh"
	"fleetvars/internal/plan"
)

// Manifest is the YAML alternative to separate line-oriented files,
// carrying every input in one document:
//
//	secrets:
//	  API_KEY: abc123
//	variables:
//	  REGION: eu-west-1
//	delete_secrets: [OLD_TOKEN]
//	delete_variables: [OLD_FLAG]
//	repositories: [owner/app, owner/lib]
type Manifest struct {
	Secrets         yaml.Node `yaml:"secrets"`
	Variables       yaml.Node `yaml:"variables"`
	DeleteSecrets   []string  `yaml:"delete_secrets"`
	DeleteVariables []string  `yaml:"delete_variables"`
	Repositories    []string  `yaml:"repositories"`
}

// LoadManifest reads and parses a YAML manifest from disk
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied manifest path
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, appErrors.WrapWithContext(err, "parse manifest YAML")
	}
	return &m, nil
}

// Inputs converts the manifest into plan inputs, applying the same name
// validation and duplicate policy as the line-oriented files. Mapping
// order from the YAML document is preserved.
func (m *Manifest) Inputs(defaultOwner string, logger *logrus.Logger) (plan.Inputs, error) {
	in := plan.Inputs{Owner: defaultOwner}

	secrets, err := mappingItems(&m.Secrets, gh.KindSecret, logger)
	if err != nil {
		return in, err
	}
	in.Secrets = secrets

	variables, err := mappingItems(&m.Variables, gh.KindVariable, logger)
	if err != nil {
		return in, err
	}
	in.Variables = variables

	for _, name := range m.DeleteSecrets {
		if !itemNamePattern.MatchString(name) {
			return in, fmt.Errorf("delete_secrets: %w: %q", ErrInvalidName, name)
		}
		in.DeleteSecrets = append(in.DeleteSecrets, plan.Deletion{Name: name, Kind: gh.KindSecret})
	}
	for _, name := range m.DeleteVariables {
		if !itemNamePattern.MatchString(name) {
			return in, fmt.Errorf("delete_variables: %w: %q", ErrInvalidName, name)
		}
		in.DeleteVariables = append(in.DeleteVariables, plan.Deletion{Name: name, Kind: gh.KindVariable})
	}

	for _, spec := range m.Repositories {
		repo, err := gh.ParseRepo(spec, defaultOwner)
		if err != nil {
			return in, fmt.Errorf("repositories: %w", err)
		}
		in.Repos = append(in.Repos, repo)
	}

	return in, nil
}

// mappingItems walks a YAML mapping node in document order. yaml.Node is
// used instead of map[string]string because Go maps would scramble the
// user's ordering.
func mappingItems(node *yaml.Node, kind gh.ItemKind, logger *logrus.Logger) ([]plan.Item, error) {
	if node.Kind == 0 || node.IsZero() {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, appErrors.FormatError(fmt.Sprintf("%ss section", kind), node.Tag, "a mapping of NAME: value")
	}

	var items []plan.Item
	index := make(map[string]int)

	// Mapping nodes store keys and values as alternating children.
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		value := node.Content[i+1].Value

		if err := validateItemName(name, kind, logger); err != nil {
			return nil, err
		}

		if at, ok := index[name]; ok {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"name": name,
					"kind": string(kind),
				}).Warn("Duplicate key in manifest, last value wins")
			}
			items[at].Value = value
			continue
		}

		index[name] = len(items)
		items = append(items, plan.Item{Name: name, Value: value, Kind: kind})
	}

	return items, nil
}
