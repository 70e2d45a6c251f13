// Package plan turns desired-state inputs into per-repository operation
// bundles ready for execution.
package plan

import "fleetvars/internal/gh"

// Item is a secret or variable to create or update on every target
// repository. Immutable once built.
type Item struct {
	Name  string
	Value string
	Kind  gh.ItemKind
}

// Deletion names a secret or variable to remove from every target
// repository.
type Deletion struct {
	Name string
	Kind gh.ItemKind
}

// Bundle holds every operation targeted at one repository. A bundle is
// owned exclusively by the worker processing it and is never mutated
// after dispatch.
type Bundle struct {
	Repo      gh.Repo
	Upserts   []Item
	Deletions []Deletion
}

// Size returns the number of item operations in the bundle
func (b Bundle) Size() int {
	return len(b.Upserts) + len(b.Deletions)
}

// Plan is the confirmed unit of work: one bundle per target repository.
type Plan struct {
	Bundles []Bundle

	// Discovered is true when the repository list came from owner
	// discovery rather than an explicit list.
	Discovered bool
}

// Repos returns the number of target repositories
func (p *Plan) Repos() int {
	return len(p.Bundles)
}

// UpsertCount returns the number of distinct items to set per repository
func (p *Plan) UpsertCount() int {
	if len(p.Bundles) == 0 {
		return 0
	}
	return len(p.Bundles[0].Upserts)
}

// DeletionCount returns the number of distinct items to delete per repository
func (p *Plan) DeletionCount() int {
	if len(p.Bundles) == 0 {
		return 0
	}
	return len(p.Bundles[0].Deletions)
}

// TotalOperations returns the number of item operations across all bundles
func (p *Plan) TotalOperations() int {
	total := 0
	for _, b := range p.Bundles {
		total += b.Size()
	}
	return total
}
