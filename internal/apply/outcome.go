package apply

import (
	"time"

	"fleetvars/internal/gh"
)

// Outcome records the result of exactly one item operation. Immutable,
// created once per item attempted.
type Outcome struct {
	Repo   gh.Repo
	Name   string
	Kind   gh.ItemKind
	Action Action
	Detail string
}

// Summary aggregates every outcome of a run. It is produced by the
// Tracker after all bundles have completed or been recorded as
// cancelled; nothing mutates it afterwards.
type Summary struct {
	Set       int
	Skipped   int
	Deleted   int
	Failed    int
	Cancelled int

	// Failures holds every ActionFail outcome with its detail.
	Failures []Outcome

	// CancelledEarly is true when the operator requested a stop before
	// all bundles had started.
	CancelledEarly bool

	Elapsed time.Duration
}

// Total returns the number of recorded outcomes
func (s *Summary) Total() int {
	return s.Set + s.Skipped + s.Deleted + s.Failed + s.Cancelled
}

// Succeeded is true when no item operation failed
func (s *Summary) Succeeded() bool {
	return s.Failed == 0
}
