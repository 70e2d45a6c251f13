// Package apply executes a confirmed plan against GitHub: a bounded
// worker pool drains per-repository bundles, a background watcher turns
// an interactive "q" into cooperative cancellation, and a tracker owns
// the running tally.
package apply

// Action classifies the outcome of one item operation
type Action string

// Outcome actions
const (
	ActionSet       Action = "set"
	ActionSkip      Action = "skip"
	ActionDeleted   Action = "deleted"
	ActionFail      Action = "fail"
	ActionCancelled Action = "cancelled"
)

// Decide returns the upsert action for one item given whether it already
// exists and whether --force is in effect. Pure; the executor consults
// the existence check only when force is false.
func Decide(exists, force bool) Action {
	if force || !exists {
		return ActionSet
	}
	return ActionSkip
}
