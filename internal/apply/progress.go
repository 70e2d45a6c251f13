package apply

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"fleetvars/internal/output"
)

// Tracker is the single owner of the running tally. Workers call Record
// concurrently; the mutex here is the only mutual exclusion the
// orchestrator needs besides the cancellation flag.
type Tracker struct {
	mu       sync.Mutex
	counts   map[Action]int
	failures []Outcome
	started  time.Time

	w      output.Writer
	logger *logrus.Logger
}

// NewTracker creates a Tracker that emits one console line per outcome
func NewTracker(w output.Writer, logger *logrus.Logger) *Tracker {
	return &Tracker{
		counts:  make(map[Action]int),
		started: time.Now(),
		w:       w,
		logger:  logger,
	}
}

// Record adds one outcome to the tally and emits its console line.
// Lines reflect completion order, not submission order.
func (t *Tracker) Record(o Outcome) {
	t.mu.Lock()
	t.counts[o.Action]++
	if o.Action == ActionFail {
		t.failures = append(t.failures, o)
	}
	t.mu.Unlock()

	t.emit(o)
}

// Completed returns the number of outcomes recorded so far
func (t *Tracker) Completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Summarize produces the final summary. cancelledEarly reports whether
// the operator stopped the run before all bundles started.
func (t *Tracker) Summarize(cancelledEarly bool) *Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	failures := make([]Outcome, len(t.failures))
	copy(failures, t.failures)

	return &Summary{
		Set:            t.counts[ActionSet],
		Skipped:        t.counts[ActionSkip],
		Deleted:        t.counts[ActionDeleted],
		Failed:         t.counts[ActionFail],
		Cancelled:      t.counts[ActionCancelled],
		Failures:       failures,
		CancelledEarly: cancelledEarly,
		Elapsed:        time.Since(t.started),
	}
}

func (t *Tracker) emit(o Outcome) {
	if t.logger != nil {
		t.logger.WithFields(logrus.Fields{
			"repo":   o.Repo.String(),
			"kind":   string(o.Kind),
			"name":   o.Name,
			"action": string(o.Action),
		}).Debug("Outcome recorded")
	}
	if t.w == nil {
		return
	}

	line := fmt.Sprintf("[%s] %-9s %s %s", o.Repo, o.Action, o.Kind, o.Name)
	switch o.Action {
	case ActionSet, ActionDeleted:
		t.w.Success(line)
	case ActionSkip:
		t.w.Info(line)
	case ActionCancelled:
		t.w.Warn(line)
	case ActionFail:
		t.w.Errorf("%s: %s", line, o.Detail)
	}
}

// PrintSummary renders the final report for the operator
func (s *Summary) PrintSummary(w output.Writer) {
	w.Plain("")
	w.Plainf("Finished in %s", s.Elapsed.Round(time.Millisecond))
	w.Plainf("  set: %d  skipped: %d  deleted: %d  failed: %d  cancelled: %d",
		s.Set, s.Skipped, s.Deleted, s.Failed, s.Cancelled)

	if s.CancelledEarly {
		w.Warn("Run was cancelled early; repositories started before the stop completed normally")
	}

	if len(s.Failures) > 0 {
		w.Errorf("%d operations failed:", len(s.Failures))
		for _, f := range s.Failures {
			w.Errorf("  [%s] %s %s: %s", f.Repo, f.Kind, f.Name, f.Detail)
		}
		return
	}

	if !s.CancelledEarly {
		w.Success("All operations completed successfully")
	}
}
