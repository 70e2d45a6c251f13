package apply

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"fleetvars/internal/gh"
	"fleetvars/internal/plan"
)

// Option errors
var (
	// ErrInvalidWorkers indicates a worker count below one.
	ErrInvalidWorkers = errors.New("worker count must be at least 1")

	// ErrDelayWithWorkers indicates a per-repository delay combined with
	// parallel workers. The delay only makes sense sequentially, so the
	// combination is rejected rather than silently ignored.
	ErrDelayWithWorkers = errors.New("per-repository delay requires exactly 1 worker")
)

// Options configures a run.
type Options struct {
	// Workers is the number of concurrent workers; 1 means strict
	// sequential processing.
	Workers int

	// Force overwrites existing items instead of skipping them.
	Force bool

	// Delay is an optional pause after each repository, sequential mode
	// only.
	Delay time.Duration

	// AssumeYes skips the confirmation prompt.
	AssumeYes bool
}

// Validate rejects option combinations the executor will not honor
func (o Options) Validate() error {
	if o.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, o.Workers)
	}
	if o.Delay > 0 && o.Workers > 1 {
		return fmt.Errorf("%w: got %d workers", ErrDelayWithWorkers, o.Workers)
	}
	return nil
}

// Executor drains a plan's bundles through the collaborator. Each bundle
// is owned by exactly one worker; the canceller and tracker are the only
// shared state.
type Executor struct {
	client    gh.Client
	opts      Options
	canceller *Canceller
	tracker   *Tracker
	logger    *logrus.Logger
}

// NewExecutor creates an Executor. The canceller and tracker are passed
// in at construction so the CLI can share them with the watcher and the
// final report.
func NewExecutor(client gh.Client, opts Options, canceller *Canceller, tracker *Tracker, logger *logrus.Logger) (*Executor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Executor{
		client:    client,
		opts:      opts,
		canceller: canceller,
		tracker:   tracker,
		logger:    logger,
	}, nil
}

// Run processes every bundle and returns the aggregated summary. It
// returns only after all dispatched bundles have finished; item-level
// failures are recorded, never propagated.
func (e *Executor) Run(ctx context.Context, p *plan.Plan) *Summary {
	if e.opts.Workers == 1 {
		e.runSequential(ctx, p)
	} else {
		e.runParallel(ctx, p)
	}
	return e.tracker.Summarize(e.canceller.Cancelled())
}

func (e *Executor) runSequential(ctx context.Context, p *plan.Plan) {
	for i, bundle := range p.Bundles {
		e.runBundle(ctx, bundle)

		last := i == len(p.Bundles)-1
		if e.opts.Delay > 0 && !last && !e.canceller.Cancelled() {
			e.logger.WithField("delay", e.opts.Delay.String()).Debug("Pausing before next repository")
			select {
			case <-time.After(e.opts.Delay):
			case <-ctx.Done():
			}
		}
	}
}

func (e *Executor) runParallel(ctx context.Context, p *plan.Plan) {
	bundles := make(chan plan.Bundle)

	g := &errgroup.Group{}
	for i := 0; i < e.opts.Workers; i++ {
		g.Go(func() error {
			for bundle := range bundles {
				e.runBundle(ctx, bundle)
			}
			return nil
		})
	}

	for _, bundle := range p.Bundles {
		bundles <- bundle
	}
	close(bundles)

	_ = g.Wait() // workers never return errors; failures become outcomes
}

// runBundle applies one repository's operations: the cancellation check,
// then deletions, then upserts. Every failure is local to its item.
func (e *Executor) runBundle(ctx context.Context, b plan.Bundle) {
	log := e.logger.WithField("repo", b.Repo.String())

	if e.canceller.Cancelled() {
		log.Debug("Cancelled before start, recording cancelled outcomes")
		e.recordCancelled(b)
		return
	}

	log.Debug("Processing repository")

	for _, d := range b.Deletions {
		outcome := Outcome{Repo: b.Repo, Name: d.Name, Kind: d.Kind, Action: ActionDeleted}
		if err := e.client.DeleteItem(ctx, b.Repo, d.Kind, d.Name); err != nil {
			outcome.Action = ActionFail
			outcome.Detail = err.Error()
		}
		e.tracker.Record(outcome)
	}

	for _, item := range b.Upserts {
		e.tracker.Record(e.upsert(ctx, b.Repo, item))
	}
}

// upsert applies the skip-if-exists-unless-forced policy to one item
func (e *Executor) upsert(ctx context.Context, repo gh.Repo, item plan.Item) Outcome {
	outcome := Outcome{Repo: repo, Name: item.Name, Kind: item.Kind}

	exists := false
	if !e.opts.Force {
		var err error
		exists, err = e.client.ItemExists(ctx, repo, item.Kind, item.Name)
		if err != nil {
			outcome.Action = ActionFail
			outcome.Detail = err.Error()
			return outcome
		}
	}

	if Decide(exists, e.opts.Force) == ActionSkip {
		outcome.Action = ActionSkip
		outcome.Detail = "already exists"
		return outcome
	}

	if err := e.client.SetItem(ctx, repo, item.Kind, item.Name, item.Value); err != nil {
		outcome.Action = ActionFail
		outcome.Detail = err.Error()
		return outcome
	}

	outcome.Action = ActionSet
	return outcome
}

// recordCancelled emits one cancelled outcome per item in the bundle so
// skipped work is visible in the summary rather than silently dropped.
func (e *Executor) recordCancelled(b plan.Bundle) {
	for _, d := range b.Deletions {
		e.tracker.Record(Outcome{Repo: b.Repo, Name: d.Name, Kind: d.Kind, Action: ActionCancelled})
	}
	for _, item := range b.Upserts {
		e.tracker.Record(Outcome{Repo: b.Repo, Name: item.Name, Kind: item.Kind, Action: ActionCancelled})
	}
}
