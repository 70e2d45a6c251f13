package apply

import (
	"bufio"
	"errors"
	"io"
	"strings"

	appErrors "fleetvars/internal/errors"
	"fleetvars/internal/gh"
	"fleetvars/internal/output"
	"fleetvars/internal/plan"
)

// Confirm renders the plan and blocks on a single yes/no read. Only
// "y" or "yes" (case-insensitive) approves; anything else, including a
// closed input stream, aborts with no side effects. With opts.AssumeYes
// the prompt is skipped but the plan is still rendered.
func Confirm(p *plan.Plan, opts Options, in io.Reader, w output.Writer) (bool, error) {
	renderPlan(p, opts, w)

	if opts.AssumeYes {
		w.Info("Confirmation skipped (--yes)")
		return true, nil
	}

	w.Plain("")
	w.Plain("Proceed? (y/N): ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, appErrors.WrapWithContext(err, "read confirmation")
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func renderPlan(p *plan.Plan, opts Options, w output.Writer) {
	w.Plain(strings.Repeat("=", 50))
	w.Info("Review the operations below before they run")
	w.Plain(strings.Repeat("=", 50))

	if p.Repos() > 0 {
		first := p.Bundles[0]
		renderDeletions(first.Deletions, w)
		renderUpserts(first.Upserts, w)
	}

	source := "explicit list"
	if p.Discovered {
		source = "owner discovery"
	}
	w.Plainf("Target repositories (%s):", source)
	for _, b := range p.Bundles {
		w.Plainf("  - %s", b.Repo)
	}
	w.Plainf("Total: %d repositories, %d items to set, %d items to delete",
		p.Repos(), p.UpsertCount(), p.DeletionCount())

	if opts.Workers == 1 {
		if opts.Delay > 0 {
			w.Plainf("Sequential processing with a %s pause after each repository", opts.Delay)
		} else {
			w.Plain("Sequential processing")
		}
	} else {
		w.Plainf("Parallel processing with %d workers", opts.Workers)
	}

	if opts.Force {
		w.Warn("--force enabled: existing values will be overwritten")
	} else {
		w.Info("--force disabled: existing values will be skipped")
	}
}

func renderDeletions(deletions []plan.Deletion, w output.Writer) {
	byKind := func(kind gh.ItemKind) []string {
		var names []string
		for _, d := range deletions {
			if d.Kind == kind {
				names = append(names, d.Name)
			}
		}
		return names
	}

	for _, kind := range []gh.ItemKind{gh.KindSecret, gh.KindVariable} {
		names := byKind(kind)
		w.Plainf("%ss to delete:", kind.Label())
		if len(names) == 0 {
			w.Plain("  (none)")
			continue
		}
		for _, n := range names {
			w.Plainf("  - %s", n)
		}
	}
}

func renderUpserts(upserts []plan.Item, w output.Writer) {
	byKind := func(kind gh.ItemKind) []string {
		var names []string
		for _, it := range upserts {
			if it.Kind == kind {
				names = append(names, it.Name)
			}
		}
		return names
	}

	// Values are deliberately not rendered; secrets must not reach the
	// terminal.
	for _, kind := range []gh.ItemKind{gh.KindSecret, gh.KindVariable} {
		names := byKind(kind)
		w.Plainf("%ss to add/update:", kind.Label())
		if len(names) == 0 {
			w.Plain("  (none)")
			continue
		}
		for _, n := range names {
			w.Plainf("  - %s", n)
		}
	}
}
