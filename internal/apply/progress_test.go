package apply

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetvars/internal/gh"
	"fleetvars/internal/output"
)

func TestTrackerRecord(t *testing.T) {
	repo := gh.Repo{Owner: "acme", Name: "widgets"}

	t.Run("counts by action", func(t *testing.T) {
		tr := NewTracker(nil, nil)
		tr.Record(Outcome{Repo: repo, Name: "A", Kind: gh.KindSecret, Action: ActionSet})
		tr.Record(Outcome{Repo: repo, Name: "B", Kind: gh.KindSecret, Action: ActionSkip})
		tr.Record(Outcome{Repo: repo, Name: "C", Kind: gh.KindVariable, Action: ActionDeleted})
		tr.Record(Outcome{Repo: repo, Name: "D", Kind: gh.KindVariable, Action: ActionFail, Detail: "boom"})
		tr.Record(Outcome{Repo: repo, Name: "E", Kind: gh.KindSecret, Action: ActionCancelled})

		s := tr.Summarize(false)
		assert.Equal(t, 1, s.Set)
		assert.Equal(t, 1, s.Skipped)
		assert.Equal(t, 1, s.Deleted)
		assert.Equal(t, 1, s.Failed)
		assert.Equal(t, 1, s.Cancelled)
		assert.Equal(t, 5, s.Total())
		assert.False(t, s.Succeeded())

		require.Len(t, s.Failures, 1)
		assert.Equal(t, "D", s.Failures[0].Name)
		assert.Equal(t, "boom", s.Failures[0].Detail)
	})

	t.Run("emits one line per outcome", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		tr := NewTracker(output.NewColoredWriter(&stdout, &stderr), nil)

		tr.Record(Outcome{Repo: repo, Name: "API_KEY", Kind: gh.KindSecret, Action: ActionSet})
		tr.Record(Outcome{Repo: repo, Name: "OLD", Kind: gh.KindVariable, Action: ActionFail, Detail: "HTTP 403"})

		assert.Contains(t, stdout.String(), "API_KEY")
		assert.Contains(t, stderr.String(), "HTTP 403")
	})

	t.Run("concurrent recording loses nothing", func(t *testing.T) {
		tr := NewTracker(nil, nil)

		const writers = 10
		const perWriter = 100

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := 0; j < perWriter; j++ {
					tr.Record(Outcome{
						Repo:   gh.Repo{Owner: "acme", Name: fmt.Sprintf("repo-%d", n)},
						Name:   fmt.Sprintf("KEY_%d", j),
						Kind:   gh.KindSecret,
						Action: ActionSet,
					})
				}
			}(i)
		}
		wg.Wait()

		s := tr.Summarize(false)
		assert.Equal(t, writers*perWriter, s.Set)
		assert.Equal(t, writers*perWriter, s.Total())
	})
}

func TestSummaryPrint(t *testing.T) {
	repo := gh.Repo{Owner: "acme", Name: "widgets"}

	t.Run("success", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		s := &Summary{Set: 3, Deleted: 1}
		s.PrintSummary(output.NewColoredWriter(&stdout, &stderr))
		assert.Contains(t, stdout.String(), "set: 3")
		assert.Contains(t, stdout.String(), "All operations completed successfully")
	})

	t.Run("failures listed with detail", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		s := &Summary{
			Set:    1,
			Failed: 1,
			Failures: []Outcome{
				{Repo: repo, Name: "API_KEY", Kind: gh.KindSecret, Action: ActionFail, Detail: "HTTP 502"},
			},
		}
		s.PrintSummary(output.NewColoredWriter(&stdout, &stderr))
		assert.Contains(t, stderr.String(), "1 operations failed")
		assert.Contains(t, stderr.String(), "HTTP 502")
	})

	t.Run("cancelled early", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		s := &Summary{Set: 2, Cancelled: 3, CancelledEarly: true}
		s.PrintSummary(output.NewColoredWriter(&stdout, &stderr))
		assert.Contains(t, stderr.String(), "cancelled early")
	})
}
