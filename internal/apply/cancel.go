package apply

import (
	"bufio"
	"io"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"fleetvars/internal/output"
)

// cancelSentinel is the line the operator types to request a stop.
const cancelSentinel = "q"

// Canceller is the shared cancellation flag. It is monotonic: once set
// it is never cleared within a run. Workers poll it between bundles,
// never between items, so an in-flight bundle always runs to completion.
type Canceller struct {
	flag atomic.Bool
}

// NewCanceller creates an unset Canceller
func NewCanceller() *Canceller {
	return &Canceller{}
}

// Cancel sets the flag
func (c *Canceller) Cancel() {
	c.flag.Store(true)
}

// Cancelled reports whether a stop was requested
func (c *Canceller) Cancelled() bool {
	return c.flag.Load()
}

// StartWatch launches a goroutine that scans in line by line and sets
// the flag on the cancel sentinel, then stops reading. EOF or a read
// error ends the watcher without cancelling, so piped runs with a
// closed stdin are unaffected.
func (c *Canceller) StartWatch(in io.Reader, w output.Writer, logger *logrus.Logger) {
	go c.watch(in, w, logger)
}

func (c *Canceller) watch(in io.Reader, w output.Writer, logger *logrus.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line != cancelSentinel {
			continue
		}

		c.Cancel()
		if w != nil {
			w.Warn("Stop requested: running repositories will finish, no new ones will start")
		}
		if logger != nil {
			logger.Info("Cancellation flag set by operator")
		}
		return
	}

	if err := scanner.Err(); err != nil && logger != nil {
		logger.WithError(err).Debug("Cancellation watcher input closed")
	}
}
