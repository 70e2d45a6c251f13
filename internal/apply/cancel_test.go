package apply

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanceller(t *testing.T) {
	t.Run("starts unset", func(t *testing.T) {
		assert.False(t, NewCanceller().Cancelled())
	})

	t.Run("monotonic once set", func(t *testing.T) {
		c := NewCanceller()
		c.Cancel()
		assert.True(t, c.Cancelled())
		c.Cancel()
		assert.True(t, c.Cancelled())
	})
}

func TestCancellerWatch(t *testing.T) {
	t.Run("sentinel sets the flag", func(t *testing.T) {
		c := NewCanceller()
		c.watch(strings.NewReader("q\n"), nil, nil)
		assert.True(t, c.Cancelled())
	})

	t.Run("sentinel is trimmed and case-insensitive", func(t *testing.T) {
		c := NewCanceller()
		c.watch(strings.NewReader("  Q  \n"), nil, nil)
		assert.True(t, c.Cancelled())
	})

	t.Run("other lines ignored until sentinel", func(t *testing.T) {
		c := NewCanceller()
		c.watch(strings.NewReader("hello\nquit\nstop\nq\nnever read\n"), nil, nil)
		assert.True(t, c.Cancelled())
	})

	t.Run("EOF without sentinel does not cancel", func(t *testing.T) {
		c := NewCanceller()
		c.watch(strings.NewReader("hello\n"), nil, nil)
		assert.False(t, c.Cancelled())
	})

	t.Run("empty input does not cancel", func(t *testing.T) {
		c := NewCanceller()
		c.watch(strings.NewReader(""), nil, nil)
		assert.False(t, c.Cancelled())
	})
}
