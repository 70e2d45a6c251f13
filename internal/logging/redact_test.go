package logging

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactorSanitize(t *testing.T) {
	t.Run("registered values replaced", func(t *testing.T) {
		r := NewRedactor()
		r.Add("hunter2", "s3cr3t")

		out := r.Sanitize("password hunter2 and token s3cr3t leaked")
		assert.NotContains(t, out, "hunter2")
		assert.NotContains(t, out, "s3cr3t")
		assert.Contains(t, out, RedactedPlaceholder)
	})

	t.Run("unregistered text untouched", func(t *testing.T) {
		r := NewRedactor()
		r.Add("hunter2")
		assert.Equal(t, "nothing to see", r.Sanitize("nothing to see"))
	})

	t.Run("empty values ignored", func(t *testing.T) {
		r := NewRedactor()
		r.Add("", "x")
		assert.Equal(t, "a[REDACTED]b", r.Sanitize("axb"))
	})
}

func TestRedactorHook(t *testing.T) {
	t.Run("log lines never carry a secret", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Setup("debug", FormatText, &buf)
		require.NoError(t, err)

		r := NewRedactor()
		r.Add("top-secret-value")
		logger.AddHook(r)

		logger.WithField("value", "top-secret-value").Info("setting top-secret-value now")

		out := buf.String()
		assert.NotContains(t, out, "top-secret-value")
		assert.Contains(t, out, RedactedPlaceholder)
	})
}

func TestRedactorConcurrentUse(t *testing.T) {
	r := NewRedactor()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Add("secret-value")
			_ = r.Sanitize("mixing secret-value in")
		}()
	}
	wg.Wait()

	assert.NotContains(t, r.Sanitize("secret-value"), "secret-value")
}
