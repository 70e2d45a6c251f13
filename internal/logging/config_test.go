package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Setup("debug", FormatText, &buf)
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.Level)

		logger.Debug("hello")
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Setup("info", FormatJSON, &buf)
		require.NoError(t, err)

		logger.Info("structured")
		assert.Contains(t, buf.String(), `"msg":"structured"`)
	})

	t.Run("level is case-insensitive", func(t *testing.T) {
		logger, err := Setup("WARN", FormatText, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, logrus.WarnLevel, logger.Level)
	})

	t.Run("empty format defaults to text", func(t *testing.T) {
		_, err := Setup("info", "", &bytes.Buffer{})
		require.NoError(t, err)
	})

	t.Run("unknown level rejected", func(t *testing.T) {
		_, err := Setup("loud", FormatText, &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		_, err := Setup("info", "xml", &bytes.Buffer{})
		require.Error(t, err)
	})
}
