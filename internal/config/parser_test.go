package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetvars/internal/gh"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestParseKeyValues(t *testing.T) {
	t.Run("preserves source order", func(t *testing.T) {
		input := "B_KEY=two\nA_KEY=one\nC_KEY=three\n"
		items, err := ParseKeyValues(strings.NewReader(input), gh.KindSecret, quietLogger())
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "B_KEY", items[0].Name)
		assert.Equal(t, "A_KEY", items[1].Name)
		assert.Equal(t, "C_KEY", items[2].Name)
		assert.Equal(t, gh.KindSecret, items[0].Kind)
	})

	t.Run("duplicate keys last value wins at first position", func(t *testing.T) {
		input := "KEY=first\nOTHER=x\nKEY=second\n"
		items, err := ParseKeyValues(strings.NewReader(input), gh.KindVariable, quietLogger())
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "KEY", items[0].Name)
		assert.Equal(t, "second", items[0].Value)
		assert.Equal(t, "OTHER", items[1].Name)
	})

	t.Run("comments and blank lines ignored", func(t *testing.T) {
		input := "# header\n\n  \nKEY=value\n# trailing\n"
		items, err := ParseKeyValues(strings.NewReader(input), gh.KindSecret, quietLogger())
		require.NoError(t, err)
		require.Len(t, items, 1)
	})

	t.Run("value may contain equals signs", func(t *testing.T) {
		items, err := ParseKeyValues(strings.NewReader("CONN=a=b=c\n"), gh.KindVariable, quietLogger())
		require.NoError(t, err)
		assert.Equal(t, "a=b=c", items[0].Value)
	})

	t.Run("empty value kept", func(t *testing.T) {
		items, err := ParseKeyValues(strings.NewReader("EMPTY=\n"), gh.KindVariable, quietLogger())
		require.NoError(t, err)
		assert.Equal(t, "", items[0].Value)
	})

	t.Run("line without separator rejected", func(t *testing.T) {
		_, err := ParseKeyValues(strings.NewReader("NOT A PAIR\n"), gh.KindSecret, quietLogger())
		require.ErrorIs(t, err, ErrMalformedLine)
	})

	t.Run("missing key rejected", func(t *testing.T) {
		_, err := ParseKeyValues(strings.NewReader("=value\n"), gh.KindSecret, quietLogger())
		require.ErrorIs(t, err, ErrMalformedLine)
	})

	t.Run("invalid name rejected", func(t *testing.T) {
		_, err := ParseKeyValues(strings.NewReader("BAD-NAME=value\n"), gh.KindSecret, quietLogger())
		require.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestParseNameList(t *testing.T) {
	t.Run("bare identifiers in order", func(t *testing.T) {
		input := "OLD_TOKEN\n# comment\nOLD_FLAG\n"
		deletions, err := ParseNameList(strings.NewReader(input), gh.KindSecret)
		require.NoError(t, err)
		require.Len(t, deletions, 2)
		assert.Equal(t, "OLD_TOKEN", deletions[0].Name)
		assert.Equal(t, gh.KindSecret, deletions[0].Kind)
	})

	t.Run("duplicates dropped", func(t *testing.T) {
		deletions, err := ParseNameList(strings.NewReader("A\nB\nA\n"), gh.KindVariable)
		require.NoError(t, err)
		require.Len(t, deletions, 2)
	})

	t.Run("non-identifier rejected", func(t *testing.T) {
		_, err := ParseNameList(strings.NewReader("KEY=VALUE\n"), gh.KindSecret)
		require.ErrorIs(t, err, ErrMalformedLine)
	})
}

func TestParseRepoList(t *testing.T) {
	t.Run("mixed bare and full names", func(t *testing.T) {
		input := "widgets\nother-org/gadgets\n"
		repos, err := ParseRepoList(strings.NewReader(input), "acme")
		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, gh.Repo{Owner: "acme", Name: "widgets"}, repos[0])
		assert.Equal(t, gh.Repo{Owner: "other-org", Name: "gadgets"}, repos[1])
	})

	t.Run("bare name without default owner rejected", func(t *testing.T) {
		_, err := ParseRepoList(strings.NewReader("widgets\n"), "")
		require.Error(t, err)
	})
}

func TestLoadItemsFile(t *testing.T) {
	t.Run("reads file from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secrets.env")
		require.NoError(t, os.WriteFile(path, []byte("API_KEY=abc\n"), 0o600))

		items, err := LoadItemsFile(path, gh.KindSecret, quietLogger())
		require.NoError(t, err)
		require.Len(t, items, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadItemsFile(filepath.Join(t.TempDir(), "absent.env"), gh.KindSecret, quietLogger())
		require.Error(t, err)
	})

	t.Run("parse error includes path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.env")
		require.NoError(t, os.WriteFile(path, []byte("broken line\n"), 0o600))

		_, err := LoadItemsFile(path, gh.KindSecret, quietLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.env")
	})
}
