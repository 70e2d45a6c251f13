package cli

import (
	"io"
	"os"
	"path/filepath"
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

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBuildInputs(t *testing.T) {
	t.Run("individual files assembled", func(t *testing.T) {
		dir := t.TempDir()
		flags := &applyFlags{
			Owner:           "acme",
			SecretsFile:     writeFile(t, dir, "secrets.env", "API_KEY=abc\n"),
			VarsFile:        writeFile(t, dir, "vars.env", "REGION=eu\n"),
			DeleteSecrets:   writeFile(t, dir, "ds.txt", "OLD_TOKEN\n"),
			DeleteVariables: writeFile(t, dir, "dv.txt", "OLD_FLAG\n"),
			ReposFile:       writeFile(t, dir, "repos.txt", "widgets\n"),
		}

		in, err := buildInputs(flags, quietLogger())
		require.NoError(t, err)
		require.Len(t, in.Secrets, 1)
		require.Len(t, in.Variables, 1)
		require.Len(t, in.DeleteSecrets, 1)
		require.Len(t, in.DeleteVariables, 1)
		require.Len(t, in.Repos, 1)
		assert.Equal(t, gh.Repo{Owner: "acme", Name: "widgets"}, in.Repos[0])
		assert.Equal(t, "acme", in.Owner)
	})

	t.Run("manifest alone", func(t *testing.T) {
		dir := t.TempDir()
		flags := &applyFlags{
			Owner:    "acme",
			Manifest: writeFile(t, dir, "fleet.yaml", "secrets:\n  API_KEY: abc\n"),
		}

		in, err := buildInputs(flags, quietLogger())
		require.NoError(t, err)
		require.Len(t, in.Secrets, 1)
	})

	t.Run("manifest excludes file flags", func(t *testing.T) {
		dir := t.TempDir()
		flags := &applyFlags{
			Manifest:    writeFile(t, dir, "fleet.yaml", "secrets:\n  API_KEY: abc\n"),
			SecretsFile: writeFile(t, dir, "secrets.env", "OTHER=x\n"),
		}

		_, err := buildInputs(flags, quietLogger())
		require.ErrorIs(t, err, errManifestExclusive)
	})

	t.Run("no inputs at all rejected", func(t *testing.T) {
		_, err := buildInputs(&applyFlags{Owner: "acme"}, quietLogger())
		require.ErrorIs(t, err, errNoInputs)
	})

	t.Run("repos-file alone is not an operation", func(t *testing.T) {
		dir := t.TempDir()
		flags := &applyFlags{
			Owner:     "acme",
			ReposFile: writeFile(t, dir, "repos.txt", "widgets\n"),
		}

		_, err := buildInputs(flags, quietLogger())
		require.ErrorIs(t, err, errNoInputs)
	})

	t.Run("missing file surfaces", func(t *testing.T) {
		flags := &applyFlags{SecretsFile: filepath.Join(t.TempDir(), "absent.env")}
		_, err := buildInputs(flags, quietLogger())
		require.Error(t, err)
	})
}

func TestNewRootCmd(t *testing.T) {
	t.Run("subcommands registered", func(t *testing.T) {
		cmd := NewRootCmd()

		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		assert.Contains(t, names, "apply")
		assert.Contains(t, names, "version")
	})

	t.Run("instances are isolated", func(t *testing.T) {
		a := NewRootCmd()
		b := NewRootCmd()
		require.NoError(t, a.PersistentFlags().Set("log-level", "debug"))

		bLevel, err := b.PersistentFlags().GetString("log-level")
		require.NoError(t, err)
		assert.Equal(t, "info", bLevel)
	})
}
