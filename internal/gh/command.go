package gh

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

// CommandRunner interface for executing system commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	RunWithInput(ctx context.Context, input []byte, name string, args ...string) ([]byte, error)
}

// realCommandRunner executes actual system commands
type realCommandRunner struct {
	logger *logrus.Logger
}

// NewCommandRunner creates a command runner that logs through the given logger.
func NewCommandRunner(logger *logrus.Logger) CommandRunner {
	return &realCommandRunner{logger: logger}
}

// Run executes a command and returns its output
func (r *realCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.RunWithInput(ctx, nil, name, args...)
}

// RunWithInput executes a command with input on stdin and returns its output.
// The input itself is never logged; secret values travel only on stdin.
func (r *realCommandRunner) RunWithInput(ctx context.Context, input []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	if r.logger != nil && r.logger.IsLevelEnabled(logrus.DebugLevel) {
		r.logger.WithFields(logrus.Fields{
			"command": name,
			"args":    args,
		}).Debug("Executing command")
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if input != nil {
		cmd.Stdin = bytes.NewReader(input)
	}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{
				"command":     name,
				"args":        args,
				"stderr":      stderr.String(),
				"duration_ms": duration.Milliseconds(),
			}).Debug("Command failed")
		}
		return nil, &CommandError{
			Command: name,
			Args:    args,
			Stderr:  stderr.String(),
			Err:     err,
		}
	}

	if r.logger != nil && r.logger.IsLevelEnabled(logrus.DebugLevel) {
		r.logger.WithFields(logrus.Fields{
			"command":     name,
			"args":        args,
			"duration_ms": duration.Milliseconds(),
			"output_size": stdout.Len(),
		}).Debug("Command completed")
	}

	return stdout.Bytes(), nil
}
