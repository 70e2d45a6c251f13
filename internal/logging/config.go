// Package logging provides logger configuration and secret redaction.
//
// It is a leaf dependency: every other package receives a configured
// *logrus.Logger rather than reaching for the global one, which keeps
// tests isolated and lets the CLI own log level and format.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	appErrors "fleetvars/internal/errors"
)

// Log output formats supported by --log-format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Setup creates a logger configured from the CLI's log-level and
// log-format flags. Output goes to w (stderr in production).
func Setup(level, format string, w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, appErrors.InvalidFieldError("log-level", level)
	}
	logger.SetLevel(parsed)

	switch strings.ToLower(format) {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	case FormatText, "":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	default:
		return nil, appErrors.InvalidFieldError("log-format", format)
	}

	return logger, nil
}
