package logging

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// RedactedPlaceholder replaces secret values in log output.
const RedactedPlaceholder = "[REDACTED]"

// Redactor removes registered secret values from log entries.
//
// Every secret value read from a set-file is registered before any
// collaborator call is made, so no log line at any level can leak one.
// Installed as a logrus hook; also usable directly via Sanitize.
type Redactor struct {
	mu      sync.RWMutex
	secrets []string
}

// NewRedactor creates an empty Redactor.
func NewRedactor() *Redactor {
	return &Redactor{}
}

// Add registers secret values for redaction. Empty values are ignored
// since replacing the empty string would corrupt every message.
func (r *Redactor) Add(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range values {
		if v != "" {
			r.secrets = append(r.secrets, v)
		}
	}
}

// Sanitize returns s with every registered secret value replaced.
func (r *Redactor) Sanitize(s string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, RedactedPlaceholder)
	}
	return s
}

// Levels implements logrus.Hook. Redaction applies to all levels.
func (r *Redactor) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook, sanitizing the message and string fields.
func (r *Redactor) Fire(entry *logrus.Entry) error {
	entry.Message = r.Sanitize(entry.Message)

	for key, value := range entry.Data {
		if s, ok := value.(string); ok {
			entry.Data[key] = r.Sanitize(s)
		}
	}
	return nil
}
