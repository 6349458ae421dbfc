// package shared holds configuration, logging, sentinel errors and the session database helpers
package shared

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger returns the process [log.Logger] writing to w, or [os.Stderr] when w is nil.
//
// Entries carry a timestamp, the calling file and the "walkerbrain" prefix.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    true,
		TimeFormat:      time.DateTime,
		Prefix:          "walkerbrain",
	})
}

// WithLogger returns a child of l that adds kv to every entry, e.g. "component", "web".
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID returns a random v4 UUID. Session cookies carry it as their value.
func GenerateID() string {
	return uuid.NewString()
}

// IsValidID reports whether s parses as a UUID, so malformed cookies never reach the store.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// RedactSecret keeps the first four characters of a secret for display.
func RedactSecret(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", 8)
}
