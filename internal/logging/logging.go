// Package logging builds the logrus loggers shared by every front end.
package logging

import (
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ParseLevel maps a level name to a logrus level. Unknown names fall back to
// info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New returns a text logger writing to w at the given level.
func New(level string, w io.Writer) *log.Logger {
	l := log.New()
	l.SetOutput(w)
	l.SetLevel(ParseLevel(level))
	l.SetFormatter(&log.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		DisableSorting:   false,
		QuoteEmptyFields: true,
	})
	return l
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}
