// Package tabexlog provides the CLI driver's structured logger. Core
// parsing packages never import it; they report failures purely through
// returned errors.
package tabexlog

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the shared structured logger type.
type Logger = log.Logger

// New constructs a logger writing to stderr at the given level name
// ("debug", "info", "warn", "error"); an unrecognized name falls back
// to info.
func New(level string) *Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tabex",
	})
	l.SetLevel(parseLevel(level))
	return l
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
