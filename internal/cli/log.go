// Package cli implements the scatter-svg command-line interface.
//
// The root command plots a dataset; subcommands export the label layout,
// report how an input is detected, serve the HTTP API, and manage the local
// cache. The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - plot: Render SVG, PNG, PDF or the JSON layout export (also the default)
//   - layout: Write only the JSON layout export
//   - detect: Show the detected format, delimiter and column roles
//   - serve: Run the HTTP API
//   - cache: Clear or locate the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs go to
// stderr so that plots can be written to stdout.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration at debug level.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Parsed 42 points (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
