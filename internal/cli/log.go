// Package cli implements the nrfg command-line interface.
//
// The CLI is built on cobra and logs through charmbracelet/log; --verbose
// (-v) switches every command to debug level.
//
// # Commands
//
//   - run: reconstruct the NRFG of a model file
//   - components: detect gene families and print a summary
//   - render: convert a graph JSON file to DOT or SVG
//   - cache: manage the tool output cache
//   - completion: generate shell completion scripts
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Reconstructed NRFG (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
