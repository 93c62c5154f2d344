// Package cli implements the sizereport command-line interface.
//
// This package provides commands for measuring source file sizes under a
// chain of transforms, listing the available transforms, and serving size
// reports over HTTP. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - report: Print a size table for each file group
//   - transforms: List the column names a report can use
//   - serve: Run the HTTP report server
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Warnings about
// missing files and progress messages go to stderr; tables go to stdout.
//
// # Example
//
//	import "github.com/matzehuels/sizereport/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sizereport/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
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

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Reported 12 files (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// debugHooks logs every transform and row with its duration.
// It is registered for verbose report runs.
type debugHooks struct {
	observability.NoopPipelineHooks
	logger *log.Logger
}

func (h *debugHooks) OnTransformComplete(_ context.Context, column, path string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("transform failed", "column", column, "file", path, "err", err)
		return
	}
	h.logger.Debug("transform", "column", column, "file", path, "duration", d.Round(time.Microsecond))
}

func (h *debugHooks) OnRowComplete(_ context.Context, path string, d time.Duration, err error) {
	if err == nil {
		h.logger.Debug("row", "file", path, "duration", d.Round(time.Microsecond))
	}
}
