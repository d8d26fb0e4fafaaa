// Package cli implements the nichetrace command-line interface.
//
// This package provides commands for running the NT-score pipeline over
// GNN training outputs, solving trajectories directly, rendering
// connectivity graphs, and serving or browsing finished runs. The CLI is
// built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - score: Run the full load, solve, propagate, write pipeline
//   - solve: Construct a trajectory from a connectivity matrix
//   - render: Draw the connectivity graph as DOT, SVG, or PNG
//   - serve: Expose a finished run over HTTP
//   - view: Browse a run summary in the terminal
//   - cache: Manage the trajectory cache
//
// # Logging
//
// Every command takes --verbose (-v) to drop the level to debug. The
// logger travels by context, so the pipeline packages report progress
// without a logging setup of their own.
//
// # Example
//
//	if err := cli.Execute(context.Background()); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger: level-filtered, with sub-second
// timestamps ("14:32:01.45") so the cost of pipeline stages can be read
// off the -v output without a profiler.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})
}

// trackProgress returns a completion callback. Calling it logs msg with
// the elapsed time since trackProgress, rounded to the millisecond:
//
//	Scored 4851 cells across 3 samples (1.234s)
func trackProgress(l *log.Logger) func(msg string) {
	start := time.Now()
	return func(msg string) {
		l.Infof("%s (%s)", msg, time.Since(start).Round(time.Millisecond))
	}
}

// loggerKey carries the *log.Logger through context. A private struct
// type cannot collide with keys set by other packages.
type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default()
// so commands always have somewhere to write.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
