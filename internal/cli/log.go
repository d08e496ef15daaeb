package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel maps the --verbose and --quiet flags to a level. Verbose wins.
func logLevel(verbose, quiet bool) log.Level {
	switch {
	case verbose:
		return log.DebugLevel
	case quiet:
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}

// stopwatch logs the stages of a command. Each lap reports the time since
// the previous lap; the last one also reports the total.
type stopwatch struct {
	logger      *log.Logger
	start, last time.Time
}

func newStopwatch(l *log.Logger) *stopwatch {
	now := time.Now()
	return &stopwatch{logger: l, start: now, last: now}
}

// lap logs msg at debug level with the time since the previous lap.
func (s *stopwatch) lap(msg string, keyvals ...any) {
	now := time.Now()
	s.logger.Debug(msg, append(keyvals, "took", now.Sub(s.last).Round(time.Millisecond))...)
	s.last = now
}

// finish logs msg at info level with the total time, e.g.
// "Shuffled 12 shapes (840ms)".
func (s *stopwatch) finish(msg string) {
	s.logger.Infof("%s (%s)", msg, time.Since(s.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command's logger, or log.Default() outside
// a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
