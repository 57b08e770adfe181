package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used by the engine and all of its sub-packages.
// By default nothing is logged. Passing nil restores the silent default.
//
// Levels used by the engine:
//   - slog.LevelDebug: bookkeeping (hierarchy rebuilds, binding switches, variant cache misses)
//   - slog.LevelInfo: lifecycle events and profiler statistics
//   - slog.LevelWarn: recoverable problems (out-of-range macros, failed effect reloads)
//
// Parameters:
//   - l: the logger to install, or nil
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger. Safe for concurrent use.
//
// Returns:
//   - *slog.Logger: the current logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
