// Package logging holds the process-wide logger shared by the engine packages.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l for the engine packages. Passing nil restores the
// silent default.
//
// Levels used:
//   - [slog.LevelDebug]: object creation, frame statistics
//   - [slog.LevelInfo]: GL context details, lifecycle
//   - [slog.LevelWarn]: skipped passes
//   - [slog.LevelError]: shader compile and link diagnostics
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger { return loggerPtr.Load() }
