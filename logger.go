package gridfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while frames are being painted.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gridfx and all its sub-packages.
// By default, gridfx produces no log output. Pass nil to restore silence.
//
// Log levels used by gridfx:
//   - [slog.LevelDebug]: grid changes, atlas rebuilds, pipeline state
//   - [slog.LevelInfo]: lifecycle events, backend selection, quality changes
//   - [slog.LevelWarn]: backend fallbacks, paint errors, atlas failures
//
// Example:
//
//	gridfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by gridfx.
// Backends call this to share one logger configuration without import
// cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
