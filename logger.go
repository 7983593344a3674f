package vkloader

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/vkloader/diag"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for vkloader and all its sub-packages.
// By default, vkloader produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by vkloader:
//   - [slog.LevelDebug]: driver loading details
//   - [slog.LevelInfo]: instance lifecycle, emulated calls
//   - [slog.LevelWarn]: skipped drivers, unrecognized chain links
//   - [slog.LevelError]: drivers breaking their contract, exhausted scratch storage
//
// Example:
//
//	vkloader.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by vkloader.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSink sends diagnostics to whatever logger is current at the time
// of the call.
type loggerSink struct{}

func (loggerSink) Emit(m diag.Message) {
	diag.NewSlog(Logger()).Emit(m)
}

// LogSink returns the sink used when no WithSink option is given: it
// forwards each diagnostic to Logger at the time of the call.
func LogSink() diag.Sink { return loggerSink{} }
