package gpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler drops every record; Enabled is false so nothing is
// formatted.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var silent = slog.New(discardHandler{})

// current holds the logger for device, surface and atlas events. It is
// swapped by the root package and read from any goroutine.
var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

func slogger() *slog.Logger { return current.Load() }

// SetLogger routes internal GPU events to l. gridtext.SetLogger forwards
// here; nil silences the package again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}
