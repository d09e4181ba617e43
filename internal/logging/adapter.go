package logging

import (
	"context"
	"log/slog"
)

// Logger is the key/value logging surface the script executor depends on,
// so it can be driven by any structured logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter satisfies Logger with an *slog.Logger. Arguments may mix
// key/value pairs and slog.Attr values.
type SlogAdapter struct {
	logger *slog.Logger
}

var _ Logger = (*SlogAdapter)(nil)

// NewSlogAdapter wraps logger, or slog.Default() when it is nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) log(level slog.Level, msg string, args []any) {
	a.logger.Log(context.Background(), level, msg, args...)
}

func (a *SlogAdapter) Debug(msg string, args ...any) { a.log(slog.LevelDebug, msg, args) }
func (a *SlogAdapter) Info(msg string, args ...any)  { a.log(slog.LevelInfo, msg, args) }
func (a *SlogAdapter) Warn(msg string, args ...any)  { a.log(slog.LevelWarn, msg, args) }
func (a *SlogAdapter) Error(msg string, args ...any) { a.log(slog.LevelError, msg, args) }

// Logger returns the wrapped slog.Logger.
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}

// DefaultLogger adapts slog.Default().
func DefaultLogger() *SlogAdapter {
	return NewSlogAdapter(nil)
}

// Discard returns an adapter that drops everything.
func Discard() *SlogAdapter {
	return NewSlogAdapter(Nop())
}

// Nop returns an slog.Logger that drops every record.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
