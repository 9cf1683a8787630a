// Package logging defines the structured logger used across the generator.
package logging

import (
	"io"
	"log/slog"
)

// Logger is a minimal structured logger. attrs are alternating key-value
// pairs, following the log/slog convention:
//
//	logger.Warn("unsupported $ref", "path", "/pets", "method", "get")
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)

	// With returns a Logger that prepends attrs to every record.
	With(attrs ...any) Logger
}

// Nop discards everything. It is the default when no logger is configured.
type Nop struct{}

func (Nop) Debug(string, ...any)  {}
func (Nop) Info(string, ...any)   {}
func (Nop) Warn(string, ...any)   {}
func (Nop) Error(string, ...any)  {}
func (n Nop) With(...any) Logger { return n }

var _ Logger = Nop{}

// SlogAdapter wraps a *slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger; nil selects slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, attrs ...any) { s.logger.Debug(msg, attrs...) }
func (s *SlogAdapter) Info(msg string, attrs ...any)  { s.logger.Info(msg, attrs...) }
func (s *SlogAdapter) Warn(msg string, attrs ...any)  { s.logger.Warn(msg, attrs...) }
func (s *SlogAdapter) Error(msg string, attrs ...any) { s.logger.Error(msg, attrs...) }

func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

var _ Logger = (*SlogAdapter)(nil)

// NewText returns a text-handler Logger writing to w. verbose lowers the
// threshold from warn to debug.
func NewText(w io.Writer, verbose bool) Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// OrNop returns l, or Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}
