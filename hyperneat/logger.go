package hyperneat

import (
	"context"
	"fmt"
	"log/slog"
)

// Logger is injected into the components that report progress.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NopLogger discards everything. It is the default when no logger is given.
type NopLogger struct{}

func (NopLogger) Debugf(format string, v ...any) {}
func (NopLogger) Infof(format string, v ...any)  {}
func (NopLogger) Warnf(format string, v ...any)  {}
func (NopLogger) Errorf(format string, v ...any) {}

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l. A nil l falls back to slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debugf(format string, v ...any) { s.log(slog.LevelDebug, format, v...) }
func (s *SlogLogger) Infof(format string, v ...any)  { s.log(slog.LevelInfo, format, v...) }
func (s *SlogLogger) Warnf(format string, v ...any)  { s.log(slog.LevelWarn, format, v...) }
func (s *SlogLogger) Errorf(format string, v ...any) { s.log(slog.LevelError, format, v...) }

func (s *SlogLogger) log(level slog.Level, format string, v ...any) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, fmt.Sprintf(format, v...))
}

// OrNop returns l, or NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
