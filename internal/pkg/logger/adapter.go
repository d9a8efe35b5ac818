package logger

import (
	"go.uber.org/zap"

	"supply_api/internal/app/port"
)

// slogAdapter implements port.Logger through the package-level functions, which write to the
// slog default.
type slogAdapter struct{}

// NewSlogAdapter returns a port.Logger backed by the slog default.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

func (a *slogAdapter) Info(msg string, args ...any)  { Info(msg, args...) }
func (a *slogAdapter) Debug(msg string, args ...any) { Debug(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { Error(msg, args...) }

// zapAdapter implements port.Logger on a zap.SugaredLogger.
type zapAdapter struct {
	s *zap.SugaredLogger
}

// NewZapAdapter returns a port.Logger writing key/value pairs to l.
func NewZapAdapter(l *zap.Logger) port.Logger {
	return &zapAdapter{s: l.Sugar()}
}

func (a *zapAdapter) Info(msg string, args ...any)  { a.s.Infow(msg, args...) }
func (a *zapAdapter) Debug(msg string, args ...any) { a.s.Debugw(msg, args...) }
func (a *zapAdapter) Warn(msg string, args ...any)  { a.s.Warnw(msg, args...) }
func (a *zapAdapter) Error(msg string, args ...any) { a.s.Errorw(msg, args...) }
