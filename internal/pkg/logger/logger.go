package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level. Unknown names fall back to info.
func ParseLevel(levelStr string) (zapcore.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return zapcore.DebugLevel, true
	case "INFO", "":
		return zapcore.InfoLevel, true
	case "WARN", "WARNING":
		return zapcore.WarnLevel, true
	case "ERROR":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// New builds the production zap logger at the given level and installs it as the slog default,
// so code logging through slog or the port.Logger adapter ends up in the same JSON stream.
func New(levelStr string) (*zap.Logger, error) {
	level, known := ParseLevel(levelStr)

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if os.Getenv("LOG_FORMAT") == "console" {
		cfg.Encoding = "console"
	}

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if !known {
		zl.Warn("Invalid log level string, defaulting to INFO", zap.String("input", levelStr))
	}

	slog.SetDefault(slog.New(zapslog.NewHandler(zl.Core(), &zapslog.HandlerOptions{})))
	return zl, nil
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	log(slog.LevelDebug, msg, args...)
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	log(slog.LevelInfo, msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	log(slog.LevelWarn, msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	log(slog.LevelError, msg, args...)
}

func log(level slog.Level, msg string, args ...any) {
	l := slog.Default()
	if l.Enabled(context.Background(), level) {
		l.Log(context.Background(), level, msg, args...)
	}
}
