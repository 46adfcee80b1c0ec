// Package logger constructs the structured logger shared by every George
// component. It wraps zap so callers never touch the underlying core
// directly: all logging flows through the *zap.SugaredLogger convenience
// API (Infow/Warnw/Errorw).
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls the minimum severity a logger emits.
type Level = zapcore.Level

// Severity levels re-exported so callers don't need to import zapcore
// directly just to pick a level.
const (
	LevelDebug Level = zapcore.DebugLevel
	LevelInfo  Level = zapcore.InfoLevel
	LevelWarn  Level = zapcore.WarnLevel
	LevelError Level = zapcore.ErrorLevel
)

// New builds a *zap.SugaredLogger for the named component ("master",
// "seed", "selector", ...). Output is JSON to stdout at info level unless
// overridden by GEORGE_LOG_LEVEL, matching the component-name-as-field
// convention used throughout the engine's call sites.
func New(component string) *zap.SugaredLogger {
	return NewAtLevel(component, levelFromEnv())
}

// NewAtLevel builds a *zap.SugaredLogger for the named component at an
// explicit level, bypassing the GEORGE_LOG_LEVEL environment lookup. Tests
// that want quiet output pass LevelError here.
func NewAtLevel(component string, level Level) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Build only fails on a malformed config; ours is static, so fall
		// back to a no-op logger rather than panic a caller mid-startup.
		base = zap.NewNop()
	}

	return base.Sugar().With("component", component)
}

func levelFromEnv() Level {
	switch os.Getenv("GEORGE_LOG_LEVEL") {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
