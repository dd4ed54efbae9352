// Package logger provides the structured logger shared by every component of
// the speech service.
//
// It wraps zap with a small interface so components can be handed a no-op or
// observed logger in tests, and keeps a process-wide logger for code paths
// that have no injected dependency.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the interface for logging operations
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Sync() error
}

// New creates a logger from cfg and installs it as the global logger.
// A nil cfg means DefaultConfig; empty fields are filled from the defaults.
func New(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, ErrInvalidLevel(cfg.Level, err)
	}

	l, err := buildZap(cfg, level, 0)
	if err != nil {
		return nil, ErrBuildLogger(err)
	}

	// package-level helpers sit one frame above the caller
	setGlobalLoggerInternal(l.WithOptions(zap.AddCallerSkip(1)))
	return l, nil
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return zap.NewNop()
}

// Named returns l scoped under name when l is a *zap.Logger, otherwise l.
func Named(l Logger, name string) Logger {
	if zl, ok := l.(*zap.Logger); ok {
		return zl.Named(name)
	}
	return l
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func buildZap(cfg *Config, level zapcore.Level, callerSkip int) (*zap.Logger, error) {
	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Encoding == "console",
		Encoding:         cfg.Encoding,
		EncoderConfig:    encoderConfig(),
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}
	return zapConfig.Build(
		zap.AddCallerSkip(callerSkip),
		zap.AddStacktrace(zapcore.DPanicLevel),
	)
}
