package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger adapts a sugared zap logger to the Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *zapLogger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *zapLogger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *zapLogger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// ParseLevel maps a config level name to a zap level. Unknown names fall back
// to info. LMON_DEBUG overrides whatever was configured.
func ParseLevel(name string) zapcore.Level {
	if os.Getenv(DebugEnv) != "" {
		return zapcore.DebugLevel
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewZapWriter builds a JSON-lines logger writing to w.
func NewZapWriter(w io.Writer, level zapcore.Level) Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		FunctionKey:    zapcore.OmitKey,
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)

	return &zapLogger{sugar: zap.New(core).Sugar()}
}

// NewZapFile opens (or creates) path in append mode and returns a logger
// writing to it, plus a close function that flushes and closes the file.
func NewZapFile(path, level string) (Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := NewZapWriter(f, ParseLevel(level)).(*zapLogger)
	closeFn := func() error {
		_ = l.sugar.Sync()
		return f.Close()
	}
	return l, closeFn, nil
}

// Named returns a child logger tagged with a component name. Loggers that are
// not zap-backed get a bracketed prefix instead.
func Named(l Logger, name string) Logger {
	switch v := l.(type) {
	case *zapLogger:
		return &zapLogger{sugar: v.sugar.Named(name)}
	case *envLogger:
		return &envLogger{prefix: strings.TrimSpace(v.prefix + " [" + name + "]")}
	default:
		return l
	}
}
