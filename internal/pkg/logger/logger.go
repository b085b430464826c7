package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var global = zap.NewNop()

// Init replaces the process logger. Level is one of zap's level names.
func Init(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	SetLogger(l)
	return nil
}

// SetLogger is used by Init and by tests that want to observe output.
func SetLogger(l *zap.Logger) {
	global = l
}

func Sync() {
	_ = global.Sync()
}

// With returns a context whose log lines carry the given fields.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return context.WithValue(ctx, ctxKey{}, fromContext(ctx).With(fields...))
}

func fromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return global
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Sugar().Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Sugar().Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Sugar().Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Sugar().Errorf(format, args...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	fromContext(ctx).Info(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	fromContext(ctx).Error(msg, fields...)
}

func Fatal(ctx context.Context, err error) {
	if err == nil {
		return
	}
	fromContext(ctx).Fatal(err.Error())
}
