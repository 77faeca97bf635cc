package logger

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	globalLogger *logger
	initOnce     sync.Once
	mu           sync.RWMutex
)

type logger struct {
	zapLogger *zap.Logger
}

// Init configures the global logger. Subsequent calls are no-ops.
func Init(levelStr string, asJSON bool) error {
	var initErr error

	initOnce.Do(func() {
		level := zap.NewAtomicLevel()
		if err := level.UnmarshalText([]byte(levelStr)); err != nil {
			initErr = err
			return
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		var encoder zapcore.Encoder
		if asJSON {
			encoder = zapcore.NewJSONEncoder(encoderCfg)
		} else {
			encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoder = zapcore.NewConsoleEncoder(encoderCfg)
		}

		core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)

		mu.Lock()
		globalLogger = &logger{
			zapLogger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
		}
		mu.Unlock()
	})

	return initErr
}

// L returns the global logger. Falls back to a no-op logger before Init.
func L() *logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()

	if l == nil {
		return &logger{zapLogger: zap.NewNop()}
	}
	return l
}

// SetNopLogger replaces the global logger with a no-op one. Used in tests.
func SetNopLogger() {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = &logger{zapLogger: zap.NewNop()}
}

func Sync() error {
	return L().zapLogger.Sync()
}

// With returns a child of the global logger carrying the given fields.
func With(fields ...Field) *logger {
	return &logger{zapLogger: L().zapLogger.With(fields...)}
}

// WithContext stores fields in ctx; they are appended to every record logged with it.
func WithContext(ctx context.Context, fields ...Field) context.Context {
	existing, _ := ctx.Value(ctxKey{}).([]Field)
	merged := make([]Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func fieldsFromContext(ctx context.Context, fields []Field) []Field {
	if ctx == nil {
		return fields
	}
	ctxFields, ok := ctx.Value(ctxKey{}).([]Field)
	if !ok || len(ctxFields) == 0 {
		return fields
	}
	return append(ctxFields[:len(ctxFields):len(ctxFields)], fields...)
}

func (l *logger) With(fields ...Field) *logger {
	return &logger{zapLogger: l.zapLogger.With(fields...)}
}

func (l *logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.zapLogger.Debug(msg, fieldsFromContext(ctx, fields)...)
}

func (l *logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.zapLogger.Info(msg, fieldsFromContext(ctx, fields)...)
}

func (l *logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.zapLogger.Warn(msg, fieldsFromContext(ctx, fields)...)
}

func (l *logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.zapLogger.Error(msg, fieldsFromContext(ctx, fields)...)
}

func (l *logger) Fatal(ctx context.Context, msg string, fields ...Field) {
	l.zapLogger.Fatal(msg, fieldsFromContext(ctx, fields)...)
}

// Zap exposes the underlying logger for libraries that need it directly.
func (l *logger) Zap() *zap.Logger { return l.zapLogger }

func Debug(ctx context.Context, msg string, fields ...Field) { L().Debug(ctx, msg, fields...) }
func Info(ctx context.Context, msg string, fields ...Field)  { L().Info(ctx, msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...Field)  { L().Warn(ctx, msg, fields...) }
func Error(ctx context.Context, msg string, fields ...Field) { L().Error(ctx, msg, fields...) }
func Fatal(ctx context.Context, msg string, fields ...Field) { L().Fatal(ctx, msg, fields...) }
