package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// Logger is the structured logging surface components depend on.
type Logger interface {
	InfoObj(msg, key string, obj any)
	DebugObj(msg, key string, obj any)
	WarnObj(msg, key string, obj any)
	ErrorObj(msg, key string, obj any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (*NopLogger) InfoObj(string, string, any)  {}
func (*NopLogger) DebugObj(string, string, any) {}
func (*NopLogger) WarnObj(string, string, any)  {}
func (*NopLogger) ErrorObj(string, string, any) {}

// zapLogger logs every object as a single structured field.
type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) InfoObj(msg, key string, obj any)  { z.l.Info(msg, zap.Any(key, obj)) }
func (z *zapLogger) DebugObj(msg, key string, obj any) { z.l.Debug(msg, zap.Any(key, obj)) }
func (z *zapLogger) WarnObj(msg, key string, obj any)  { z.l.Warn(msg, zap.Any(key, obj)) }
func (z *zapLogger) ErrorObj(msg, key string, obj any) { z.l.Error(msg, zap.Any(key, obj)) }

// ParseLevel maps a config string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init initializes the package logger at the given level and returns it.
func Init(level string) (Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stderr)),
		ParseLevel(level),
	)

	l := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	S = l.Sugar()
	return New(l), nil
}

// New wraps an existing zap logger.
func New(l *zap.Logger) Logger {
	if l == nil {
		return &NopLogger{}
	}
	return &zapLogger{l: l}
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// Package level helpers write obj as the field key on S. They are no-ops before Init.
func InfoObj(msg, key string, obj any)  { logObj(zapcore.InfoLevel, msg, key, obj) }
func DebugObj(msg, key string, obj any) { logObj(zapcore.DebugLevel, msg, key, obj) }
func WarnObj(msg, key string, obj any)  { logObj(zapcore.WarnLevel, msg, key, obj) }
func ErrorObj(msg, key string, obj any) { logObj(zapcore.ErrorLevel, msg, key, obj) }

func logObj(level zapcore.Level, msg, key string, obj any) {
	if S == nil {
		return
	}
	if ce := S.Desugar().WithOptions(zap.AddCallerSkip(2)).Check(level, msg); ce != nil {
		ce.Write(zap.Any(key, obj))
	}
}
