package log

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// thin wrapper around zap so the rest of the code doesn't import zap directly

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

var (
	String     = zap.String
	Int        = zap.Int
	Int32      = zap.Int32
	Int64      = zap.Int64
	Uint32     = zap.Uint32
	Bool       = zap.Bool
	Time       = zap.Time
	Duration   = zap.Duration
	Any        = zap.Any
	ErrorField = zap.Error

	AddCallerSkip = zap.AddCallerSkip
)

func WithCaller(enabled bool) Option {
	return zap.WithCaller(enabled)
}

type Logger struct {
	l     *zap.Logger
	level Level
}

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) WithOptions(opts ...Option) *Logger {
	return &Logger{l: l.l.WithOptions(opts...), level: l.level}
}

func (l *Logger) Sugar() *zap.SugaredLogger { return l.l.Sugar() }

func (l *Logger) Sync() error { return l.l.Sync() }

// New creates a json logger writing to w with everything below level discarded.
func New(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		w = os.Stderr
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(w),
		zapcore.Level(level),
	)
	return &Logger{l: zap.New(core, opts...), level: level}
}

// DevLogger creates a console logger for local development and tests.
func DevLogger(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		w = os.Stderr
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(w),
		zapcore.Level(level),
	)
	return &Logger{l: zap.New(core, opts...), level: level}
}

// NewWithFilters wraps the logger core with zapfilter rules
// (e.g. "debug:service.* info:*") so subsystems can be tuned individually.
func NewWithFilters(w io.Writer, level Level, filters string, opts ...Option) *Logger {
	base := New(w, level, opts...)
	if filters == "" {
		return base
	}
	core := zapfilter.NewFilteringCore(base.l.Core(), zapfilter.MustParseRules(filters))
	return &Logger{l: zap.New(core, opts...), level: level}
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

var (
	std = New(os.Stderr, InfoLevel, WithCaller(true))
	// package level functions add one stack frame
	skipped = std.WithOptions(AddCallerSkip(1))
)

func Default() *Logger { return std }

// ResetDefault replaces the logger used by the package level functions.
func ResetDefault(l *Logger) {
	std = l
	skipped = l.WithOptions(AddCallerSkip(1))
}

func Debug(msg string, fields ...Field) { skipped.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { skipped.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { skipped.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { skipped.Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { skipped.Fatal(msg, fields...) }

func Fatalf(template string, args ...interface{}) {
	skipped.Sugar().Fatalf(template, args...)
}

type ctxKey struct{}

func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// GetFromContext returns the logger stored in ctx or the default logger.
func GetFromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return std
	}
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return std
}
