package logger

import (
	"context"
	"io"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SelectorVar holds the comma or space separated list of enabled namespaces.
const SelectorVar = "DEBUG"

type ctxKey struct{}

// New creates a *zap.SugaredLogger writing console-formatted entries to w.
// A nil w writes to stderr.
func New(level zapcore.LevelEnabler, w io.Writer, options ...zap.Option) *zap.SugaredLogger {
	if w == nil {
		w = os.Stderr
	}

	//nolint:exhaustruct // Default encoder values are fine for the rest.
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		TimeKey:          "time",
		NameKey:          "logger",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core, options...).Sugar()
}

// ForNamespace returns a logger named ns that emits debug entries only when
// selector enables ns. Otherwise only warnings and above get through.
func ForNamespace(selector, ns string, w io.Writer) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if Enabled(selector, ns) {
		level = zapcore.DebugLevel
	}
	return New(zap.NewAtomicLevelAt(level), w).Named(ns)
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// Enabled reports whether the DEBUG-style selector turns on namespace ns.
// Patterns may use '*' wildcards; a leading '-' excludes matching namespaces
// and exclusions win over inclusions.
func Enabled(selector, ns string) bool {
	fields := strings.FieldsFunc(selector, func(r rune) bool {
		return r == ',' || r == ' '
	})

	enabled := false
	for _, f := range fields {
		if strings.HasPrefix(f, "-") {
			if match(f[1:], ns) {
				return false
			}
			continue
		}
		if match(f, ns) {
			enabled = true
		}
	}
	return enabled
}

func match(pattern, ns string) bool {
	ok, err := path.Match(pattern, ns)
	return err == nil && ok
}

// ToContext stores l in ctx.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}
	return Nop()
}
