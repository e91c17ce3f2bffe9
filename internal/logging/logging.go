package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// Format specifies the output format for log messages.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// LevelTrace sits below debug and is used for per-request detail such as
// HTTP status codes of individual fallback tiers.
const LevelTrace = slog.Level(-8)

// EnvDebug enables debug (1, true) or trace (2) output without -v flags.
const EnvDebug = "RULINK_DEBUG"

// Config holds the configuration for creating a new logger.
type Config struct {
	Level  slog.Level
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
	// File, when set, receives a JSON copy of every record at Level.
	File io.Writer
}

// New creates a logger with the given configuration.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:       cfg.Level,
		ReplaceAttr: replaceLevel,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = NewHandler(output, opts)
	}

	if cfg.File != nil {
		handler = NewMultiHandler(handler, slog.NewJSONHandler(cfg.File, opts))
	}

	return slog.New(handler)
}

// replaceLevel renders LevelTrace as "TRACE" in JSON output.
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(lvl))
		}
	}
	return a
}

// LevelName returns the display name of lvl.
func LevelName(lvl slog.Level) string {
	if lvl <= LevelTrace {
		return "TRACE"
	}
	return lvl.String()
}

// ParseFormat maps a flag value onto a Format. Unknown values mean text.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// LevelFromVerbosity maps a -v count to a level.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// VerbosityFromEnv reads EnvDebug and returns the equivalent -v count.
func VerbosityFromEnv() int {
	switch strings.ToLower(os.Getenv(EnvDebug)) {
	case "1", "true":
		return 2
	case "2", "trace":
		return 3
	}
	return 0
}

// Default returns a logger at warn level in text format on stderr.
func Default() *slog.Logger {
	return New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: os.Stderr,
	})
}

// NewDiscard creates a logger that discards all output.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored by NewContext, or a discarding
// logger when there is none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return NewDiscard()
}

// testWriter adapts testing.T to io.Writer for use with slog handlers.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest creates a logger that writes to the test's log output at trace
// level.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{
		Level:  LevelTrace,
		Format: FormatText,
		Output: &testWriter{t: t},
	})
}
