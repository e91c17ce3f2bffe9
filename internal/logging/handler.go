package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/necolo/rulink/internal/redact"
)

// Handler implements slog.Handler for TTY-optimized text output.
// Colors are used only when the writer supports them.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string

	colors *palette
}

type palette struct {
	time, trace, debug, info, warn, err, key *color.Color
}

// NewHandler creates a new TTY-optimized text handler.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}

	if SupportsColor(out) {
		h.colors = &palette{
			time:  color.New(color.FgHiBlack),
			trace: color.New(color.FgHiBlack),
			debug: color.New(color.FgMagenta),
			info:  color.New(color.FgGreen),
			warn:  color.New(color.FgYellow),
			err:   color.New(color.FgRed, color.Bold),
			key:   color.New(color.FgCyan),
		}
	}

	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle writes one line per record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(h.paint(h.timeColor(), r.Time.Format(time.Kitchen)))
		b.WriteByte(' ')
	}

	fmt.Fprintf(&b, "%-5s ", h.paint(h.levelColor(r.Level), LevelName(r.Level)))
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&b, a.Key, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.prefix+a.Key, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) timeColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.time
}

func (h *Handler) levelColor(level slog.Level) *color.Color {
	if h.colors == nil {
		return nil
	}
	switch {
	case level >= slog.LevelError:
		return h.colors.err
	case level >= slog.LevelWarn:
		return h.colors.warn
	case level >= slog.LevelInfo:
		return h.colors.info
	case level > LevelTrace:
		return h.colors.debug
	default:
		return h.colors.trace
	}
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) appendAttr(b *strings.Builder, key string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	value := a.Value.Resolve().Any()

	// Redact sensitive values
	if redact.IsSecretKey(a.Key) {
		value = redact.Value(fmt.Sprint(value))
	} else if s, ok := value.(string); ok && redact.HasTokenPrefix(s) {
		value = redact.Value(s)
	}

	var keyColor *color.Color
	if h.colors != nil {
		keyColor = h.colors.key
	}
	fmt.Fprintf(b, " %s=%v", h.paint(keyColor, key), value)
}

// WithAttrs returns a new Handler with the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := *h
	newH.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newH.attrs = append(newH.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		newH.attrs = append(newH.attrs, a)
	}
	return &newH
}

// WithGroup returns a new Handler whose keys are prefixed with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.prefix = h.prefix + name + "."
	return &newH
}
