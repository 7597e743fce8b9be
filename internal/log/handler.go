package log

import (
	"context"
	"io"
	"log/slog"
)

// SecureHandler wraps an slog.Handler and masks sensitive attributes
// before they reach it. Groups are sanitized recursively.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next. A nil next uses slog.Default().Handler().
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle copies r with sanitized attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(sanitize(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs sanitizes attrs before attaching them.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = sanitize(a)
	}
	return &SecureHandler{next: h.next.WithAttrs(clean)}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

func sanitize(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, g := range group {
			clean[i] = sanitize(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		if isSensitiveValue(v) {
			return slog.String(a.Key, MaskValue)
		}
		if r := redactURL(v); r != v {
			return slog.String(a.Key, r)
		}
	}
	return a
}

// Level returns the minimum level for the given verbosity:
// Debug when verbose, otherwise Warn.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// New returns a sanitizing logger writing to w, as JSON when jsonFormat
// is set and as logfmt-style text otherwise.
func New(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(verbose)}

	var h slog.Handler
	if jsonFormat {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewSecureHandler(h))
}
