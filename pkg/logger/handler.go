package logger

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces the value of every attribute whose key is redacted.
const Redacted = "[REDACTED]"

// DefaultRedactedKeys are masked by every logger built with New.
var DefaultRedactedKeys = []string{"secret", "master_secret", "seed", "password", "passphrase"}

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// ContextHandler adds attributes taken from the context of each record and
// masks attributes that may carry key material.
type ContextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
	redact     map[string]struct{}
}

// NewContextHandler wraps next. Keys are matched case-insensitively, also
// inside groups.
func NewContextHandler(next slog.Handler, redactKeys []string, extractors ...ContextExtractor) *ContextHandler {
	h := &ContextHandler{next: next, redact: make(map[string]struct{}, len(redactKeys))}
	for _, ex := range extractors {
		if ex != nil {
			h.extractors = append(h.extractors, ex)
		}
	}
	for _, k := range redactKeys {
		h.redact[strings.ToLower(k)] = struct{}{}
	}
	return h
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if len(h.extractors) == 0 && len(h.redact) == 0 {
		return h.next.Handle(ctx, rec)
	}

	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.mask(a))
		return true
	})
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			out.AddAttrs(h.mask(attr))
		}
	}
	return h.next.Handle(ctx, out)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &ContextHandler{next: h.next.WithAttrs(masked), extractors: h.extractors, redact: h.redact}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name), extractors: h.extractors, redact: h.redact}
}

func (h *ContextHandler) mask(a slog.Attr) slog.Attr {
	if _, ok := h.redact[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, Redacted)
	}
	if a.Value.Kind() != slog.KindGroup {
		return a
	}
	group := a.Value.Group()
	masked := make([]any, len(group))
	for i, g := range group {
		masked[i] = h.mask(g)
	}
	return slog.Group(a.Key, masked...)
}
