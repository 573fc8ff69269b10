// Package observability carries request-scoped log attributes through context.Context.
package observability

import (
	"context"
	"log/slog"

	"github.com/projectsol/solclient/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RequestID   string
	ChallengeID string
	ContainerID string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithChallengeID adds a challenge ID to the context.
func WithChallengeID(ctx context.Context, challengeID string) context.Context {
	lc := extractLogContext(ctx)
	lc.ChallengeID = challengeID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithContainerID adds a mission container ID to the context.
func WithContainerID(ctx context.Context, containerID string) context.Context {
	lc := extractLogContext(ctx)
	lc.ContainerID = containerID
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := make([]slog.Attr, 0, 3)
	if lc.RequestID != "" {
		attrs = append(attrs, logfields.RequestID(lc.RequestID))
	}
	if lc.ChallengeID != "" {
		attrs = append(attrs, logfields.ChallengeID(lc.ChallengeID))
	}
	if lc.ContainerID != "" {
		attrs = append(attrs, logfields.ContainerID(lc.ContainerID))
	}
	return attrs
}

// ContextHandler adds the LogContext of each record's context to the record.
// Attributes already on the record win.
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := getLogAttrs(ctx); len(attrs) > 0 {
		present := make(map[string]bool, r.NumAttrs())
		r.Attrs(func(a slog.Attr) bool {
			present[a.Key] = true
			return true
		})
		for _, a := range attrs {
			if !present[a.Key] {
				r.AddAttrs(a)
			}
		}
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
