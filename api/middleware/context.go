package middleware

import "context"

type contextKey string

const (
	ctxSessionID   contextKey = "session_id"
	ctxSessionKind contextKey = "session_kind"
)

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

func SessionKindFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionKind).(string); ok {
		return v
	}
	return ""
}

// WithSession injects the resolved session into the context for downstream
// handlers.
func WithSession(ctx context.Context, sessionID, kind string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxSessionID, sessionID)
	return context.WithValue(ctx, ctxSessionKind, kind)
}
