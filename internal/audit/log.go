// Package audit emits structured audit events for security-relevant
// console actions: logins, token rotations, permission denials, and
// data mutations.
package audit

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"adminconsole/internal/auth"
	"adminconsole/internal/obs"
)

type ctxKey struct{}

// WithRequestID attaches the request identifier to the context for audit
// logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestIDFromContext extracts the audit request id from context if
// present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes an audit entry enriched with request and principal
// context from ctx.
func LogEvent(ctx context.Context, event string, fields ...zap.Field) {
	event = strings.TrimSpace(event)
	if event == "" {
		return
	}
	entry := make([]zap.Field, 0, len(fields)+3)
	entry = append(entry, zap.String("type", "audit"))
	if rid := RequestIDFromContext(ctx); rid != "" {
		entry = append(entry, zap.String("request_id", rid))
	}
	if p, ok := auth.PrincipalFromContext(ctx); ok {
		entry = append(entry, zap.String("subject", p.Subject.UID))
	}
	entry = append(entry, fields...)
	obs.Logger().Info(event, entry...)
}
