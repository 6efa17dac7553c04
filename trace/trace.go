// Package trace carries request correlation identifiers through a context so
// every outbound API call can be matched against backend logs.
package trace

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	requestIDKey contextKey = "request_id"

	// HeaderXRequestID is the header used to send the request ID to the backend
	HeaderXRequestID = "X-Request-ID"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the request ID stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// EnsureRequestID returns the request ID from ctx or generates a new UUID.
func EnsureRequestID(ctx context.Context) string {
	if id, ok := RequestIDFromContext(ctx); ok {
		return id
	}
	return NewRequestID()
}

// NewRequestID generates a fresh request identifier.
func NewRequestID() string {
	return uuid.NewString()
}
