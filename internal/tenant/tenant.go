// Package tenant carries the caller's school and credentials through a request so the
// GraphQL client can forward them upstream. Tokens are forwarded as-is, never verified.
package tenant

import (
	"context"
	"net/http"
)

const (
	// AuthorizationHeader is forwarded verbatim to the backend.
	AuthorizationHeader = "Authorization"
	// SchoolIDHeader selects the school (tenant) on the backend.
	SchoolIDHeader = "X-School-ID"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	authorizationKey contextKey = "authorization"
	schoolIDKey      contextKey = "school_id"
)

// WithAuthorization stores the Authorization header value in the context.
func WithAuthorization(ctx context.Context, authorization string) context.Context {
	return context.WithValue(ctx, authorizationKey, authorization)
}

// WithSchoolID stores the school id in the context.
func WithSchoolID(ctx context.Context, schoolID string) context.Context {
	return context.WithValue(ctx, schoolIDKey, schoolID)
}

// Authorization returns the Authorization header value, empty if not set.
func Authorization(ctx context.Context) string {
	v, _ := ctx.Value(authorizationKey).(string)
	return v
}

// SchoolID returns the school id, empty if not set.
func SchoolID(ctx context.Context) string {
	v, _ := ctx.Value(schoolIDKey).(string)
	return v
}

// FromHeader copies the tenant headers of an incoming request into the context.
func FromHeader(ctx context.Context, h http.Header) context.Context {
	if v := h.Get(AuthorizationHeader); v != "" {
		ctx = WithAuthorization(ctx, v)
	}
	if v := h.Get(SchoolIDHeader); v != "" {
		ctx = WithSchoolID(ctx, v)
	}
	return ctx
}

// ApplyHeader sets the tenant headers stored in the context on an outgoing request.
func ApplyHeader(ctx context.Context, h http.Header) {
	if v := Authorization(ctx); v != "" {
		h.Set(AuthorizationHeader, v)
	}
	if v := SchoolID(ctx); v != "" {
		h.Set(SchoolIDHeader, v)
	}
}
