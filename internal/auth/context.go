// Package auth carries the signed-in user through a request context.
package auth

import (
	"context"
	"time"
)

type identityKey struct{}

// Identity is attached by the session middleware once a cookie checks out.
type Identity struct {
	UserID    int64
	SessionID int64
	ExpiresAt time.Time
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext reports the request's identity. The bool is false on
// routes outside the session middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// UserID returns the owner id used to scope every query, or 0.
func UserID(ctx context.Context) int64 {
	id, _ := FromContext(ctx)
	return id.UserID
}

func SessionID(ctx context.Context) int64 {
	id, _ := FromContext(ctx)
	return id.SessionID
}
