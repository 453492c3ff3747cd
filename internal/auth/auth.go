// Package auth verifies the bearer tokens issued by the identity provider and
// carries the resulting user id through the request context.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned by verifiers for any token they reject.
var ErrInvalidToken = errors.New("invalid token")

// Verifier resolves a raw bearer token to the id of the signed-in user.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type ctxKey struct{}

// WithUserID returns a copy of ctx carrying uid.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, uid)
}

// UserID returns the user id stored by WithUserID, or "" when the request is
// unauthenticated.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(ctxKey{}).(string)
	return uid
}
