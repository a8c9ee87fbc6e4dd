// Package identity models the two classes of caller: a Cognito-authenticated
// user carrying a subject ID, and an IAM service principal used for trusted
// backend-to-backend calls. Exactly one of the two shapes is attached to a
// request context; there is no loosely-typed probing of optional fields.
package identity

import (
	"context"

	"github.com/jarrod-lowe/wildsea-sub001/game"
)

// Identity is the caller of a request.
type Identity interface {
	isIdentity()
}

// Cognito is a human caller authenticated via a user pool.
type Cognito struct {
	Sub string
}

// IAM is a non-human caller identified by its account and principal ARN. It
// bypasses ownership checks.
type IAM struct {
	AccountID string
	UserARN   string
}

func (Cognito) isIdentity() {}
func (IAM) isIdentity()     {}

type ctxKey struct{}

// WithIdentity attaches id to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From returns the identity attached to the context, if any.
func From(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// RequireSub returns the caller's subject ID, failing with Unauthorized when
// the identity is missing, is not a user, or has an empty subject.
func RequireSub(ctx context.Context) (string, error) {
	id, ok := From(ctx)
	if !ok {
		return "", game.Unauthorized()
	}
	user, ok := id.(Cognito)
	if !ok || user.Sub == "" {
		return "", game.Unauthorized()
	}
	return user.Sub, nil
}

// IsService reports whether the caller is an IAM service principal.
func IsService(ctx context.Context) bool {
	id, ok := From(ctx)
	if !ok {
		return false
	}
	svc, ok := id.(IAM)
	return ok && svc.AccountID != "" && svc.UserARN != ""
}
