package userctx

import (
	"context"

	"github.com/nkiryanov/movierater/internal/models"
)

type ctxKey struct{}

// New returns context carrying authenticated user
func New(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext extracts authenticated user
func FromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(models.User)
	return u, ok
}

// MustFromContext is FromContext for handlers behind auth middleware
// Panics if there is no user: the route is not protected
func MustFromContext(ctx context.Context) models.User {
	u, ok := FromContext(ctx)
	if !ok {
		panic("userctx: no authenticated user in context")
	}
	return u
}
