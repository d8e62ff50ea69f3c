package httpserver

import (
	"context"

	"tasktracker/internal/model"
)

type ctxKey string

const identityKey ctxKey = "tt.identity"

// WithIdentity stores the authenticated identity in context.
func WithIdentity(ctx context.Context, ident *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromCtx fetches the identity from context. A nil identity means
// the request carried no valid token.
func IdentityFromCtx(ctx context.Context) *model.Identity {
	if ident, ok := ctx.Value(identityKey).(*model.Identity); ok {
		return ident
	}
	return nil
}
