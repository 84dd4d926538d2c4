package httpx

import (
	"context"

	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
)

type ctxKey string

const (
	ctxKeyAccountID ctxKey = "account_id"
	ctxKeyClaims    ctxKey = "claims"
)

// WithClaims stores verified session claims in ctx.
func WithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxKeyAccountID, c.Subject)
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// ClaimsFromContext returns the session claims placed by SessionAuthn.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}

// AccountIDFromContext returns the authenticated account id, or "".
func AccountIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyAccountID).(string)
	return id
}
