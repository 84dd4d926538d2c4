package httpx

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

// SessionVerifier accepts only session tokens (no purpose claim).
type SessionVerifier interface {
	VerifySession(token string) (jwtx.Claims, error)
}

// SessionAuthn requires a valid session token, taken from the Authorization
// header or, failing that, from the named cookie.
func SessionAuthn(v SessionVerifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := SessionToken(r, cookieName)
			if raw == "" {
				writeBearerError(w, "missing session token")
				return
			}

			claims, err := v.VerifySession(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("session verify failed", slog.Any("error", err))
				writeBearerError(w, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

// SessionToken extracts a bearer token or session cookie value.
func SessionToken(r *http.Request, cookieName string) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireRole rejects callers whose session role is not in roles. It must run
// after SessionAuthn.
func RequireRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || !slices.Contains(roles, claims.Role) {
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750 style challenge with a JSON body.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
