package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/aussiebroadwan/tillauth/pkg/httpx"
	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
)

// jwksMaxAge bounds how long tills and POS modules may cache the key set.
// It stays well below the key grace period so a rotated key is picked up
// before tokens signed by it stop verifying.
const jwksMaxAge = 5 * time.Minute

// JWKSHandler publishes the session and purpose token verification keys,
// retired keys included until their grace period ends.
//
//	@Summary		JSON Web Key Set
//	@Description	Public keys for verifying session and purpose tokens. Returns 503 while no key is loaded.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse
//	@Failure		503	{object}	authsdk.APIError
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !keys.IsReady() {
			w.Header().Set("Retry-After", "1")
			authsdk.NewAPIError(http.StatusServiceUnavailable, authsdk.ErrorCodeServerError, "no signing keys loaded").WriteError(w)
			return
		}
		httpx.WriteCacheableJSON(w, http.StatusOK, jwksMaxAge, authsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
