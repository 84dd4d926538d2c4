package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/aussiebroadwan/tillauth/pkg/httpx"
	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Returns 200 while the process is serving requests. Dependencies are not checked.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, health("ok", startTime, version, nil))
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Returns 503 until the store answers a ping and at least one signing key is loaded.
//	@Description	Tills should not be routed to an instance that cannot issue sessions.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse
//	@Failure		503	{object}	authsdk.HealthResponse
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{Database: "ok", Signer: "ok"}
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
		}
		if !keys.IsReady() {
			checks.Signer = "error: no signing keys loaded"
		}

		if checks.Database != "ok" || checks.Signer != "ok" {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, health("degraded", startTime, version, checks))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, health("ok", startTime, version, checks))
	}
}

func health(status string, startTime time.Time, version string, checks *authsdk.HealthChecks) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
		Version: version,
		Checks:  checks,
	}
}
