package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/service"
	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/aussiebroadwan/tillauth/pkg/httpx"
)

// SessionCookie controls the cookie set on login.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (c SessionCookie) set(w http.ResponseWriter, token string, expiresAt time.Time) {
	if c.Name == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) clear(w http.ResponseWriter) {
	if c.Name == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type LoginHandler struct {
	LoginService *service.LoginService
	Realms       service.Realms
	Cookie       SessionCookie
}

// HandlePrecheck reports how an identifier logs in.
//
//	@Summary		Login precheck
//	@Description	Returns the secret kind to prompt for (password or pin), whether a PIN still has to be set through a ticket, and the realm's lock state.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.PrecheckRequest		true	"Identifier and realm"
//	@Success		200		{object}	authsdk.PrecheckResponse	"Login mode and lock state"
//	@Failure		400		{object}	authsdk.APIError			"Malformed request or unknown realm"
//	@Failure		404		{object}	authsdk.APIError			"Identifier does not resolve to an account"
//	@Router			/v1/login/precheck [post].
func (h *LoginHandler) HandlePrecheck(w http.ResponseWriter, r *http.Request) {
	var req authsdk.PrecheckRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	realm, err := h.Realms.Resolve(req.Realm)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	pc, err := h.LoginService.Precheck(r.Context(), req.Identifier, realm)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.PrecheckResponse{
		Mode:             string(pc.Mode),
		PINUnset:         pc.PINUnset,
		Locked:           pc.Lock.Locked,
		Permanent:        pc.Lock.Permanent,
		RemainingSeconds: pc.Lock.RemainingSeconds,
	})
}

// HandleLogin authenticates and starts a session.
//
//	@Summary		Log in
//	@Description	Verifies a password or PIN for the identifier and returns a session token. The token is also set as an HttpOnly cookie.
//	@Description	Five consecutive failures lock the realm for 15 minutes, a sixth locks it until an administrator unlocks it.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse	"Session token and account"
//	@Failure		400		{object}	authsdk.APIError		"Malformed request, missing secret or unknown realm"
//	@Failure		401		{object}	authsdk.APIError		"Invalid credentials"
//	@Failure		403		{object}	authsdk.APIError		"Account inactive or login method disabled"
//	@Failure		404		{object}	authsdk.APIError		"Identifier does not resolve to an account"
//	@Failure		409		{object}	authsdk.APIError		"Secret not set"
//	@Failure		423		{object}	authsdk.APIError		"Realm locked"
//	@Failure		429		{object}	authsdk.APIError		"Rate limit exceeded"
//	@Router			/v1/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	realm, err := h.Realms.Resolve(req.Realm)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.LoginService.Login(r.Context(), req.Identifier, req.Secret, realm, req.RememberMe)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookie.set(w, res.Token, res.ExpiresAt)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Account:   toPublicAccount(res.Account),
	})
}

// HandleLogout ends the session.
//
//	@Summary		Log out
//	@Description	Clears the session cookie. Refused while the account has an unremitted shift.
//	@Tags			Login
//	@Security		BearerAuth
//	@Success		204	"Logged out"
//	@Failure		401	{object}	authsdk.APIError	"Missing or invalid session"
//	@Failure		409	{object}	authsdk.APIError	"Open shift must be remitted first"
//	@Router			/v1/logout [post].
func (h *LoginHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.LoginService.Logout(r.Context(), claims); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookie.clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func toPublicAccount(a domain.PublicAccount) authsdk.PublicAccount {
	return authsdk.PublicAccount{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        string(a.Role),
	}
}
