package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/service"
	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/aussiebroadwan/tillauth/pkg/httpx"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the authentication system
//	@Description	Creates the first admin account. Only available when a bootstrap token is configured and no account exists yet.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token for authorization"
//	@Param			request				body		authsdk.BootstrapRequest	true	"Admin account"
//	@Success		201					{object}	authsdk.PublicAccount		"Created admin account"
//	@Failure		400					{object}	authsdk.APIError			"Invalid request body, validation failed or weak password"
//	@Failure		401					{object}	authsdk.APIError			"Missing or invalid bootstrap token, or system already bootstrapped"
//	@Failure		404					{object}	authsdk.APIError			"Bootstrap not enabled (no token configured)"
//	@Failure		500					{object}	authsdk.APIError			"Failed to create admin account"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		authsdk.NewAPIError(http.StatusNotFound, authsdk.ErrorCodeNotFound, "Bootstrap endpoint is not enabled").WriteError(w)
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
			"Bootstrap token is required in X-Bootstrap-Token header").WriteError(w)
		return
	}

	// 3. Parse request body and validate
	var req authsdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Request body must be valid JSON").WriteError(w)
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationError(w, errs)
		return
	}

	// 4. Perform bootstrap
	account, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		AccountID:   strings.TrimSpace(req.ID),
		Username:    strings.TrimSpace(req.Username),
		Email:       strings.TrimSpace(req.Email),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Password:    req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
				"System has already been bootstrapped").WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
				"Invalid bootstrap token").WriteError(w)
		default:
			writeServiceError(w, r, err)
		}
		return
	}

	// 5. Respond with the created account
	httpx.WriteJSON(w, http.StatusCreated, toPublicAccount(account.Public()))
}
