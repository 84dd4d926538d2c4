package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/service"
	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/aussiebroadwan/tillauth/pkg/httpx"
)

// AccountHandler serves the session owner's endpoints.
type AccountHandler struct {
	AccountService          *service.AccountService
	SecurityQuestionService *service.SecurityQuestionService
}

// HandleMe returns the session's account.
//
//	@Summary		Current session
//	@Tags			Account
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.MeResponse	"Account, realm and session expiry"
//	@Failure		401	{object}	authsdk.APIError	"Missing or invalid session"
//	@Router			/v1/me [get].
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	account, err := h.AccountService.GetByID(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MeResponse{
		Account:   toPublicAccount(account.Public()),
		Realm:     claims.Realm,
		ExpiresAt: claims.ExpiresAtTime(),
	})
}

// HandleSetSecurityQuestion replaces the caller's question and answer.
//
//	@Summary		Set security question
//	@Description	Stores one question from the catalog with a normalized, hashed answer, replacing any previous pair.
//	@Tags			Account
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.SetSecurityQuestionRequest	true	"Question and answer"
//	@Success		204		"Saved"
//	@Failure		400		{object}	authsdk.APIError	"Unknown question or empty answer"
//	@Failure		401		{object}	authsdk.APIError	"Missing or invalid session"
//	@Router			/v1/me/security-question [put].
func (h *AccountHandler) HandleSetSecurityQuestion(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SetSecurityQuestionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	accountID := httpx.AccountIDFromContext(r.Context())
	if err := h.SecurityQuestionService.SetAnswer(r.Context(), accountID, req.QuestionID, req.Answer); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleQuestions lists the security-question catalog.
//
//	@Summary		Security-question catalog
//	@Tags			Account
//	@Produce		json
//	@Success		200	{object}	authsdk.SecurityQuestionsResponse	"Questions"
//	@Router			/v1/security-questions [get].
func (h *AccountHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.SecurityQuestionsResponse{
		Questions: toQuestions(h.SecurityQuestionService.Questions()),
	})
}

// AdminHandler serves the administrator endpoints. Every route requires an
// admin session.
type AdminHandler struct {
	AccountService *service.AccountService
	Ledger         *service.LockoutLedger
	TicketService  *service.TicketService
	Realms         service.Realms
}

// HandleCreateAccount creates an account.
//
//	@Summary		Create account
//	@Description	Creates an account with its username and email aliases. Password roles need a secret; PIN roles start without one and receive a ticket.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CreateAccountRequest	true	"Account"
//	@Success		201		{object}	authsdk.PublicAccount			"Created account"
//	@Failure		400		{object}	authsdk.APIError				"Validation failed or weak secret"
//	@Failure		403		{object}	authsdk.APIError				"Not an administrator"
//	@Failure		409		{object}	authsdk.APIError				"Id, username or email taken"
//	@Router			/v1/admin/accounts [post].
func (h *AdminHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateAccountRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationError(w, errs)
		return
	}
	role := domain.Role(req.Role)
	if role.UsesPIN() && req.Secret != "" {
		writeValidationError(w, map[string]string{"secret": "must be empty for PIN roles"})
		return
	}

	methods := make([]domain.IdentifierType, len(req.LoginMethods))
	for i, m := range req.LoginMethods {
		methods[i] = domain.IdentifierType(m)
	}

	account, err := h.AccountService.Create(r.Context(), domain.NewAccountData{
		ID:           req.ID,
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		DisplayName:  req.DisplayName,
		Role:         role,
		Password:     req.Secret,
		LoginMethods: methods,
	}, httpx.AccountIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPublicAccount(account.Public()))
}

// HandleUnlock clears lockout state.
//
//	@Summary		Unlock account
//	@Description	Clears the failure counter and any temporary or permanent lock. An empty realm clears every realm, security-question realms included.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Param			id		path	string					true	"Account id"
//	@Param			request	body	authsdk.UnlockRequest	false	"Realm to clear"
//	@Success		204		"Unlocked"
//	@Failure		400		{object}	authsdk.APIError	"Unknown realm"
//	@Failure		403		{object}	authsdk.APIError	"Not an administrator"
//	@Failure		404		{object}	authsdk.APIError	"Unknown account"
//	@Router			/v1/admin/accounts/{id}/unlock [post].
func (h *AdminHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UnlockRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
	}

	var realm domain.Realm
	if req.Realm != "" {
		var err error
		if realm, err = h.Realms.ResolveLedger(req.Realm); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	err := h.Ledger.Unlock(r.Context(), r.PathValue("id"), realm, httpx.AccountIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleIssueTicket issues a PIN reset ticket.
//
//	@Summary		Issue PIN reset ticket
//	@Description	Creates a single-use 8-digit ticket valid for 24 hours, superseding any pending ticket. The code is only returned here.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string					true	"Account id"
//	@Success		201	{object}	authsdk.TicketResponse	"Ticket"
//	@Failure		403	{object}	authsdk.APIError		"Not an administrator or account inactive"
//	@Failure		404	{object}	authsdk.APIError		"Unknown account"
//	@Failure		409	{object}	authsdk.APIError		"Account does not use a PIN"
//	@Router			/v1/admin/accounts/{id}/tickets [post].
func (h *AdminHandler) HandleIssueTicket(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	code, expiresAt, err := h.TicketService.Issue(r.Context(), accountID, httpx.AccountIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, authsdk.TicketResponse{
		AccountID: accountID,
		Code:      code,
		ExpiresAt: expiresAt,
	})
}
