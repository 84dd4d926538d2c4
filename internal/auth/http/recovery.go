package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/service"
	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/aussiebroadwan/tillauth/pkg/httpx"
)

type RecoveryHandler struct {
	RecoveryService         *service.RecoveryService
	SecurityQuestionService *service.SecurityQuestionService
	Realms                  service.Realms
}

// HandleEmailStart issues a recovery code.
//
//	@Summary		Start email recovery
//	@Description	Emails a 6-digit code to the address if it belongs to an active account. The response is the same for unknown addresses.
//	@Description	While a code is pending, further requests are refused with cooldown_active and the pending code's expiry.
//	@Tags			Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EmailRecoveryRequest	true	"Email address"
//	@Success		202		{object}	authsdk.EmailRecoveryResponse	"Code issued"
//	@Failure		400		{object}	authsdk.APIError				"Malformed request"
//	@Failure		429		{object}	authsdk.APIError				"Cooldown active or rate limited"
//	@Router			/v1/recovery/email/start [post].
func (h *RecoveryHandler) HandleEmailStart(w http.ResponseWriter, r *http.Request) {
	h.issue(w, r, h.RecoveryService.StartByEmail)
}

// HandleEmailResend re-issues a recovery code.
//
//	@Summary		Resend email recovery code
//	@Description	Same semantics as start: refused with cooldown_active while a code is pending.
//	@Tags			Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EmailRecoveryRequest	true	"Email address"
//	@Success		202		{object}	authsdk.EmailRecoveryResponse	"Code issued"
//	@Failure		400		{object}	authsdk.APIError				"Malformed request"
//	@Failure		429		{object}	authsdk.APIError				"Cooldown active or rate limited"
//	@Router			/v1/recovery/email/resend [post].
func (h *RecoveryHandler) HandleEmailResend(w http.ResponseWriter, r *http.Request) {
	h.issue(w, r, h.RecoveryService.Resend)
}

func (h *RecoveryHandler) issue(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, email string) domain.IssueResult,
) {
	var req authsdk.EmailRecoveryRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.Email == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	switch res := fn(r.Context(), req.Email).(type) {
	case domain.IssueOK:
		httpx.WriteJSON(w, http.StatusAccepted, authsdk.EmailRecoveryResponse{ExpiresAt: res.ExpiresAt})
	case domain.IssueCooldown:
		expiresAt := res.ExpiresAt
		(&authsdk.APIError{
			StatusCode:  http.StatusTooManyRequests,
			Code:        authsdk.ErrorCodeCooldownActive,
			Description: "a code was already sent, wait until it expires",
			ExpiresAt:   &expiresAt,
		}).WriteError(w)
	case domain.IssueError:
		writeServiceError(w, r, res.Err)
	}
}

// HandleEmailVerify exchanges an emailed code for a reset token.
//
//	@Summary		Verify email recovery code
//	@Description	Consumes the pending code and returns a password-reset token valid for 15 minutes.
//	@Description	Five wrong codes block the pending code until it expires.
//	@Tags			Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyCodeRequest	true	"Email and code"
//	@Success		200		{object}	authsdk.ResetTokenResponse	"Reset token"
//	@Failure		400		{object}	authsdk.APIError			"No pending code or wrong code"
//	@Failure		403		{object}	authsdk.APIError			"Too many attempts"
//	@Failure		410		{object}	authsdk.APIError			"Code expired"
//	@Router			/v1/recovery/email/verify [post].
func (h *RecoveryHandler) HandleEmailVerify(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.Email == "" || req.Code == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	token, err := h.RecoveryService.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.ResetTokenResponse{
		ResetToken: token.Token,
		ExpiresAt:  token.ExpiresAt,
	})
}

// HandleSecurityQuestionStart opens a security-question session.
//
//	@Summary		Start security-question recovery
//	@Description	Returns a short-lived session token and the full question catalog.
//	@Tags			Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SecurityQuestionStartRequest	true	"Identifier and realm"
//	@Success		200		{object}	authsdk.SecurityQuestionStartResponse	"Session token and questions"
//	@Failure		400		{object}	authsdk.APIError						"Malformed request or unknown realm"
//	@Failure		404		{object}	authsdk.APIError						"Identifier does not resolve to an account"
//	@Router			/v1/recovery/security-question/start [post].
func (h *RecoveryHandler) HandleSecurityQuestionStart(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SecurityQuestionStartRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	realm, err := h.Realms.Resolve(req.Realm)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, catalog, err := h.SecurityQuestionService.Start(r.Context(), req.Identifier, realm)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.SecurityQuestionStartResponse{
		Token:     token.Token,
		Questions: toQuestions(catalog),
		ExpiresAt: token.ExpiresAt,
	})
}

// HandleSecurityQuestionVerify checks the answer.
//
//	@Summary		Verify security answer
//	@Description	Exactly one answer must be submitted. A wrong answer counts against the realm's security-question lockout, which is separate from login lockout.
//	@Tags			Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SecurityQuestionVerifyRequest	true	"Session token and answer"
//	@Success		200		{object}	authsdk.ResetTokenResponse				"Reset token"
//	@Failure		400		{object}	authsdk.APIError						"Malformed request"
//	@Failure		401		{object}	authsdk.APIError						"Answer mismatch"
//	@Failure		423		{object}	authsdk.APIError						"Security-question realm locked"
//	@Router			/v1/recovery/security-question/verify [post].
func (h *RecoveryHandler) HandleSecurityQuestionVerify(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SecurityQuestionVerifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	answers := make([]domain.SecurityAnswerSubmission, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = domain.SecurityAnswerSubmission{QuestionID: a.QuestionID, Answer: a.Answer}
	}

	token, err := h.SecurityQuestionService.Verify(r.Context(), req.Token, answers)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.ResetTokenResponse{
		ResetToken: token.Token,
		ExpiresAt:  token.ExpiresAt,
	})
}

// HandleReset applies a new secret.
//
//	@Summary		Reset password or PIN
//	@Description	Sets a new secret with a password-reset token. The secret must meet the account role's policy: 8+ characters for passwords, 4 to 6 digits for PINs. Tokens are single use.
//	@Tags			Recovery
//	@Accept			json
//	@Param			request	body	authsdk.ResetPasswordRequest	true	"Reset token and new secret"
//	@Success		204		"Secret updated"
//	@Failure		400		{object}	authsdk.APIError	"Malformed request or weak secret"
//	@Failure		401		{object}	authsdk.APIError	"Invalid, expired or used token"
//	@Router			/v1/recovery/reset [post].
func (h *RecoveryHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.RecoveryService.ResetPassword(r.Context(), req.ResetToken, req.NewSecret); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toQuestions(c domain.QuestionCatalog) []authsdk.SecurityQuestion {
	out := make([]authsdk.SecurityQuestion, len(c))
	for i, q := range c {
		out[i] = authsdk.SecurityQuestion{ID: q.ID, Text: q.Text}
	}
	return out
}
