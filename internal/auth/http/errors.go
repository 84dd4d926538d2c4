package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/tillauth/internal/auth/service"
	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

// errorMapping is checked in order, so wrapped sentinels must come before
// the ones they wrap.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrIdentityNotFound, http.StatusNotFound, authsdk.ErrorCodeIdentityNotFound},
	{service.ErrAccountInactive, http.StatusForbidden, authsdk.ErrorCodeAccountInactive},
	{service.ErrLoginMethodDisabled, http.StatusForbidden, authsdk.ErrorCodeLoginMethodDisabled},
	{service.ErrMissingSecret, http.StatusBadRequest, authsdk.ErrorCodeMissingSecret},
	{service.ErrSecretNotSet, http.StatusConflict, authsdk.ErrorCodeSecretNotSet},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials},

	{service.ErrOTPNotFound, http.StatusBadRequest, authsdk.ErrorCodeOTPNotFound},
	{service.ErrOTPInvalid, http.StatusBadRequest, authsdk.ErrorCodeOTPInvalid},
	{service.ErrOTPExpired, http.StatusGone, authsdk.ErrorCodeOTPExpired},
	{service.ErrOTPBlocked, http.StatusForbidden, authsdk.ErrorCodeOTPBlocked},

	{service.ErrSecurityAnswerMismatch, http.StatusUnauthorized, authsdk.ErrorCodeSecurityAnswer},
	{service.ErrUnknownQuestion, http.StatusBadRequest, authsdk.ErrorCodeValidation},
	{service.ErrEmptyAnswer, http.StatusBadRequest, authsdk.ErrorCodeValidation},

	{service.ErrTicketInvalid, http.StatusBadRequest, authsdk.ErrorCodeTicketInvalid},
	{service.ErrTicketExpired, http.StatusGone, authsdk.ErrorCodeTicketExpired},
	{service.ErrTicketBlocked, http.StatusForbidden, authsdk.ErrorCodeTicketBlocked},
	{service.ErrPINNotApplicable, http.StatusConflict, authsdk.ErrorCodeConflict},

	{service.ErrTokenInvalid, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken},
	{service.ErrWeakSecret, http.StatusBadRequest, authsdk.ErrorCodeWeakSecret},
	{service.ErrOpenShift, http.StatusConflict, authsdk.ErrorCodeShiftOpen},
	{service.ErrUnknownRealm, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest},

	{service.ErrAccountExists, http.StatusConflict, authsdk.ErrorCodeConflict},
	{service.ErrInvalidAccountID, http.StatusBadRequest, authsdk.ErrorCodeValidation},
	{service.ErrInvalidRole, http.StatusBadRequest, authsdk.ErrorCodeValidation},
	{service.ErrInvalidUsername, http.StatusBadRequest, authsdk.ErrorCodeValidation},
	{service.ErrInvalidEmail, http.StatusBadRequest, authsdk.ErrorCodeValidation},
	{service.ErrInvalidDisplayName, http.StatusBadRequest, authsdk.ErrorCodeValidation},

	{service.ErrBootstrapAlready, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized},
	{service.ErrBootstrapUnauthorized, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized},
}

// apiError converts a service error to its wire form. Unknown errors become
// a 500 without detail.
func apiError(err error) *authsdk.APIError {
	var lockErr *service.LockError
	if errors.As(err, &lockErr) {
		code := authsdk.ErrorCodeAccountLocked
		if lockErr.Status.Permanent {
			code = authsdk.ErrorCodeAccountLockedPerm
		}
		return &authsdk.APIError{
			StatusCode:       http.StatusLocked,
			Code:             code,
			Description:      lockErr.Error(),
			Permanent:        lockErr.Status.Permanent,
			RemainingSeconds: lockErr.Status.RemainingSeconds,
		}
	}

	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return authsdk.NewAPIError(m.status, m.code, m.err.Error())
		}
	}
	return authsdk.ErrServerError
}

// writeServiceError logs unexpected errors and writes the mapped response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apiError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
	}
	apiErr.WriteError(w)
}

func writeValidationError(w http.ResponseWriter, details map[string]string) {
	(&authsdk.APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        authsdk.ErrorCodeValidation,
		Description: "validation failed for some fields",
		Details:     details,
	}).WriteError(w)
}
