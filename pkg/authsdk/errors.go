package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tillauth/pkg/httpx"
)

// Error codes returned in the "error" field.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeValidation          = "validation_error"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeIdentityNotFound    = "identity_not_found"
	ErrorCodeAccountInactive     = "account_inactive"
	ErrorCodeLoginMethodDisabled = "login_method_disabled"
	ErrorCodeMissingSecret       = "missing_secret"
	ErrorCodeSecretNotSet        = "secret_not_set"
	ErrorCodeAccountLocked       = "account_locked"
	ErrorCodeAccountLockedPerm   = "account_locked_permanently"
	ErrorCodeCooldownActive      = "cooldown_active"
	ErrorCodeOTPInvalid          = "otp_invalid"
	ErrorCodeOTPExpired          = "otp_expired"
	ErrorCodeOTPBlocked          = "otp_blocked"
	ErrorCodeOTPNotFound         = "otp_not_found"
	ErrorCodeSecurityAnswer      = "security_answer_mismatch"
	ErrorCodeTicketInvalid       = "ticket_invalid"
	ErrorCodeTicketExpired       = "ticket_expired"
	ErrorCodeTicketBlocked       = "ticket_blocked"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeWeakSecret          = "weak_secret"
	ErrorCodeShiftOpen           = "shift_open"
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeConflict            = "conflict"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeRateLimited         = "rate_limit_exceeded"
	ErrorCodeServerError         = "server_error"
)

// APIError is the JSON error body of every failed request. The server writes
// it with WriteError and the client decodes it from non-2xx responses.
type APIError struct {
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`

	// Set on account_locked and account_locked_permanently.
	Permanent        bool  `json:"permanent,omitempty"`
	RemainingSeconds int64 `json:"remaining_seconds,omitempty"`

	// Set on cooldown_active.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Set on validation_error, keyed by request field.
	Details map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as the response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

// NewAPIError builds an APIError.
func NewAPIError(status int, code, description string) *APIError {
	return &APIError{StatusCode: status, Code: code, Description: description}
}

// Predefined errors that carry no per-request data.
var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the token is missing, invalid or expired",
	}

	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "access denied",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response body into *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err == nil && apiErr.Code != "" {
		return apiErr
	}

	apiErr.Code = ErrorCodeServerError
	apiErr.Description = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	return apiErr
}
