package authsdk

import (
	"time"

	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
)

// ============================================================================
// Login
// ============================================================================

// PrecheckRequest asks how an identifier should log in.
type PrecheckRequest struct {
	Identifier string `json:"identifier" example:"202500001"`
	Realm      string `json:"realm,omitempty" example:"primary"`
}

// PrecheckResponse tells the client which secret to prompt for.
type PrecheckResponse struct {
	// Mode is "password" or "pin".
	Mode string `json:"mode" example:"pin"`

	// PINUnset is true when a PIN account has no PIN and needs a ticket.
	PINUnset bool `json:"pin_unset"`

	Locked           bool  `json:"locked"`
	Permanent        bool  `json:"permanent"`
	RemainingSeconds int64 `json:"remaining_seconds,omitempty"`
}

// LoginRequest authenticates with a password or PIN.
type LoginRequest struct {
	Identifier string `json:"identifier" example:"jsmith"`
	Secret     string `json:"secret" example:"correct-horse"`
	Realm      string `json:"realm,omitempty" example:"primary"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Account   PublicAccount `json:"account"`
}

// PublicAccount is the account projection safe to return to clients.
type PublicAccount struct {
	ID          string `json:"id" example:"202500001"`
	Username    string `json:"username,omitempty" example:"jsmith"`
	Email       string `json:"email,omitempty" example:"jsmith@example.com"`
	DisplayName string `json:"display_name" example:"J. Smith"`
	Role        string `json:"role" example:"cashier"`
}

// MeResponse describes the current session.
type MeResponse struct {
	Account   PublicAccount `json:"account"`
	Realm     string        `json:"realm"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// ============================================================================
// Recovery
// ============================================================================

// EmailRecoveryRequest starts or resends an email recovery code.
type EmailRecoveryRequest struct {
	Email string `json:"email" example:"jsmith@example.com"`
}

// EmailRecoveryResponse reports when the issued code expires.
type EmailRecoveryResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyCodeRequest exchanges an emailed code for a reset token.
type VerifyCodeRequest struct {
	Email string `json:"email" example:"jsmith@example.com"`
	Code  string `json:"code" example:"123456"`
}

// ResetTokenResponse carries a password-reset purpose token.
type ResetTokenResponse struct {
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// SecurityQuestionStartRequest opens a security-question session.
type SecurityQuestionStartRequest struct {
	Identifier string `json:"identifier" example:"jsmith"`
	Realm      string `json:"realm,omitempty" example:"primary"`
}

// SecurityQuestionStartResponse lists the questions the client may answer.
type SecurityQuestionStartResponse struct {
	Token     string             `json:"token"`
	Questions []SecurityQuestion `json:"questions"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// SecurityQuestion is one catalog entry.
type SecurityQuestion struct {
	ID   int    `json:"id" example:"1"`
	Text string `json:"text" example:"What was the name of your first pet?"`
}

// SecurityAnswer answers one question.
type SecurityAnswer struct {
	QuestionID int    `json:"question_id" example:"1"`
	Answer     string `json:"answer" example:"Rex"`
}

// SecurityQuestionVerifyRequest submits answers under a session token.
type SecurityQuestionVerifyRequest struct {
	Token   string           `json:"token"`
	Answers []SecurityAnswer `json:"answers"`
}

// ResetPasswordRequest sets a new secret with a reset token.
type ResetPasswordRequest struct {
	ResetToken string `json:"reset_token"`
	NewSecret  string `json:"new_secret"`
}

// SecurityQuestionsResponse is the question catalog.
type SecurityQuestionsResponse struct {
	Questions []SecurityQuestion `json:"questions"`
}

// SetSecurityQuestionRequest replaces the caller's security question.
type SetSecurityQuestionRequest struct {
	QuestionID int    `json:"question_id" example:"2"`
	Answer     string `json:"answer" example:"Springfield"`
}

// ============================================================================
// Tickets
// ============================================================================

// TicketVerifyRequest checks a ticket without consuming it.
type TicketVerifyRequest struct {
	AccountID string `json:"account_id" example:"202500001"`
	Code      string `json:"code" example:"12345678"`
}

// TicketRedeemRequest sets a new PIN with a ticket.
type TicketRedeemRequest struct {
	AccountID string `json:"account_id" example:"202500001"`
	Code      string `json:"code" example:"12345678"`
	NewPIN    string `json:"new_pin" example:"4821"`
}

// TicketResponse is returned once when an admin issues a ticket.
type TicketResponse struct {
	AccountID string    `json:"account_id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ============================================================================
// Administration
// ============================================================================

// Login method names accepted in CreateAccountRequest.LoginMethods.
const (
	LoginMethodAccountID = "account_id"
	LoginMethodUsername  = "username"
	LoginMethodEmail     = "email"
)

// CreateAccountRequest creates an account with its aliases.
type CreateAccountRequest struct {
	ID          string `json:"id" example:"202500002"`
	Username    string `json:"username,omitempty" example:"mjones"`
	Email       string `json:"email,omitempty" example:"mjones@example.com"`
	DisplayName string `json:"display_name" example:"M. Jones"`
	Role        string `json:"role" example:"cashier"`

	// Secret is a password for password roles. It must be empty for PIN
	// roles, which set their PIN through a ticket.
	Secret string `json:"secret,omitempty"`

	// LoginMethods defaults to every method the account has an alias for.
	LoginMethods []string `json:"login_methods,omitempty"`
}

// UnlockRequest clears a lock. An empty realm clears every realm.
type UnlockRequest struct {
	Realm string `json:"realm,omitempty" example:"primary"`
}

// BootstrapRequest creates the first admin account.
type BootstrapRequest struct {
	ID          string `json:"id" example:"202500001"`
	Username    string `json:"username" example:"admin"`
	Email       string `json:"email,omitempty" example:"admin@example.com"`
	DisplayName string `json:"display_name" example:"Administrator"`
	Password    string `json:"password"`
}

// ============================================================================
// System
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse is the published key set.
type JWKSResponse jwtx.JWKS
