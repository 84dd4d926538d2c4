package domain

import "time"

// TokenPurpose scopes a non-session token to one follow-up step. Session
// tokens have no purpose.
type TokenPurpose string

const (
	PurposePasswordReset           TokenPurpose = "password-reset"
	PurposeSecurityQuestionSession TokenPurpose = "security-question-session"
)

// PurposeGrant describes a purpose token to mint. Exactly one of AccountID or
// Email references the subject.
type PurposeGrant struct {
	Purpose     TokenPurpose
	AccountID   string
	Email       string
	Realm       Realm
	QuestionIDs []int
}

// IssuedToken is a signed token with its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}
