package domain

import "time"

type OTPStatus string

const (
	OTPPending OTPStatus = "pending"
	OTPUsed    OTPStatus = "used"
	OTPExpired OTPStatus = "expired"
)

// OTPPurpose scopes a code. At most one pending code exists per
// (email, purpose).
type OTPPurpose string

const OTPPurposePasswordReset OTPPurpose = "password_reset"

// OTPRecord is a stored one-time code.
type OTPRecord struct {
	ID        string
	Email     string
	Purpose   OTPPurpose
	CodeHash  string
	Status    OTPStatus
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time
}

// IsExpired reports whether the code's validity window has passed.
func (r *OTPRecord) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IssueResult is the outcome of issuing a code: exactly one of IssueOK,
// IssueCooldown or IssueError.
type IssueResult interface {
	issueResult()
}

// IssueOK carries the plaintext code, which only ever leaves the service by
// mail.
type IssueOK struct {
	Code      string
	ExpiresAt time.Time
}

// IssueCooldown means a code is already pending until ExpiresAt.
type IssueCooldown struct {
	ExpiresAt time.Time
}

// IssueError wraps an infrastructure failure.
type IssueError struct {
	Err error
}

func (IssueOK) issueResult()       {}
func (IssueCooldown) issueResult() {}
func (IssueError) issueResult()    {}
