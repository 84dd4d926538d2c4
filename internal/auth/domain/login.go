package domain

import "time"

// IdentifierType is how a login identifier was classified.
type IdentifierType string

const (
	IdentifierAccountID IdentifierType = "account_id"
	IdentifierUsername  IdentifierType = "username"
	IdentifierEmail     IdentifierType = "email"
)

type LoginMode string

const (
	LoginModePassword LoginMode = "password"
	LoginModePIN      LoginMode = "pin"
)

// Precheck is what a client needs to render the secret prompt.
type Precheck struct {
	Mode     LoginMode
	PINUnset bool
	Lock     LockStatus
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   PublicAccount
}
