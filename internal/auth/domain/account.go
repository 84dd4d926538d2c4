package domain

import "time"

// Role classes. Cashiers log in with a PIN, everyone else with a password.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// UsesPIN reports whether the role authenticates with a PIN.
func (r Role) UsesPIN() bool { return r == RoleCashier }

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusInactive  AccountStatus = "inactive"
	StatusSuspended AccountStatus = "suspended"
)

// DefaultAccountIDLength is the number of digits in an account id.
const DefaultAccountIDLength = 9

// Account is a login principal. PasswordHash and PINHash are mutually
// exclusive by role.
type Account struct {
	ID          string // fixed-length digits, e.g. 202500001
	Username    string // lowercase, optional
	Email       string // lowercase, optional
	DisplayName string
	Role        Role
	Status      AccountStatus

	PasswordHash string
	PINHash      string

	LoginByID       bool
	LoginByUsername bool
	LoginByEmail    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the account may authenticate.
func (a *Account) IsActive() bool { return a.Status == StatusActive }

// SecretHash returns the hash relevant to the account's role.
func (a *Account) SecretHash() string {
	if a.Role.UsesPIN() {
		return a.PINHash
	}
	return a.PasswordHash
}

// LoginMode is "pin" for PIN roles and "password" otherwise.
func (a *Account) LoginMode() LoginMode {
	if a.Role.UsesPIN() {
		return LoginModePIN
	}
	return LoginModePassword
}

// AllowsIdentifier reports whether login through t is enabled.
func (a *Account) AllowsIdentifier(t IdentifierType) bool {
	switch t {
	case IdentifierAccountID:
		return a.LoginByID
	case IdentifierUsername:
		return a.LoginByUsername
	case IdentifierEmail:
		return a.LoginByEmail
	}
	return false
}

// Public returns the client-safe projection.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        a.Role,
	}
}

// PublicAccount is what login and /me return.
type PublicAccount struct {
	ID          string
	Username    string
	Email       string
	DisplayName string
	Role        Role
}

// AliasKind is the kind of login alias stored in account_aliases.
type AliasKind string

const (
	AliasUsername AliasKind = "username"
	AliasEmail    AliasKind = "email"
)

// Alias maps a normalized username or email to an account. Account ids are
// resolved directly and have no alias row.
type Alias struct {
	Kind      AliasKind
	Value     string
	AccountID string
}
