package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the single claim set used by every token the service mints.
// Session tokens leave Purpose empty; purpose-scoped tokens set it and carry
// only what the next step needs.
type Claims struct {
	jwt.RegisteredClaims

	// Purpose scopes a token to one follow-up step, e.g. "password-reset".
	Purpose string `json:"purpose,omitempty"`

	// Role and DisplayName are only present on session tokens.
	Role        string `json:"role,omitempty"`
	DisplayName string `json:"name,omitempty"`

	// Realm is the application the token was issued for.
	Realm string `json:"realm,omitempty"`

	// Email references the recovering mailbox when no account is bound yet.
	Email string `json:"email,omitempty"`

	// QuestionIDs are the security questions a scoped token permits.
	QuestionIDs []int `json:"qids,omitempty"`
}

// NewClaims builds registered claims for a token living ttl from now.
func NewClaims(issuer, subject string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a random identifier for the "jti" claim.
func NewJTI() string {
	return uuid.NewString()
}

// ExpiresAtTime returns the exp claim or the zero time.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// PermitsQuestion reports whether id is in the token's permitted set.
func (c *Claims) PermitsQuestion(id int) bool {
	return slices.Contains(c.QuestionIDs, id)
}

// ValidateIssuer checks the issuer when one is expected.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired and isn't used before nbf.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Add(Leeway).Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidatePurpose ensures the purpose claim is exactly the expected one. An
// empty expectation means a session token, which must carry no purpose.
func (c *Claims) ValidatePurpose(expected string) error {
	if c.Purpose != expected {
		return ErrPurpose
	}
	return nil
}
