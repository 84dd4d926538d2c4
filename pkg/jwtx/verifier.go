package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Leeway tolerates small clock skew on nbf.
const Leeway = 5 * time.Second

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrPurpose     = errors.New("jwtx: purpose mismatch")
)

// Verifier validates a JWT signature, issuer and lifetime and returns its
// claims. Purpose checks are left to the caller.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// KeySetVerifier verifies EdDSA and ES256 tokens against a KeySet.
type KeySetVerifier struct {
	keys   *KeySet
	issuer string
	now    func() time.Time
}

// NewVerifier returns a verifier backed by keys.
func NewVerifier(keys *KeySet, issuer string) *KeySetVerifier {
	return &KeySetVerifier{keys: keys, issuer: issuer, now: time.Now}
}

func (v *KeySetVerifier) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{AlgorithmEdDSA, AlgorithmES256}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}
		return v.keys.Get(kid)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return Claims{}, ErrMalformed
		}
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(v.now()); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
