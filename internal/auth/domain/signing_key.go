package domain

import "time"

// SigningKey is a JWT signing key persisted for the persistent key mode.
// A key signs until RetiresAt and verifies until ExpiresAt.
type SigningKey struct {
	ID                  string // ULID
	Kid                 string
	Algorithm           string // EdDSA or ES256
	PrivateKeyEncrypted []byte // AES-256-GCM sealed PKCS8 PEM
	CreatedAt           time.Time
	RetiresAt           time.Time
	ExpiresAt           time.Time
}

// CanSign reports whether the key may still sign new tokens.
func (k *SigningKey) CanSign(now time.Time) bool {
	return now.Before(k.RetiresAt) && now.Before(k.ExpiresAt)
}

// IsExpired reports whether the key no longer verifies anything.
func (k *SigningKey) IsExpired(now time.Time) bool {
	return !now.Before(k.ExpiresAt)
}
