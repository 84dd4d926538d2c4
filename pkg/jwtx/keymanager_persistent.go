package jwtx

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/idx"
)

// SigningKeyRecord is a stored signing key. Defined here so jwtx does not
// depend on the service's domain package.
type SigningKeyRecord struct {
	ID                  string
	Kid                 string
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	RetiresAt           time.Time // stops signing
	ExpiresAt           time.Time // stops verifying
}

// KeyStore is the persistence needed by NewPersistentKeyManager.
type KeyStore interface {
	// ListVerificationKeys returns keys with ExpiresAt after now.
	ListVerificationKeys(ctx context.Context, now time.Time) ([]SigningKeyRecord, error)

	// CreateSigningKey stores a new key with encrypted private material.
	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error
}

// PersistentKeyManagerOptions configures a database-backed KeyManager.
type PersistentKeyManagerOptions struct {
	Store     KeyStore
	Algorithm string
	Issuer    string
	NumKeys   int

	// Lifetime is how long a new key signs tokens (default 90 days).
	Lifetime time.Duration

	// GracePeriod is how long a retired key keeps verifying. It must cover
	// the longest token TTL (default 30 days).
	GracePeriod time.Duration
}

// NewPersistentKeyManager loads keys that are still valid for verification,
// signs with the ones not yet retired, and tops up to NumKeys signing keys.
// Session tokens therefore survive restarts.
func NewPersistentKeyManager(ctx context.Context, opts PersistentKeyManagerOptions) (*KeyManager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("jwtx: Store is required for persistent key manager")
	}
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}
	if opts.Lifetime <= 0 {
		opts.Lifetime = 90 * 24 * time.Hour
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = 30 * 24 * time.Hour
	}
	alg := normalizeAlgorithm(opts.Algorithm)
	now := time.Now().UTC()

	records, err := opts.Store.ListVerificationKeys(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load keys from database: %w", err)
	}

	km := newKeyManager(alg, opts.Issuer)
	for _, rec := range records {
		pemData, err := cryptox.DecryptPrivateKey(rec.PrivateKeyEncrypted)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to decrypt key %s: %w", rec.Kid, err)
		}
		signer, err := NewSigner(rec.Algorithm, rec.Kid, pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to load key %s: %w", rec.Kid, err)
		}

		if rec.RetiresAt.After(now) && rec.Algorithm == alg {
			err = km.AddSigner(signer)
		} else {
			err = km.KeySet.AddSigner(signer)
		}
		if err != nil {
			return nil, err
		}
	}

	for km.NumSigners() < clampNumKeys(opts.NumKeys) {
		pemData, signer, err := generateSigner(alg)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate new key: %w", err)
		}

		sealed, err := cryptox.EncryptPrivateKey(pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to encrypt new key: %w", err)
		}

		err = opts.Store.CreateSigningKey(ctx, SigningKeyRecord{
			ID:                  idx.New().String(),
			Kid:                 signer.KID(),
			Algorithm:           alg,
			PrivateKeyEncrypted: sealed,
			CreatedAt:           now,
			RetiresAt:           now.Add(opts.Lifetime),
			ExpiresAt:           now.Add(opts.Lifetime + opts.GracePeriod),
		})
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to store new key: %w", err)
		}

		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}

	return km, nil
}
