package store

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
)

// KeyStoreAdapter exposes Store as a jwtx.KeyStore so jwtx stays free of the
// domain package.
type KeyStoreAdapter struct {
	store Store
}

func NewKeyStoreAdapter(store Store) *KeyStoreAdapter {
	return &KeyStoreAdapter{store: store}
}

func (a *KeyStoreAdapter) ListVerificationKeys(ctx context.Context, now time.Time) ([]jwtx.SigningKeyRecord, error) {
	keys, err := a.store.SigningKeys().ListVerificationKeys(ctx, now)
	if err != nil {
		return nil, err
	}

	records := make([]jwtx.SigningKeyRecord, len(keys))
	for i, k := range keys {
		records[i] = jwtx.SigningKeyRecord{
			ID:                  k.ID,
			Kid:                 k.Kid,
			Algorithm:           k.Algorithm,
			PrivateKeyEncrypted: k.PrivateKeyEncrypted,
			CreatedAt:           k.CreatedAt,
			RetiresAt:           k.RetiresAt,
			ExpiresAt:           k.ExpiresAt,
		}
	}
	return records, nil
}

func (a *KeyStoreAdapter) CreateSigningKey(ctx context.Context, r jwtx.SigningKeyRecord) error {
	return a.store.SigningKeys().CreateSigningKey(ctx, domain.SigningKey{
		ID:                  r.ID,
		Kid:                 r.Kid,
		Algorithm:           r.Algorithm,
		PrivateKeyEncrypted: r.PrivateKeyEncrypted,
		CreatedAt:           r.CreatedAt,
		RetiresAt:           r.RetiresAt,
		ExpiresAt:           r.ExpiresAt,
	})
}
