package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
)

type signingKeysRepo struct {
	db dbtx
}

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, k domain.SigningKey) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signing_keys (id, kid, algorithm, private_key_encrypted, created_at, retires_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.Kid, k.Algorithm, k.PrivateKeyEncrypted,
		toMillis(k.CreatedAt), toMillis(k.RetiresAt), toMillis(k.ExpiresAt))
	return mapConstraint(err)
}

func (r *signingKeysRepo) ListVerificationKeys(ctx context.Context, now time.Time) ([]domain.SigningKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kid, algorithm, private_key_encrypted, created_at, retires_at, expires_at
		FROM signing_keys
		WHERE expires_at > ?
		ORDER BY created_at DESC`, toMillis(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.SigningKey
	for rows.Next() {
		var (
			k                         domain.SigningKey
			created, retires, expires int64
		)
		if err := rows.Scan(&k.ID, &k.Kid, &k.Algorithm, &k.PrivateKeyEncrypted, &created, &retires, &expires); err != nil {
			return nil, err
		}
		k.CreatedAt = fromMillis(created)
		k.RetiresAt = fromMillis(retires)
		k.ExpiresAt = fromMillis(expires)
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *signingKeysRepo) DeleteExpiredSigningKeys(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM signing_keys WHERE expires_at <= ?`, toMillis(now)))
}
