package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/jmoiron/sqlx"
)

type signingKeyRow struct {
	ID                  string    `db:"id"`
	Kid                 string    `db:"kid"`
	Algorithm           string    `db:"algorithm"`
	PrivateKeyEncrypted []byte    `db:"private_key_encrypted"`
	CreatedAt           time.Time `db:"created_at"`
	RetiresAt           time.Time `db:"retires_at"`
	ExpiresAt           time.Time `db:"expires_at"`
}

type signingKeysRepo struct {
	db dbtx
}

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, k domain.SigningKey) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signing_keys (id, kid, algorithm, private_key_encrypted, created_at, retires_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		k.ID, k.Kid, k.Algorithm, k.PrivateKeyEncrypted, k.CreatedAt, k.RetiresAt, k.ExpiresAt)
	return mapConstraint(err)
}

func (r *signingKeysRepo) ListVerificationKeys(ctx context.Context, now time.Time) ([]domain.SigningKey, error) {
	var rows []signingKeyRow
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id, kid, algorithm, private_key_encrypted, created_at, retires_at, expires_at
		FROM signing_keys
		WHERE expires_at > $1
		ORDER BY created_at DESC`, now)
	if err != nil {
		return nil, err
	}

	keys := make([]domain.SigningKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, domain.SigningKey{
			ID:                  row.ID,
			Kid:                 row.Kid,
			Algorithm:           row.Algorithm,
			PrivateKeyEncrypted: row.PrivateKeyEncrypted,
			CreatedAt:           utc(row.CreatedAt),
			RetiresAt:           utc(row.RetiresAt),
			ExpiresAt:           utc(row.ExpiresAt),
		})
	}
	return keys, nil
}

func (r *signingKeysRepo) DeleteExpiredSigningKeys(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM signing_keys WHERE expires_at <= $1`, now))
}
