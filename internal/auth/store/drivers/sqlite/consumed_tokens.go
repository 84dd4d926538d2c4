package sqlite

import (
	"context"
	"time"
)

type consumedTokensRepo struct {
	db dbtx
}

func (r *consumedTokensRepo) Consume(ctx context.Context, jti string, expiresAt, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO consumed_tokens (jti, expires_at, consumed_at) VALUES (?, ?, ?)`,
		jti, toMillis(expiresAt), toMillis(now))
	return mapConstraint(err)
}

func (r *consumedTokensRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM consumed_tokens WHERE expires_at <= ?`, toMillis(now)))
}
