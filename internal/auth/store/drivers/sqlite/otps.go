package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
)

type otpsRepo struct {
	db dbtx
}

func (r *otpsRepo) ExpireStale(ctx context.Context, email string, purpose domain.OTPPurpose, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE otp_codes SET status = 'expired'
		WHERE email = ? AND purpose = ? AND status = 'pending' AND expires_at <= ?`,
		email, purpose, toMillis(now))
	return err
}

// InsertPending relies on the partial unique index over pending rows.
func (r *otpsRepo) InsertPending(ctx context.Context, rec domain.OTPRecord) (bool, error) {
	n, err := rowsAffected(r.db.ExecContext(ctx, `
		INSERT INTO otp_codes (id, email, purpose, code_hash, status, attempts, expires_at, created_at)
		VALUES (?, ?, ?, ?, 'pending', 0, ?, ?)
		ON CONFLICT DO NOTHING`,
		rec.ID, rec.Email, rec.Purpose, rec.CodeHash, toMillis(rec.ExpiresAt), toMillis(rec.CreatedAt)))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *otpsRepo) GetPending(ctx context.Context, email string, purpose domain.OTPPurpose) (domain.OTPRecord, error) {
	var (
		rec              domain.OTPRecord
		expires, created int64
		used             sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, purpose, code_hash, status, attempts, expires_at, created_at, used_at
		FROM otp_codes
		WHERE email = ? AND purpose = ? AND status = 'pending'
		ORDER BY created_at DESC LIMIT 1`, email, purpose).
		Scan(&rec.ID, &rec.Email, &rec.Purpose, &rec.CodeHash, &rec.Status, &rec.Attempts, &expires, &created, &used)
	if err != nil {
		return domain.OTPRecord{}, mapNotFound(err)
	}
	rec.ExpiresAt = fromMillis(expires)
	rec.CreatedAt = fromMillis(created)
	rec.UsedAt = fromNullMillis(used)
	return rec, nil
}

func (r *otpsRepo) MarkExpired(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE otp_codes SET status = 'expired' WHERE id = ? AND status = 'pending'`, id)
	return err
}

func (r *otpsRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx, `
		UPDATE otp_codes SET attempts = attempts + 1
		WHERE id = ? AND status = 'pending'
		RETURNING attempts`, id).Scan(&attempts)
	return attempts, mapNotFound(err)
}

func (r *otpsRepo) MarkUsed(ctx context.Context, id string, now time.Time) (bool, error) {
	n, err := rowsAffected(r.db.ExecContext(ctx, `
		UPDATE otp_codes SET status = 'used', used_at = ?
		WHERE id = ? AND status = 'pending'`, toMillis(now), id))
	return n == 1, err
}

func (r *otpsRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE otp_codes SET status = 'expired' WHERE status = 'pending' AND expires_at <= ?`, toMillis(now)))
}

func (r *otpsRepo) DeleteClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM otp_codes WHERE status <> 'pending' AND created_at < ?`, toMillis(cutoff)))
}
