package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/jmoiron/sqlx"
)

type otpRow struct {
	ID        string       `db:"id"`
	Email     string       `db:"email"`
	Purpose   string       `db:"purpose"`
	CodeHash  string       `db:"code_hash"`
	Status    string       `db:"status"`
	Attempts  int          `db:"attempts"`
	ExpiresAt time.Time    `db:"expires_at"`
	CreatedAt time.Time    `db:"created_at"`
	UsedAt    sql.NullTime `db:"used_at"`
}

type otpsRepo struct {
	db dbtx
}

func (r *otpsRepo) ExpireStale(ctx context.Context, email string, purpose domain.OTPPurpose, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE otp_codes SET status = 'expired'
		WHERE email = $1 AND purpose = $2 AND status = 'pending' AND expires_at <= $3`,
		email, purpose, now)
	return err
}

func (r *otpsRepo) InsertPending(ctx context.Context, rec domain.OTPRecord) (bool, error) {
	n, err := rowsAffected(r.db.ExecContext(ctx, `
		INSERT INTO otp_codes (id, email, purpose, code_hash, status, attempts, expires_at, created_at)
		VALUES ($1, $2, $3, $4, 'pending', 0, $5, $6)
		ON CONFLICT DO NOTHING`,
		rec.ID, rec.Email, rec.Purpose, rec.CodeHash, rec.ExpiresAt, rec.CreatedAt))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *otpsRepo) GetPending(ctx context.Context, email string, purpose domain.OTPPurpose) (domain.OTPRecord, error) {
	var row otpRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, email, purpose, code_hash, status, attempts, expires_at, created_at, used_at
		FROM otp_codes
		WHERE email = $1 AND purpose = $2 AND status = 'pending'
		ORDER BY created_at DESC LIMIT 1`, email, purpose)
	if err != nil {
		return domain.OTPRecord{}, mapNotFound(err)
	}
	return domain.OTPRecord{
		ID:        row.ID,
		Email:     row.Email,
		Purpose:   domain.OTPPurpose(row.Purpose),
		CodeHash:  row.CodeHash,
		Status:    domain.OTPStatus(row.Status),
		Attempts:  row.Attempts,
		ExpiresAt: utc(row.ExpiresAt),
		CreatedAt: utc(row.CreatedAt),
		UsedAt:    utcPtr(row.UsedAt),
	}, nil
}

func (r *otpsRepo) MarkExpired(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE otp_codes SET status = 'expired' WHERE id = $1 AND status = 'pending'`, id)
	return err
}

func (r *otpsRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := sqlx.GetContext(ctx, r.db, &attempts, `
		UPDATE otp_codes SET attempts = attempts + 1
		WHERE id = $1 AND status = 'pending'
		RETURNING attempts`, id)
	return attempts, mapNotFound(err)
}

func (r *otpsRepo) MarkUsed(ctx context.Context, id string, now time.Time) (bool, error) {
	n, err := rowsAffected(r.db.ExecContext(ctx, `
		UPDATE otp_codes SET status = 'used', used_at = $1
		WHERE id = $2 AND status = 'pending'`, now, id))
	return n == 1, err
}

func (r *otpsRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE otp_codes SET status = 'expired' WHERE status = 'pending' AND expires_at <= $1`, now))
}

func (r *otpsRepo) DeleteClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM otp_codes WHERE status <> 'pending' AND created_at < $1`, cutoff))
}
