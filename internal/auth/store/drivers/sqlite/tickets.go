package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
)

type ticketsRepo struct {
	db dbtx
}

func (r *ticketsRepo) Create(ctx context.Context, t domain.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pin_reset_tickets (id, account_id, code_hash, status, issued_by, expires_at, created_at)
		VALUES (?, ?, ?, 'pending', ?, ?, ?)`,
		t.ID, t.AccountID, t.CodeHash, t.IssuedBy, toMillis(t.ExpiresAt), toMillis(t.CreatedAt))
	return mapConstraint(err)
}

func (r *ticketsRepo) ExpirePending(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pin_reset_tickets SET status = 'expired'
		WHERE account_id = ? AND status = 'pending'`, accountID)
	return err
}

func (r *ticketsRepo) GetLatestPending(ctx context.Context, accountID string) (domain.Ticket, error) {
	var (
		t                domain.Ticket
		expires, created int64
		used             sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, code_hash, status, issued_by, attempts, expires_at, created_at, used_at
		FROM pin_reset_tickets
		WHERE account_id = ? AND status = 'pending'
		ORDER BY created_at DESC, id DESC LIMIT 1`, accountID).
		Scan(&t.ID, &t.AccountID, &t.CodeHash, &t.Status, &t.IssuedBy, &t.Attempts, &expires, &created, &used)
	if err != nil {
		return domain.Ticket{}, mapNotFound(err)
	}
	t.ExpiresAt = fromMillis(expires)
	t.CreatedAt = fromMillis(created)
	t.UsedAt = fromNullMillis(used)
	return t, nil
}

func (r *ticketsRepo) MarkExpired(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pin_reset_tickets SET status = 'expired' WHERE id = ? AND status = 'pending'`, id)
	return err
}

func (r *ticketsRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx, `
		UPDATE pin_reset_tickets SET attempts = attempts + 1
		WHERE id = ? AND status = 'pending'
		RETURNING attempts`, id).Scan(&attempts)
	return attempts, mapNotFound(err)
}

func (r *ticketsRepo) MarkUsed(ctx context.Context, id string, now time.Time) (bool, error) {
	n, err := rowsAffected(r.db.ExecContext(ctx, `
		UPDATE pin_reset_tickets SET status = 'used', used_at = ?
		WHERE id = ? AND status = 'pending'`, toMillis(now), id))
	return n == 1, err
}

func (r *ticketsRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE pin_reset_tickets SET status = 'expired' WHERE status = 'pending' AND expires_at <= ?`,
		toMillis(now)))
}
