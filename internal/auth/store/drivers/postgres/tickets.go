package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/jmoiron/sqlx"
)

type ticketRow struct {
	ID        string       `db:"id"`
	AccountID string       `db:"account_id"`
	CodeHash  string       `db:"code_hash"`
	Status    string       `db:"status"`
	IssuedBy  string       `db:"issued_by"`
	Attempts  int          `db:"attempts"`
	ExpiresAt time.Time    `db:"expires_at"`
	CreatedAt time.Time    `db:"created_at"`
	UsedAt    sql.NullTime `db:"used_at"`
}

type ticketsRepo struct {
	db      dbtx
	locking bool
}

func (r *ticketsRepo) Create(ctx context.Context, t domain.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pin_reset_tickets (id, account_id, code_hash, status, issued_by, expires_at, created_at)
		VALUES ($1, $2, $3, 'pending', $4, $5, $6)`,
		t.ID, t.AccountID, t.CodeHash, t.IssuedBy, t.ExpiresAt, t.CreatedAt)
	return mapConstraint(err)
}

func (r *ticketsRepo) ExpirePending(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pin_reset_tickets SET status = 'expired'
		WHERE account_id = $1 AND status = 'pending'`, accountID)
	return err
}

func (r *ticketsRepo) GetLatestPending(ctx context.Context, accountID string) (domain.Ticket, error) {
	query := `
		SELECT id, account_id, code_hash, status, issued_by, attempts, expires_at, created_at, used_at
		FROM pin_reset_tickets
		WHERE account_id = $1 AND status = 'pending'
		ORDER BY created_at DESC, id DESC LIMIT 1`
	if r.locking {
		query += ` FOR UPDATE`
	}

	var row ticketRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, accountID); err != nil {
		return domain.Ticket{}, mapNotFound(err)
	}
	return domain.Ticket{
		ID:        row.ID,
		AccountID: row.AccountID,
		CodeHash:  row.CodeHash,
		Status:    domain.TicketStatus(row.Status),
		IssuedBy:  row.IssuedBy,
		Attempts:  row.Attempts,
		ExpiresAt: utc(row.ExpiresAt),
		CreatedAt: utc(row.CreatedAt),
		UsedAt:    utcPtr(row.UsedAt),
	}, nil
}

func (r *ticketsRepo) MarkExpired(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pin_reset_tickets SET status = 'expired' WHERE id = $1 AND status = 'pending'`, id)
	return err
}

func (r *ticketsRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := sqlx.GetContext(ctx, r.db, &attempts, `
		UPDATE pin_reset_tickets SET attempts = attempts + 1
		WHERE id = $1 AND status = 'pending'
		RETURNING attempts`, id)
	return attempts, mapNotFound(err)
}

func (r *ticketsRepo) MarkUsed(ctx context.Context, id string, now time.Time) (bool, error) {
	n, err := rowsAffected(r.db.ExecContext(ctx, `
		UPDATE pin_reset_tickets SET status = 'used', used_at = $1
		WHERE id = $2 AND status = 'pending'`, now, id))
	return n == 1, err
}

func (r *ticketsRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE pin_reset_tickets SET status = 'expired' WHERE status = 'pending' AND expires_at <= $1`, now))
}
