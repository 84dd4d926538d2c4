package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/jmoiron/sqlx"
)

const accountColumns = `a.id, a.username, a.email, a.display_name, a.role, a.status,
	a.password_hash, a.pin_hash, a.login_by_id, a.login_by_username, a.login_by_email,
	a.created_at, a.updated_at`

type accountRow struct {
	ID              string         `db:"id"`
	Username        sql.NullString `db:"username"`
	Email           sql.NullString `db:"email"`
	DisplayName     string         `db:"display_name"`
	Role            string         `db:"role"`
	Status          string         `db:"status"`
	PasswordHash    string         `db:"password_hash"`
	PINHash         string         `db:"pin_hash"`
	LoginByID       bool           `db:"login_by_id"`
	LoginByUsername bool           `db:"login_by_username"`
	LoginByEmail    bool           `db:"login_by_email"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:              r.ID,
		Username:        r.Username.String,
		Email:           r.Email.String,
		DisplayName:     r.DisplayName,
		Role:            domain.Role(r.Role),
		Status:          domain.AccountStatus(r.Status),
		PasswordHash:    r.PasswordHash,
		PINHash:         r.PINHash,
		LoginByID:       r.LoginByID,
		LoginByUsername: r.LoginByUsername,
		LoginByEmail:    r.LoginByEmail,
		CreatedAt:       utc(r.CreatedAt),
		UpdatedAt:       utc(r.UpdatedAt),
	}
}

type accountsRepo struct {
	db dbtx

	// locking is set inside a transaction, where FOR UPDATE is meaningful.
	locking bool
}

func (r *accountsRepo) get(ctx context.Context, query string, args ...any) (domain.Account, error) {
	var row accountRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.id = $1`, id)
}

func (r *accountsRepo) GetByIDForUpdate(ctx context.Context, id string) (domain.Account, error) {
	if !r.locking {
		return r.GetByID(ctx, id)
	}
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.id = $1 FOR UPDATE`, id)
}

func (r *accountsRepo) GetByAlias(ctx context.Context, kind domain.AliasKind, value string) (domain.Account, error) {
	return r.get(ctx, `
		SELECT `+accountColumns+`
		FROM account_aliases al
		JOIN accounts a ON a.id = al.account_id
		WHERE al.kind = $1 AND al.value = $2`, kind, value)
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, email, display_name, role, status,
			password_hash, pin_hash, login_by_id, login_by_username, login_by_email,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, nullString(a.Username), nullString(a.Email), a.DisplayName, a.Role, a.Status,
		a.PasswordHash, a.PINHash, a.LoginByID, a.LoginByUsername, a.LoginByEmail,
		a.CreatedAt, a.UpdatedAt)
	return mapConstraint(err)
}

func (r *accountsRepo) CreateAlias(ctx context.Context, al domain.Alias) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_aliases (kind, value, account_id) VALUES ($1, $2, $3)`,
		al.Kind, al.Value, al.AccountID)
	return mapConstraint(err)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id, hash string, now time.Time) error {
	return r.updateSecret(ctx, `UPDATE accounts SET password_hash = $1, updated_at = $2 WHERE id = $3`, id, hash, now)
}

func (r *accountsRepo) UpdatePINHash(ctx context.Context, id, hash string, now time.Time) error {
	return r.updateSecret(ctx, `UPDATE accounts SET pin_hash = $1, updated_at = $2 WHERE id = $3`, id, hash, now)
}

func (r *accountsRepo) updateSecret(ctx context.Context, query, id, hash string, now time.Time) error {
	n, err := rowsAffected(r.db.ExecContext(ctx, query, hash, now, id))
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, `SELECT EXISTS (SELECT 1 FROM accounts)`)
	return !exists, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
