package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
)

const accountColumns = `a.id, a.username, a.email, a.display_name, a.role, a.status,
	a.password_hash, a.pin_hash, a.login_by_id, a.login_by_username, a.login_by_email,
	a.created_at, a.updated_at`

type accountsRepo struct {
	db dbtx
}

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		a                  domain.Account
		username, email    sql.NullString
		created, updated   int64
		byID, byUser, byEm bool
	)
	err := row.Scan(&a.ID, &username, &email, &a.DisplayName, &a.Role, &a.Status,
		&a.PasswordHash, &a.PINHash, &byID, &byUser, &byEm, &created, &updated)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.Username = username.String
	a.Email = email.String
	a.LoginByID, a.LoginByUsername, a.LoginByEmail = byID, byUser, byEm
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updated)
	return a, nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts a WHERE a.id = ?`, id))
}

// GetByIDForUpdate needs no row lock on sqlite: transactions are IMMEDIATE so
// the database write lock is already held.
func (r *accountsRepo) GetByIDForUpdate(ctx context.Context, id string) (domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *accountsRepo) GetByAlias(ctx context.Context, kind domain.AliasKind, value string) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM account_aliases al
		JOIN accounts a ON a.id = al.account_id
		WHERE al.kind = ? AND al.value = ?`, kind, value))
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, email, display_name, role, status,
			password_hash, pin_hash, login_by_id, login_by_username, login_by_email,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, nullString(a.Username), nullString(a.Email), a.DisplayName, a.Role, a.Status,
		a.PasswordHash, a.PINHash, a.LoginByID, a.LoginByUsername, a.LoginByEmail,
		toMillis(a.CreatedAt), toMillis(a.UpdatedAt))
	return mapConstraint(err)
}

func (r *accountsRepo) CreateAlias(ctx context.Context, al domain.Alias) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_aliases (kind, value, account_id) VALUES (?, ?, ?)`,
		al.Kind, al.Value, al.AccountID)
	return mapConstraint(err)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id, hash string, now time.Time) error {
	return r.updateSecret(ctx, `UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`, id, hash, now)
}

func (r *accountsRepo) UpdatePINHash(ctx context.Context, id, hash string, now time.Time) error {
	return r.updateSecret(ctx, `UPDATE accounts SET pin_hash = ?, updated_at = ? WHERE id = ?`, id, hash, now)
}

func (r *accountsRepo) updateSecret(ctx context.Context, query, id, hash string, now time.Time) error {
	n, err := rowsAffected(r.db.ExecContext(ctx, query, hash, toMillis(now), id))
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
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts)`).Scan(&exists)
	return !exists, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
