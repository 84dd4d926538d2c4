package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/jmoiron/sqlx"
)

type lockRow struct {
	Realm       string       `db:"realm"`
	Failures    int          `db:"failures"`
	LockedUntil sql.NullTime `db:"locked_until"`
	Permanent   bool         `db:"permanent"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func (r lockRow) toDomain(accountID string) domain.LockState {
	return domain.LockState{
		AccountID:   accountID,
		Realm:       domain.Realm(r.Realm),
		Failures:    r.Failures,
		LockedUntil: utcPtr(r.LockedUntil),
		Permanent:   r.Permanent,
		UpdatedAt:   utc(r.UpdatedAt),
	}
}

type locksRepo struct {
	db dbtx
}

func (r *locksRepo) Get(ctx context.Context, accountID string, realm domain.Realm) (domain.LockState, error) {
	var row lockRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT realm, failures, locked_until, permanent, updated_at
		FROM lock_states WHERE account_id = $1 AND realm = $2`, accountID, realm)
	if err != nil {
		return domain.LockState{}, mapNotFound(err)
	}
	return row.toDomain(accountID), nil
}

const recordFailureSQL = `
INSERT INTO lock_states AS l (account_id, realm, failures, locked_until, permanent, updated_at)
VALUES ($1, $2, 1, $3, $4, $5)
ON CONFLICT (account_id, realm) DO UPDATE SET
	failures     = l.failures + 1,
	permanent    = CASE WHEN l.failures + 1 >= $6 THEN TRUE ELSE l.permanent END,
	locked_until = CASE
		WHEN l.failures + 1 >= $6 THEN NULL
		WHEN l.failures + 1 >= $7 THEN $8::timestamptz
		ELSE l.locked_until
	END,
	updated_at   = $5
RETURNING realm, failures, locked_until, permanent, updated_at`

func (r *locksRepo) RecordFailure(
	ctx context.Context,
	accountID string,
	realm domain.Realm,
	policy domain.LockPolicy,
	now time.Time,
) (domain.LockState, error) {
	firstPermanent, firstUntil := policy.Apply(1, now)

	var row lockRow
	err := sqlx.GetContext(ctx, r.db, &row, recordFailureSQL,
		accountID, realm, nullTime(firstUntil), firstPermanent, now,
		policy.PermanentThreshold, policy.TemporaryThreshold, now.Add(policy.TemporaryDuration),
	)
	if err != nil {
		return domain.LockState{}, err
	}
	return row.toDomain(accountID), nil
}

func (r *locksRepo) Clear(ctx context.Context, accountID string, realm domain.Realm, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE lock_states
		SET failures = 0, locked_until = NULL, permanent = FALSE, updated_at = $1
		WHERE account_id = $2 AND realm = $3`, now, accountID, realm)
	return err
}

func (r *locksRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.LockState, error) {
	var rows []lockRow
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT realm, failures, locked_until, permanent, updated_at
		FROM lock_states WHERE account_id = $1 ORDER BY realm`, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LockState, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(accountID))
	}
	return out, nil
}
