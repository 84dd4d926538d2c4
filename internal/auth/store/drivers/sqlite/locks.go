package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
)

type locksRepo struct {
	db dbtx
}

func (r *locksRepo) Get(ctx context.Context, accountID string, realm domain.Realm) (domain.LockState, error) {
	st := domain.LockState{AccountID: accountID, Realm: realm}
	var (
		until   sql.NullInt64
		updated int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT failures, locked_until, permanent, updated_at
		FROM lock_states WHERE account_id = ? AND realm = ?`, accountID, realm).
		Scan(&st.Failures, &until, &st.Permanent, &updated)
	if err != nil {
		return domain.LockState{}, mapNotFound(err)
	}
	st.LockedUntil = fromNullMillis(until)
	st.UpdatedAt = fromMillis(updated)
	return st, nil
}

// recordFailureSQL inserts the first failure with values computed by the
// caller, or increments an existing row and re-derives the lock in place.
//
//	?1 account  ?2 realm  ?3 first locked_until  ?4 first permanent  ?5 now
//	?6 permanent threshold  ?7 temporary threshold  ?8 temporary locked_until
const recordFailureSQL = `
INSERT INTO lock_states (account_id, realm, failures, locked_until, permanent, updated_at)
VALUES (?1, ?2, 1, ?3, ?4, ?5)
ON CONFLICT (account_id, realm) DO UPDATE SET
	failures     = lock_states.failures + 1,
	permanent    = CASE WHEN lock_states.failures + 1 >= ?6 THEN 1 ELSE lock_states.permanent END,
	locked_until = CASE
		WHEN lock_states.failures + 1 >= ?6 THEN NULL
		WHEN lock_states.failures + 1 >= ?7 THEN ?8
		ELSE lock_states.locked_until
	END,
	updated_at   = ?5
RETURNING failures, locked_until, permanent, updated_at`

func (r *locksRepo) RecordFailure(
	ctx context.Context,
	accountID string,
	realm domain.Realm,
	policy domain.LockPolicy,
	now time.Time,
) (domain.LockState, error) {
	firstPermanent, firstUntil := policy.Apply(1, now)

	st := domain.LockState{AccountID: accountID, Realm: realm}
	var (
		until   sql.NullInt64
		updated int64
	)
	err := r.db.QueryRowContext(ctx, recordFailureSQL,
		accountID, realm, toNullMillis(firstUntil), firstPermanent, toMillis(now),
		policy.PermanentThreshold, policy.TemporaryThreshold, toMillis(now.Add(policy.TemporaryDuration)),
	).Scan(&st.Failures, &until, &st.Permanent, &updated)
	if err != nil {
		return domain.LockState{}, err
	}
	st.LockedUntil = fromNullMillis(until)
	st.UpdatedAt = fromMillis(updated)
	return st, nil
}

func (r *locksRepo) Clear(ctx context.Context, accountID string, realm domain.Realm, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE lock_states
		SET failures = 0, locked_until = NULL, permanent = 0, updated_at = ?
		WHERE account_id = ? AND realm = ?`, toMillis(now), accountID, realm)
	return err
}

func (r *locksRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.LockState, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT realm, failures, locked_until, permanent, updated_at
		FROM lock_states WHERE account_id = ? ORDER BY realm`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LockState
	for rows.Next() {
		st := domain.LockState{AccountID: accountID}
		var (
			until   sql.NullInt64
			updated int64
		)
		if err := rows.Scan(&st.Realm, &st.Failures, &until, &st.Permanent, &updated); err != nil {
			return nil, err
		}
		st.LockedUntil = fromNullMillis(until)
		st.UpdatedAt = fromMillis(updated)
		out = append(out, st)
	}
	return out, rows.Err()
}
