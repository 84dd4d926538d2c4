package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

var (
	ErrAccountLocked            = errors.New("account locked")
	ErrAccountLockedPermanently = errors.New("account locked permanently")
)

// LockError reports an active lock. It matches ErrAccountLocked for every
// lock and ErrAccountLockedPermanently only for permanent ones.
type LockError struct {
	Status domain.LockStatus
}

func (e *LockError) Error() string {
	if e.Status.Permanent {
		return ErrAccountLockedPermanently.Error()
	}
	return fmt.Sprintf("%s for %ds", ErrAccountLocked, e.Status.RemainingSeconds)
}

func (e *LockError) Is(target error) bool {
	switch target {
	case ErrAccountLocked:
		return true
	case ErrAccountLockedPermanently:
		return e.Status.Permanent
	}
	return false
}

// LockoutLedger tracks consecutive failures per (account, realm) and derives
// temporary and permanent locks from an immutable policy.
type LockoutLedger struct {
	Store  store.Store
	Policy domain.LockPolicy
	Audit  audit.Recorder
	Clock  Clock
}

// RecordFailure counts one failure and returns the resulting status.
func (l *LockoutLedger) RecordFailure(ctx context.Context, accountID string, realm domain.Realm) (domain.LockStatus, error) {
	now := l.Clock.now()

	st, err := l.Store.Locks().RecordFailure(ctx, accountID, realm, l.Policy, now)
	if err != nil {
		return domain.LockStatus{}, err
	}

	status := st.Status(now)
	if status.Locked {
		slogx.FromContext(ctx).Warn("account locked",
			slog.String("account_id", accountID),
			slog.String("realm", realm.String()),
			slog.Int("failures", st.Failures),
			slog.Bool("permanent", status.Permanent),
		)
		record(ctx, l.Audit, audit.Event{
			Type:      audit.TypeAccountLocked,
			AccountID: accountID,
			Realm:     realm.String(),
			Success:   true,
			Metadata:  map[string]string{"failures": fmt.Sprint(st.Failures), "permanent": fmt.Sprint(status.Permanent)},
		})
	}
	return status, nil
}

// Clear resets the counter and removes any lock, permanent included.
func (l *LockoutLedger) Clear(ctx context.Context, accountID string, realm domain.Realm) error {
	return l.Store.Locks().Clear(ctx, accountID, realm, l.Clock.now())
}

// Status reads the current lock. Missing rows and lapsed temporary locks are
// reported as clear.
func (l *LockoutLedger) Status(ctx context.Context, accountID string, realm domain.Realm) (domain.LockStatus, error) {
	st, err := l.Store.Locks().Get(ctx, accountID, realm)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LockStatus{}, nil
		}
		return domain.LockStatus{}, err
	}
	return st.Status(l.Clock.now()), nil
}

// Check returns a *LockError when the pair is locked.
func (l *LockoutLedger) Check(ctx context.Context, accountID string, realm domain.Realm) error {
	status, err := l.Status(ctx, accountID, realm)
	if err != nil {
		return err
	}
	if status.Locked {
		return &LockError{Status: status}
	}
	return nil
}

// Unlock is the administrative unlock and the only way out of a permanent
// lock. An empty realm clears every realm of the account.
func (l *LockoutLedger) Unlock(ctx context.Context, accountID string, realm domain.Realm, actor string) error {
	log := slogx.FromContext(ctx)

	if _, err := l.Store.Accounts().GetByID(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}

	realms := []domain.Realm{realm}
	if realm == "" {
		states, err := l.Store.Locks().ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		realms = realms[:0]
		for _, st := range states {
			realms = append(realms, st.Realm)
		}
	}

	for _, r := range realms {
		if err := l.Clear(ctx, accountID, r); err != nil {
			log.Error("failed to clear lock",
				slog.String("account_id", accountID),
				slog.String("realm", r.String()),
				slog.Any("error", err),
			)
			return err
		}
		record(ctx, l.Audit, audit.Event{
			Type:      audit.TypeAccountUnlocked,
			AccountID: accountID,
			Realm:     r.String(),
			Actor:     actor,
			Success:   true,
		})
	}

	log.Info("account unlocked",
		slog.String("account_id", accountID),
		slog.String("actor", actor),
		slog.Int("realms", len(realms)),
	)
	return nil
}
