package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

var (
	ErrAccountInactive     = errors.New("account inactive")
	ErrLoginMethodDisabled = errors.New("login method disabled")
	ErrMissingSecret       = errors.New("missing secret")
	ErrSecretNotSet        = errors.New("secret not set")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// CredentialVerifier checks a secret against an already resolved account
// and feeds the outcome into the lockout ledger.
type CredentialVerifier struct {
	Store  store.Store
	Ledger *LockoutLedger
	Audit  audit.Recorder
	Clock  Clock
}

// Verify returns the account on success. Preconditions are checked in a
// fixed order so each failure is distinguishable.
func (v *CredentialVerifier) Verify(
	ctx context.Context,
	account domain.Account,
	via domain.IdentifierType,
	secret string,
	realm domain.Realm,
) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	// 1. Account must be active
	if !account.IsActive() {
		return domain.Account{}, ErrAccountInactive
	}

	// 2. The identifier kind must be enabled for this account
	if !account.AllowsIdentifier(via) {
		return domain.Account{}, ErrLoginMethodDisabled
	}

	// 3. A secret must be supplied
	if secret == "" {
		return domain.Account{}, ErrMissingSecret
	}

	// 4. The role's secret must have been set
	stored := account.SecretHash()
	if stored == "" {
		return domain.Account{}, ErrSecretNotSet
	}

	// 5. The realm must not be locked
	if err := v.Ledger.Check(ctx, account.ID, realm); err != nil {
		return domain.Account{}, err
	}

	// 6. Compare
	if err := cryptox.VerifyPassword(secret, stored); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			l.Error("stored secret hash could not be verified",
				slog.String("account_id", account.ID),
				slog.Any("error", err),
			)
		}

		status, rerr := v.Ledger.RecordFailure(ctx, account.ID, realm)
		if rerr != nil {
			return domain.Account{}, rerr
		}
		record(ctx, v.Audit, audit.Event{
			Type:      audit.TypeLoginFailed,
			AccountID: account.ID,
			Realm:     realm.String(),
			Reason:    "invalid_credentials",
		})
		if status.Locked {
			return domain.Account{}, &LockError{Status: status}
		}
		return domain.Account{}, ErrInvalidCredentials
	}

	if err := v.Ledger.Clear(ctx, account.ID, realm); err != nil {
		return domain.Account{}, err
	}

	// 7. Upgrade legacy hashes; failure here never fails the login
	if cryptox.NeedsRehash(stored) {
		v.rehash(ctx, account, secret)
	}
	return account, nil
}

func (v *CredentialVerifier) rehash(ctx context.Context, account domain.Account, secret string) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(secret)
	if err != nil {
		l.Warn("failed to rehash secret", slog.String("account_id", account.ID), slog.Any("error", err))
		return
	}

	now := v.Clock.now()
	if account.Role.UsesPIN() {
		err = v.Store.Accounts().UpdatePINHash(ctx, account.ID, hash, now)
	} else {
		err = v.Store.Accounts().UpdatePasswordHash(ctx, account.ID, hash, now)
	}
	if err != nil {
		l.Warn("failed to store rehashed secret", slog.String("account_id", account.ID), slog.Any("error", err))
		return
	}

	l.Info("upgraded legacy secret hash", slog.String("account_id", account.ID))
	record(ctx, v.Audit, audit.Event{
		Type:      audit.TypePasswordRehashed,
		AccountID: account.ID,
		Success:   true,
	})
}
