package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first administrator on an empty database.
type BootstrapService struct {
	Store    store.Store
	Accounts *AccountService
	Token    string // Pre-configured bootstrap token
	Audit    audit.Recorder
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	// 1. Check if already bootstrapped
	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.Account{}, ErrBootstrapAlready
	}

	// 2. Validate provided token
	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.Account{}, ErrBootstrapUnauthorized
	}

	// 3. Build and validate the admin account
	account, err := s.Accounts.build(domain.NewAccountData{
		ID:          req.AccountID,
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        domain.RoleAdmin,
		Password:    req.Password,
	})
	if err != nil {
		return domain.Account{}, err
	}

	// 4. Create it, re-checking emptiness inside the transaction
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Accounts().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		return createAccount(ctx, tx, account)
	})
	if err != nil {
		if !errors.Is(err, ErrBootstrapAlready) {
			l.Error("failed to create admin account",
				slog.String("account_id", account.ID),
				slog.Any("error", err),
			)
		}
		return domain.Account{}, err
	}

	l.Info("successfully bootstrapped system", slog.String("admin_account_id", account.ID))
	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypeBootstrap,
		AccountID: account.ID,
		Success:   true,
	})
	return account, nil
}
