package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

var (
	ErrAccountExists      = errors.New("account, username or email already exists")
	ErrInvalidAccountID   = errors.New("invalid account id")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidDisplayName = errors.New("display name is required")
)

// AccountService creates accounts and reads them back for the session
// owner. Broader administration lives in the POS administration module.
type AccountService struct {
	Store           store.Store
	AccountIDLength int
	Audit           audit.Recorder
	Clock           Clock
}

// GetByID returns the account or ErrIdentityNotFound.
func (s *AccountService) GetByID(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrIdentityNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

// Create validates data and inserts the account with its aliases in one
// transaction.
func (s *AccountService) Create(ctx context.Context, data domain.NewAccountData, actor string) (domain.Account, error) {
	account, err := s.build(data)
	if err != nil {
		return domain.Account{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return createAccount(ctx, tx, account)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrAccountExists
		}
		slogx.FromContext(ctx).Error("failed to create account",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("account created",
		slog.String("account_id", account.ID),
		slog.String("role", string(account.Role)),
		slog.String("actor", actor),
	)
	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypeAccountCreated,
		AccountID: account.ID,
		Actor:     actor,
		Success:   true,
		Metadata:  map[string]string{"role": string(account.Role)},
	})
	return account, nil
}

func (s *AccountService) build(data domain.NewAccountData) (domain.Account, error) {
	idLen := s.AccountIDLength
	if idLen <= 0 {
		idLen = domain.DefaultAccountIDLength
	}

	// 1. Shape checks
	if !IsAccountID(data.ID, idLen) {
		return domain.Account{}, ErrInvalidAccountID
	}
	if !data.Role.Valid() {
		return domain.Account{}, ErrInvalidRole
	}
	displayName := strings.TrimSpace(data.DisplayName)
	if displayName == "" {
		return domain.Account{}, ErrInvalidDisplayName
	}
	username := NormalizeAlias(data.Username)
	if username != "" && (strings.Contains(username, "@") || IsAccountID(username, idLen) || strings.ContainsAny(username, " \t")) {
		return domain.Account{}, ErrInvalidUsername
	}
	email := NormalizeAlias(data.Email)
	if email != "" {
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			return domain.Account{}, ErrInvalidEmail
		}
	}

	// 2. Secrets: password roles need one now, PIN roles get a ticket later
	var passwordHash string
	if !data.Role.UsesPIN() {
		if err := ValidateSecret(data.Role, data.Password); err != nil {
			return domain.Account{}, err
		}
		hash, err := cryptox.HashPassword(data.Password)
		if err != nil {
			return domain.Account{}, err
		}
		passwordHash = hash
	}

	// 3. Login methods default to every alias the account has
	byID, byUsername, byEmail := true, username != "", email != ""
	if len(data.LoginMethods) > 0 {
		byID, byUsername, byEmail = false, false, false
		for _, m := range data.LoginMethods {
			switch m {
			case domain.IdentifierAccountID:
				byID = true
			case domain.IdentifierUsername:
				byUsername = username != ""
			case domain.IdentifierEmail:
				byEmail = email != ""
			}
		}
	}

	now := s.Clock.now()
	return domain.Account{
		ID:              data.ID,
		Username:        username,
		Email:           email,
		DisplayName:     displayName,
		Role:            data.Role,
		Status:          domain.StatusActive,
		PasswordHash:    passwordHash,
		LoginByID:       byID,
		LoginByUsername: byUsername,
		LoginByEmail:    byEmail,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func createAccount(ctx context.Context, tx store.Tx, account domain.Account) error {
	if err := tx.Accounts().Create(ctx, account); err != nil {
		return err
	}
	if account.Username != "" {
		err := tx.Accounts().CreateAlias(ctx, domain.Alias{Kind: domain.AliasUsername, Value: account.Username, AccountID: account.ID})
		if err != nil {
			return err
		}
	}
	if account.Email != "" {
		err := tx.Accounts().CreateAlias(ctx, domain.Alias{Kind: domain.AliasEmail, Value: account.Email, AccountID: account.ID})
		if err != nil {
			return err
		}
	}
	return nil
}
