package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/mail"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

// RecoveryService runs the email recovery flow: code, reset token, new
// secret.
type RecoveryService struct {
	Store  store.Store
	OTP    *OTPService
	Tokens *TokenService
	Mailer mail.Mailer
	Audit  audit.Recorder
	Clock  Clock
}

// StartByEmail issues a password-reset code. Unknown addresses get a code
// row too so cooldown behaves the same for every address; only active
// accounts are mailed.
func (s *RecoveryService) StartByEmail(ctx context.Context, email string) domain.IssueResult {
	l := slogx.FromContext(ctx)
	email = NormalizeAlias(email)

	res := s.OTP.Issue(ctx, email, domain.OTPPurposePasswordReset, 0)
	ok, issued := res.(domain.IssueOK)
	if !issued {
		if e, isErr := res.(domain.IssueError); isErr {
			l.Error("failed to issue recovery code", slog.Any("error", e.Err))
		}
		return res
	}

	account, err := s.Store.Accounts().GetByAlias(ctx, domain.AliasEmail, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		l.Info("recovery requested for unknown email")
		return res
	case err != nil:
		l.Error("failed to look up recovery email", slog.Any("error", err))
		return res
	case !account.IsActive():
		l.Info("recovery requested for inactive account", slog.String("account_id", account.ID))
		return res
	}

	if err := s.Mailer.Send(ctx, mail.RecoveryCodeMessage(email, ok.Code, ok.ExpiresAt)); err != nil {
		l.Error("failed to send recovery code",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
	}
	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypeRecoveryCodeIssued,
		AccountID: account.ID,
		Success:   true,
	})
	return res
}

// Resend has the same semantics as StartByEmail.
func (s *RecoveryService) Resend(ctx context.Context, email string) domain.IssueResult {
	return s.StartByEmail(ctx, email)
}

// VerifyCode consumes the emailed code and mints a reset token carrying the
// email reference.
func (s *RecoveryService) VerifyCode(ctx context.Context, email, code string) (domain.IssuedToken, error) {
	email = NormalizeAlias(email)

	if err := s.OTP.Verify(ctx, email, domain.OTPPurposePasswordReset, code); err != nil {
		return domain.IssuedToken{}, err
	}

	record(ctx, s.Audit, audit.Event{
		Type:     audit.TypeRecoveryCodeVerified,
		Success:  true,
		Metadata: map[string]string{"method": "email"},
	})
	return s.Tokens.IssuePurpose(ctx, domain.PurposeGrant{
		Purpose: domain.PurposePasswordReset,
		Email:   email,
	})
}

// ResetPassword applies a new secret using a password-reset token. The
// token is single use.
func (s *RecoveryService) ResetPassword(ctx context.Context, resetToken, newSecret string) error {
	l := slogx.FromContext(ctx)
	now := s.Clock.now()

	// 1. Verify the token
	claims, err := s.Tokens.VerifyPurpose(resetToken, domain.PurposePasswordReset)
	if err != nil {
		return err
	}

	// 2. Resolve the account from the account or email reference
	var account domain.Account
	switch {
	case claims.Subject != "":
		account, err = s.Store.Accounts().GetByID(ctx, claims.Subject)
	case claims.Email != "":
		account, err = s.Store.Accounts().GetByAlias(ctx, domain.AliasEmail, claims.Email)
	default:
		return ErrTokenInvalid
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}
	if !account.IsActive() {
		return ErrAccountInactive
	}

	// 3. Validate against the role's policy
	if err := ValidateSecret(account.Role, newSecret); err != nil {
		return err
	}
	hash, err := cryptox.HashPassword(newSecret)
	if err != nil {
		return err
	}

	// 4. Consume the token and store the secret together
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.ConsumedTokens().Consume(ctx, claims.ID, claims.ExpiresAtTime(), now); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrTokenInvalid
			}
			return err
		}
		if account.Role.UsesPIN() {
			return tx.Accounts().UpdatePINHash(ctx, account.ID, hash, now)
		}
		return tx.Accounts().UpdatePasswordHash(ctx, account.ID, hash, now)
	})
	if err != nil {
		if !errors.Is(err, ErrTokenInvalid) {
			l.Error("failed to reset secret", slog.String("account_id", account.ID), slog.Any("error", err))
		}
		return err
	}

	l.Info("secret reset", slog.String("account_id", account.ID))
	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypePasswordReset,
		AccountID: account.ID,
		Realm:     claims.Realm,
		Success:   true,
	})
	return nil
}
