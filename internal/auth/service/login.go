package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

var ErrOpenShift = errors.New("cannot logout until remitted")

// LoginService is the login surface: precheck, login and logout.
type LoginService struct {
	Store    store.Store
	Identity *IdentityService
	Verifier *CredentialVerifier
	Ledger   *LockoutLedger
	Tokens   *TokenService
	Audit    audit.Recorder
}

// Precheck tells a client which secret to prompt for. Identity errors are
// returned as they are.
func (s *LoginService) Precheck(ctx context.Context, identifier string, realm domain.Realm) (domain.Precheck, error) {
	account, _, err := s.Identity.Resolve(ctx, identifier)
	if err != nil {
		return domain.Precheck{}, err
	}

	status, err := s.Ledger.Status(ctx, account.ID, realm)
	if err != nil {
		return domain.Precheck{}, err
	}

	return domain.Precheck{
		Mode:     account.LoginMode(),
		PINUnset: account.Role.UsesPIN() && account.PINHash == "",
		Lock:     status,
	}, nil
}

// Login resolves, verifies and issues a session token.
func (s *LoginService) Login(
	ctx context.Context,
	identifier, secret string,
	realm domain.Realm,
	rememberMe bool,
) (domain.LoginResult, error) {
	l := slogx.FromContext(ctx)

	// 1. Resolve the identifier
	account, via, err := s.Identity.Resolve(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			record(ctx, s.Audit, audit.Event{
				Type:   audit.TypeLoginFailed,
				Realm:  realm.String(),
				Reason: "identity_not_found",
			})
		}
		return domain.LoginResult{}, err
	}

	// 2. Verify the secret
	verified, err := s.Verifier.Verify(ctx, account, via, secret, realm)
	if err != nil {
		l.Info("login failed",
			slog.String("account_id", account.ID),
			slog.String("realm", realm.String()),
			slog.String("reason", err.Error()),
		)
		return domain.LoginResult{}, err
	}
	account = verified

	// 3. Issue the session
	token, err := s.Tokens.IssueSession(ctx, account, realm, rememberMe)
	if err != nil {
		return domain.LoginResult{}, err
	}

	l.Info("login succeeded",
		slog.String("account_id", account.ID),
		slog.String("realm", realm.String()),
		slog.String("via", string(via)),
	)
	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypeLoginSucceeded,
		AccountID: account.ID,
		Realm:     realm.String(),
		Success:   true,
		Metadata:  map[string]string{"via": string(via)},
	})

	return domain.LoginResult{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Account:   account.Public(),
	}, nil
}

// Logout refuses while the account has an unremitted shift. Tokens are not
// revoked server-side; the caller clears the session cookie.
func (s *LoginService) Logout(ctx context.Context, claims jwtx.Claims) error {
	open, err := s.Store.Shifts().HasOpenShift(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if open {
		return ErrOpenShift
	}

	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypeLogout,
		AccountID: claims.Subject,
		Realm:     claims.Realm,
		Success:   true,
	})
	return nil
}
