package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

const (
	DefaultSessionTTL              = 48 * time.Hour
	DefaultRememberMeTTL           = 720 * time.Hour
	DefaultPasswordResetTTL        = 15 * time.Minute
	DefaultSecurityQuestionSessTTL = 10 * time.Minute
)

var (
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenPurpose wraps ErrTokenInvalid so callers may treat both alike.
	ErrTokenPurpose = fmt.Errorf("%w: wrong purpose", ErrTokenInvalid)
)

// TokenService mints and verifies session and purpose-scoped tokens.
type TokenService struct {
	KeyManager *jwtx.KeyManager
	Issuer     string

	SessionTTL              time.Duration
	RememberMeTTL           time.Duration
	PasswordResetTTL        time.Duration
	SecurityQuestionSessTTL time.Duration

	Clock Clock
}

// IssueSession mints the login token for account in realm.
func (s *TokenService) IssueSession(
	ctx context.Context,
	account domain.Account,
	realm domain.Realm,
	rememberMe bool,
) (domain.IssuedToken, error) {
	ttl := orDefault(s.SessionTTL, DefaultSessionTTL)
	if rememberMe {
		ttl = orDefault(s.RememberMeTTL, DefaultRememberMeTTL)
	}

	claims := jwtx.NewClaims(s.Issuer, account.ID, ttl, s.Clock.now())
	claims.Role = string(account.Role)
	claims.DisplayName = account.DisplayName
	claims.Realm = realm.String()

	return s.sign(ctx, claims)
}

// IssuePurpose mints a token that is only good for grant.Purpose.
func (s *TokenService) IssuePurpose(ctx context.Context, grant domain.PurposeGrant) (domain.IssuedToken, error) {
	var ttl time.Duration
	switch grant.Purpose {
	case domain.PurposePasswordReset:
		ttl = orDefault(s.PasswordResetTTL, DefaultPasswordResetTTL)
	case domain.PurposeSecurityQuestionSession:
		ttl = orDefault(s.SecurityQuestionSessTTL, DefaultSecurityQuestionSessTTL)
	default:
		return domain.IssuedToken{}, fmt.Errorf("unsupported token purpose %q", grant.Purpose)
	}

	claims := jwtx.NewClaims(s.Issuer, grant.AccountID, ttl, s.Clock.now())
	claims.Purpose = string(grant.Purpose)
	claims.Email = grant.Email
	claims.Realm = grant.Realm.String()
	claims.QuestionIDs = grant.QuestionIDs

	return s.sign(ctx, claims)
}

func (s *TokenService) sign(ctx context.Context, claims jwtx.Claims) (domain.IssuedToken, error) {
	token, err := s.KeyManager.Sign(claims)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to sign token",
			slog.String("purpose", claims.Purpose),
			slog.Any("error", err),
		)
		return domain.IssuedToken{}, err
	}
	return domain.IssuedToken{Token: token, ExpiresAt: claims.ExpiresAtTime()}, nil
}

// VerifySession accepts only purpose-free tokens.
func (s *TokenService) VerifySession(token string) (jwtx.Claims, error) {
	claims, err := s.verify(token)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if claims.Purpose != "" || claims.Subject == "" {
		return jwtx.Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyPurpose accepts only tokens minted for purpose.
func (s *TokenService) VerifyPurpose(token string, purpose domain.TokenPurpose) (jwtx.Claims, error) {
	claims, err := s.verify(token)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if err := claims.ValidatePurpose(string(purpose)); err != nil {
		return jwtx.Claims{}, ErrTokenPurpose
	}
	return claims, nil
}

func (s *TokenService) verify(token string) (jwtx.Claims, error) {
	if token == "" {
		return jwtx.Claims{}, ErrTokenInvalid
	}
	claims, err := s.KeyManager.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
