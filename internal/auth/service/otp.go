package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/idx"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

const (
	DefaultOTPTTL         = 10 * time.Minute
	DefaultOTPMaxAttempts = 5
)

var (
	ErrOTPNotFound = errors.New("no pending code")
	ErrOTPExpired  = errors.New("code expired")
	ErrOTPBlocked  = errors.New("too many attempts")
	ErrOTPInvalid  = errors.New("invalid code")
)

// OTPService issues and checks emailed one-time codes. At most one code is
// pending per (email, purpose); the partial unique index enforces it.
type OTPService struct {
	Store       store.Store
	TTL         time.Duration
	MaxAttempts int
	Clock       Clock
}

// Issue creates a code unless one is already pending, in which case the
// result is IssueCooldown with the pending code's expiry.
func (s *OTPService) Issue(ctx context.Context, email string, purpose domain.OTPPurpose, ttl time.Duration) domain.IssueResult {
	ttl = orDefault(ttl, orDefault(s.TTL, DefaultOTPTTL))

	// A blocking code can be used or expire between the failed insert and the
	// read that reports it; one retry covers that window.
	var res domain.IssueResult
	for range 2 {
		var retry bool
		res, retry = s.issue(ctx, email, purpose, ttl)
		if !retry {
			break
		}
	}
	return res
}

func (s *OTPService) issue(ctx context.Context, email string, purpose domain.OTPPurpose, ttl time.Duration) (domain.IssueResult, bool) {
	now := s.Clock.now()

	// 1. Free the slot held by a lapsed code
	if err := s.Store.OTPs().ExpireStale(ctx, email, purpose, now); err != nil {
		return domain.IssueError{Err: err}, false
	}

	// 2. Generate and hash the code
	code, err := cryptox.GenerateNumericCode(cryptox.OTPDigits)
	if err != nil {
		return domain.IssueError{Err: err}, false
	}
	hash, err := cryptox.HashPassword(code)
	if err != nil {
		return domain.IssueError{Err: err}, false
	}

	// 3. Conditional insert; losing means a code is still pending
	rec := domain.OTPRecord{
		ID:        idx.New().String(),
		Email:     email,
		Purpose:   purpose,
		CodeHash:  hash,
		Status:    domain.OTPPending,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	inserted, err := s.Store.OTPs().InsertPending(ctx, rec)
	if err != nil {
		return domain.IssueError{Err: err}, false
	}
	if inserted {
		return domain.IssueOK{Code: code, ExpiresAt: rec.ExpiresAt}, false
	}

	pending, err := s.Store.OTPs().GetPending(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.IssueError{Err: err}, true
		}
		return domain.IssueError{Err: err}, false
	}
	slogx.FromContext(ctx).Info("otp issue refused, cooldown active", slog.String("purpose", string(purpose)))
	return domain.IssueCooldown{ExpiresAt: pending.ExpiresAt}, false
}

// Verify checks code against the pending code for (email, purpose) and
// consumes it on success.
func (s *OTPService) Verify(ctx context.Context, email string, purpose domain.OTPPurpose, code string) error {
	now := s.Clock.now()
	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultOTPMaxAttempts
	}

	rec, err := s.Store.OTPs().GetPending(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOTPNotFound
		}
		return err
	}

	if rec.IsExpired(now) {
		if err := s.Store.OTPs().MarkExpired(ctx, rec.ID); err != nil {
			return err
		}
		return ErrOTPExpired
	}

	if rec.Attempts >= maxAttempts {
		return ErrOTPBlocked
	}

	if err := cryptox.VerifyPassword(code, rec.CodeHash); err != nil {
		if _, err := s.Store.OTPs().IncrementAttempts(ctx, rec.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOTPNotFound
			}
			return err
		}
		return ErrOTPInvalid
	}

	won, err := s.Store.OTPs().MarkUsed(ctx, rec.ID, now)
	if err != nil {
		return err
	}
	if !won {
		return ErrOTPNotFound
	}
	return nil
}
