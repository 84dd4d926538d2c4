package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/idx"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

const (
	DefaultTicketTTL         = 24 * time.Hour
	DefaultTicketMaxAttempts = 5
)

var (
	ErrTicketInvalid    = errors.New("invalid ticket")
	ErrTicketExpired    = errors.New("ticket expired")
	ErrTicketBlocked    = errors.New("too many wrong ticket codes")
	ErrPINNotApplicable = errors.New("account does not use a PIN")
)

// TicketService handles administrator-issued PIN reset tickets.
type TicketService struct {
	Store store.Store
	TTL   time.Duration
	Audit audit.Recorder
	Clock Clock

	// MaxAttempts is the number of wrong codes a ticket absorbs before it
	// stops accepting any code. A blocked ticket needs a fresh Issue.
	MaxAttempts int
}

func (s *TicketService) maxAttempts() int {
	if s.MaxAttempts <= 0 {
		return DefaultTicketMaxAttempts
	}
	return s.MaxAttempts
}

// Issue creates a fresh ticket for a PIN account, expiring any earlier
// pending one. The plaintext code is returned once.
func (s *TicketService) Issue(ctx context.Context, accountID, actor string) (string, time.Time, error) {
	l := slogx.FromContext(ctx)
	now := s.Clock.now()

	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", time.Time{}, ErrIdentityNotFound
		}
		return "", time.Time{}, err
	}
	if !account.IsActive() {
		return "", time.Time{}, ErrAccountInactive
	}
	if !account.Role.UsesPIN() {
		return "", time.Time{}, ErrPINNotApplicable
	}

	code, err := cryptox.GenerateNumericCode(cryptox.TicketDigits)
	if err != nil {
		return "", time.Time{}, err
	}
	hash, err := cryptox.HashPassword(code)
	if err != nil {
		return "", time.Time{}, err
	}

	ticket := domain.Ticket{
		ID:        idx.New().String(),
		AccountID: account.ID,
		CodeHash:  hash,
		Status:    domain.TicketPending,
		IssuedBy:  actor,
		ExpiresAt: now.Add(orDefault(s.TTL, DefaultTicketTTL)),
		CreatedAt: now,
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tickets().ExpirePending(ctx, account.ID); err != nil {
			return err
		}
		return tx.Tickets().Create(ctx, ticket)
	})
	if err != nil {
		l.Error("failed to issue ticket", slog.String("account_id", account.ID), slog.Any("error", err))
		return "", time.Time{}, err
	}

	l.Info("pin reset ticket issued", slog.String("account_id", account.ID), slog.String("actor", actor))
	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypeTicketIssued,
		AccountID: account.ID,
		Actor:     actor,
		Success:   true,
	})
	return code, ticket.ExpiresAt, nil
}

// Verify checks a code without consuming it. A lapsed ticket is marked
// expired on the way and a wrong code is counted.
func (s *TicketService) Verify(ctx context.Context, accountID, code string) error {
	ticket, err := s.Store.Tickets().GetLatestPending(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTicketInvalid
		}
		return err
	}
	if ticket.IsExpired(s.Clock.now()) {
		if err := s.Store.Tickets().MarkExpired(ctx, ticket.ID); err != nil {
			return err
		}
		return ErrTicketExpired
	}
	if ticket.Attempts >= s.maxAttempts() {
		return ErrTicketBlocked
	}
	if err := cryptox.VerifyPassword(code, ticket.CodeHash); err != nil {
		if _, err := s.Store.Tickets().IncrementAttempts(ctx, ticket.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return ErrTicketInvalid
	}
	return nil
}

// Redeem sets a new PIN using a ticket. Everything happens in one
// transaction, so concurrent redemptions of a ticket yield one success.
// requestID is carried into the audit trail; when empty the id of the
// current HTTP request is used.
func (s *TicketService) Redeem(ctx context.Context, accountID, code, newPIN, requestID string) error {
	l := slogx.FromContext(ctx)
	now := s.Clock.now()

	// Expiry and wrong-code counts are committed, the PIN is not touched.
	var expired, mismatch bool
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Lock and load the account
		account, err := tx.Accounts().GetByIDForUpdate(ctx, accountID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTicketInvalid
			}
			return err
		}
		if !account.IsActive() {
			return ErrAccountInactive
		}
		if !account.Role.UsesPIN() {
			return ErrTicketInvalid
		}

		// 2. Lock and load the newest pending ticket
		ticket, err := tx.Tickets().GetLatestPending(ctx, account.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTicketInvalid
			}
			return err
		}

		// 3. Expiry is committed, not rolled back
		if ticket.IsExpired(now) {
			expired = true
			return tx.Tickets().MarkExpired(ctx, ticket.ID)
		}

		// 4. Compare, within the attempt budget
		if ticket.Attempts >= s.maxAttempts() {
			return ErrTicketBlocked
		}
		if err := cryptox.VerifyPassword(code, ticket.CodeHash); err != nil {
			mismatch = true
			if _, err := tx.Tickets().IncrementAttempts(ctx, ticket.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			return nil
		}

		// 5. Store the PIN, then claim the ticket
		if err := ValidateSecret(account.Role, newPIN); err != nil {
			return err
		}
		hash, err := cryptox.HashPassword(newPIN)
		if err != nil {
			return err
		}
		if err := tx.Accounts().UpdatePINHash(ctx, account.ID, hash, now); err != nil {
			return err
		}
		won, err := tx.Tickets().MarkUsed(ctx, ticket.ID, now)
		if err != nil {
			return err
		}
		if !won {
			return ErrTicketInvalid
		}
		return nil
	})
	switch {
	case err != nil:
	case expired:
		err = ErrTicketExpired
	case mismatch:
		err = ErrTicketInvalid
	}
	if err != nil {
		record(ctx, s.Audit, audit.Event{
			Type:      audit.TypeTicketRedeemFailed,
			AccountID: accountID,
			RequestID: requestID,
			Reason:    err.Error(),
		})
		if !errors.Is(err, ErrTicketInvalid) && !errors.Is(err, ErrTicketExpired) &&
			!errors.Is(err, ErrTicketBlocked) && !errors.Is(err, ErrWeakSecret) {
			l.Error("ticket redemption failed", slog.String("account_id", accountID), slog.Any("error", err))
		}
		return err
	}

	l.Info("pin reset by ticket", slog.String("account_id", accountID))
	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypeTicketRedeemed,
		AccountID: accountID,
		RequestID: requestID,
		Success:   true,
	})
	return nil
}
