package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, implemented by the sqlite and
// postgres drivers. Repositories hang off it as methods so a Tx exposes the
// same surface and transactions cannot be nested by accident.
type Store interface {
	Accounts() Accounts
	Locks() Locks
	OTPs() OTPs
	SecurityAnswers() SecurityAnswers
	Tickets() Tickets
	ConsumedTokens() ConsumedTokens
	SigningKeys() SigningKeys
	Shifts() Shifts

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetByID returns the account with the exact id.
	GetByID(ctx context.Context, id string) (domain.Account, error)

	// GetByIDForUpdate is GetByID holding a row lock until the transaction
	// ends. Drivers without row locks rely on their write transaction.
	GetByIDForUpdate(ctx context.Context, id string) (domain.Account, error)

	// GetByAlias resolves a normalized username or email.
	GetByAlias(ctx context.Context, kind domain.AliasKind, value string) (domain.Account, error)

	// Create inserts the account row. Aliases are added with CreateAlias.
	Create(ctx context.Context, a domain.Account) error

	// CreateAlias returns ErrAlreadyExists when (kind, value) is taken.
	CreateAlias(ctx context.Context, alias domain.Alias) error

	UpdatePasswordHash(ctx context.Context, id, hash string, now time.Time) error
	UpdatePINHash(ctx context.Context, id, hash string, now time.Time) error

	// IsEmpty reports whether no account exists yet.
	IsEmpty(ctx context.Context) (bool, error)
}

type Locks interface {
	// Get returns ErrNotFound when the pair has never failed.
	Get(ctx context.Context, accountID string, realm domain.Realm) (domain.LockState, error)

	// RecordFailure increments the failure count and derives the lock fields
	// from policy in a single statement, so concurrent failures never lose
	// an increment.
	RecordFailure(ctx context.Context, accountID string, realm domain.Realm, policy domain.LockPolicy, now time.Time) (domain.LockState, error)

	// Clear zeroes the counter and removes any lock.
	Clear(ctx context.Context, accountID string, realm domain.Realm, now time.Time) error

	// ListByAccount returns every realm row of an account.
	ListByAccount(ctx context.Context, accountID string) ([]domain.LockState, error)
}

type OTPs interface {
	// ExpireStale marks pending codes for (email, purpose) past expiry as expired.
	ExpireStale(ctx context.Context, email string, purpose domain.OTPPurpose, now time.Time) error

	// InsertPending inserts rec unless a pending code already exists, in
	// which case it returns false.
	InsertPending(ctx context.Context, rec domain.OTPRecord) (bool, error)

	// GetPending returns the pending code for (email, purpose).
	GetPending(ctx context.Context, email string, purpose domain.OTPPurpose) (domain.OTPRecord, error)

	MarkExpired(ctx context.Context, id string) error

	// IncrementAttempts bumps attempts and returns the new count.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// MarkUsed flips pending to used. It returns false when another caller
	// won the race.
	MarkUsed(ctx context.Context, id string, now time.Time) (bool, error)

	// SweepExpired marks every stale pending code expired.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)

	// DeleteClosedBefore removes used or expired codes created before cutoff.
	DeleteClosedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type SecurityAnswers interface {
	Get(ctx context.Context, accountID string) (domain.SecurityAnswer, error)

	// Upsert replaces the account's question and answer.
	Upsert(ctx context.Context, a domain.SecurityAnswer) error
}

type Tickets interface {
	Create(ctx context.Context, t domain.Ticket) error

	// ExpirePending closes every pending ticket of the account.
	ExpirePending(ctx context.Context, accountID string) error

	// GetLatestPending returns the newest pending ticket, row locked where
	// the driver supports it.
	GetLatestPending(ctx context.Context, accountID string) (domain.Ticket, error)

	MarkExpired(ctx context.Context, id string) error

	// IncrementAttempts counts a wrong code against the ticket and returns the
	// new count.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// MarkUsed flips pending to used. It returns false when the ticket was no
	// longer pending.
	MarkUsed(ctx context.Context, id string, now time.Time) (bool, error)

	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type ConsumedTokens interface {
	// Consume records a single-use token id. A repeat returns ErrAlreadyExists.
	Consume(ctx context.Context, jti string, expiresAt, now time.Time) error

	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type SigningKeys interface {
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error

	// ListVerificationKeys returns keys not yet expired, newest first.
	ListVerificationKeys(ctx context.Context, now time.Time) ([]domain.SigningKey, error)

	DeleteExpiredSigningKeys(ctx context.Context, now time.Time) (int64, error)
}

// Shifts reads the POS module's shift table.
type Shifts interface {
	HasOpenShift(ctx context.Context, accountID string) (bool, error)
}
