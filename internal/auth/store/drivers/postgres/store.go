// Package postgres implements store.Store on PostgreSQL through sqlx and
// lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// dbtx is satisfied by *sqlx.DB and *sqlx.Tx.
type dbtx interface {
	sqlx.ExtContext
}

type Config struct {
	DSN      string
	MaxConns int
	Timeout  time.Duration
}

type Store struct {
	db *sqlx.DB
}

// NewStore connects and pings the database.
func NewStore(cfg Config) (*Store, error) {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Accounts() store.Accounts               { return &accountsRepo{db: s.db} }
func (s *Store) Locks() store.Locks                     { return &locksRepo{db: s.db} }
func (s *Store) OTPs() store.OTPs                       { return &otpsRepo{db: s.db} }
func (s *Store) SecurityAnswers() store.SecurityAnswers { return &securityAnswersRepo{db: s.db} }
func (s *Store) Tickets() store.Tickets                 { return &ticketsRepo{db: s.db} }
func (s *Store) ConsumedTokens() store.ConsumedTokens   { return &consumedTokensRepo{db: s.db} }
func (s *Store) SigningKeys() store.SigningKeys         { return &signingKeysRepo{db: s.db} }
func (s *Store) Shifts() store.Shifts                   { return &shiftsRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return store.ErrAlreadyExists
	}
	return err
}

func utc(t time.Time) time.Time { return t.UTC() }

func utcPtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
