package postgres

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/jmoiron/sqlx"
)

type txStore struct {
	tx *sqlx.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Accounts() store.Accounts               { return &accountsRepo{db: t.tx, locking: true} }
func (t *txStore) Locks() store.Locks                     { return &locksRepo{db: t.tx} }
func (t *txStore) OTPs() store.OTPs                       { return &otpsRepo{db: t.tx} }
func (t *txStore) SecurityAnswers() store.SecurityAnswers { return &securityAnswersRepo{db: t.tx} }
func (t *txStore) Tickets() store.Tickets                 { return &ticketsRepo{db: t.tx, locking: true} }
func (t *txStore) ConsumedTokens() store.ConsumedTokens   { return &consumedTokensRepo{db: t.tx} }
func (t *txStore) SigningKeys() store.SigningKeys         { return &signingKeysRepo{db: t.tx} }
func (t *txStore) Shifts() store.Shifts                   { return &shiftsRepo{db: t.tx} }
