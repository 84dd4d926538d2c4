package postgres

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// baseDSN is a format string taking the database name. Each test creates
// its own database.
var (
	baseDSN string
	dbSeq   atomic.Int64
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "skipping postgres driver tests in short mode")
		os.Exit(0)
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "tillauth",
				"POSTGRES_PASSWORD": "tillauth",
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres: %v\n", err)
		os.Exit(1)
	}

	host, err := container.Host(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "container host: %v\n", err)
		os.Exit(1)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		fmt.Fprintf(os.Stderr, "container port: %v\n", err)
		os.Exit(1)
	}
	baseDSN = fmt.Sprintf("postgres://tillauth:tillauth@%s:%s/%%s?sslmode=disable", host, port.Port())

	code := m.Run()

	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	name := fmt.Sprintf("test_%d", dbSeq.Add(1))

	admin, err := sql.Open("postgres", fmt.Sprintf(baseDSN, "postgres"))
	require.NoError(t, err)
	_, err = admin.Exec("CREATE DATABASE " + name)
	require.NoError(t, err)
	require.NoError(t, admin.Close())

	s, err := NewStore(Config{DSN: fmt.Sprintf(baseDSN, name)})
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var epoch = time.UnixMilli(1_760_000_000_000).UTC()

func seedAccount(t *testing.T, s store.Store, id string) domain.Account {
	t.Helper()

	a := domain.Account{
		ID: id, DisplayName: "Test " + id, Role: domain.RoleCashier, Status: domain.StatusActive,
		LoginByID: true, LoginByUsername: true, LoginByEmail: true,
		CreatedAt: epoch, UpdatedAt: epoch,
	}
	require.NoError(t, s.Accounts().Create(context.Background(), a))
	return a
}

func TestAccounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	a := domain.Account{
		ID: "202500001", Username: "jsmith", Email: "jsmith@example.com", DisplayName: "J. Smith",
		Role: domain.RoleManager, Status: domain.StatusActive, PasswordHash: "hash",
		LoginByID: true, LoginByUsername: true,
		CreatedAt: epoch, UpdatedAt: epoch,
	}
	require.NoError(t, s.Accounts().Create(ctx, a))
	require.NoError(t, s.Accounts().CreateAlias(ctx, domain.Alias{Kind: domain.AliasUsername, Value: "jsmith", AccountID: a.ID}))

	got, err := s.Accounts().GetByAlias(ctx, domain.AliasUsername, "jsmith")
	require.NoError(t, err)
	require.Equal(t, a, got)

	require.ErrorIs(t, s.Accounts().Create(ctx, a), store.ErrAlreadyExists)
	require.ErrorIs(t,
		s.Accounts().CreateAlias(ctx, domain.Alias{Kind: domain.AliasUsername, Value: "jsmith", AccountID: a.ID}),
		store.ErrAlreadyExists)

	_, err = s.Accounts().GetByID(ctx, "000000000")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLocks_RecordFailureProgression(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	a := seedAccount(t, s, "202500001")
	policy := domain.DefaultLockPolicy()

	var st domain.LockState
	var err error
	for i := 1; i <= 5; i++ {
		st, err = s.Locks().RecordFailure(ctx, a.ID, "primary", policy, epoch)
		require.NoError(t, err)
		require.Equal(t, i, st.Failures)
	}
	require.NotNil(t, st.LockedUntil)
	require.Equal(t, epoch.Add(15*time.Minute), *st.LockedUntil)

	st, err = s.Locks().RecordFailure(ctx, a.ID, "primary", policy, epoch.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, st.Permanent)
	require.Nil(t, st.LockedUntil)

	require.NoError(t, s.Locks().Clear(ctx, a.ID, "primary", epoch))
	st, err = s.Locks().Get(ctx, a.ID, "primary")
	require.NoError(t, err)
	require.Zero(t, st.Failures)
	require.False(t, st.Permanent)
}

func TestOTPs_Cooldown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	rec := domain.OTPRecord{
		ID: "01A", Email: "a@example.com", Purpose: domain.OTPPurposePasswordReset,
		CodeHash: "h", ExpiresAt: epoch.Add(10 * time.Minute), CreatedAt: epoch,
	}

	ok, err := s.OTPs().InsertPending(ctx, rec)
	require.NoError(t, err)
	require.True(t, ok)

	rec.ID = "01B"
	ok, err = s.OTPs().InsertPending(ctx, rec)
	require.NoError(t, err)
	require.False(t, ok)

	won, err := s.OTPs().MarkUsed(ctx, "01A", epoch)
	require.NoError(t, err)
	require.True(t, won)
	won, err = s.OTPs().MarkUsed(ctx, "01A", epoch)
	require.NoError(t, err)
	require.False(t, won)
}

func TestTickets_RedeemUnderRowLock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	a := seedAccount(t, s, "202500001")

	require.NoError(t, s.Tickets().Create(ctx, domain.Ticket{
		ID: "T1", AccountID: a.ID, CodeHash: "h", IssuedBy: "admin",
		ExpiresAt: epoch.Add(24 * time.Hour), CreatedAt: epoch,
	}))

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Accounts().GetByIDForUpdate(ctx, a.ID)
		require.NoError(t, err)

		ticket, err := tx.Tickets().GetLatestPending(ctx, a.ID)
		require.NoError(t, err)
		require.Zero(t, ticket.Attempts)

		n, err := tx.Tickets().IncrementAttempts(ctx, ticket.ID)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		won, err := tx.Tickets().MarkUsed(ctx, ticket.ID, epoch)
		require.NoError(t, err)
		require.True(t, won)
		return nil
	})
	require.NoError(t, err)

	_, err = s.Tickets().GetLatestPending(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestConsumedTokensAndKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.ConsumedTokens().Consume(ctx, "jti", epoch.Add(time.Minute), epoch))
	require.ErrorIs(t, s.ConsumedTokens().Consume(ctx, "jti", epoch.Add(time.Minute), epoch), store.ErrAlreadyExists)

	require.NoError(t, s.SigningKeys().CreateSigningKey(ctx, domain.SigningKey{
		ID: "k1", Kid: "k1", Algorithm: "EdDSA", PrivateKeyEncrypted: []byte("sealed"),
		CreatedAt: epoch, RetiresAt: epoch.Add(time.Hour), ExpiresAt: epoch.Add(2 * time.Hour),
	}))
	keys, err := s.SigningKeys().ListVerificationKeys(ctx, epoch)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, []byte("sealed"), keys[0].PrivateKeyEncrypted)
	require.Equal(t, epoch.Add(time.Hour), keys[0].RetiresAt)

	open, err := s.Shifts().HasOpenShift(ctx, "202500001")
	require.NoError(t, err)
	require.False(t, open)
}
