package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)

	manager, err := f.accounts.Create(ctx, domain.NewAccountData{
		ID:          "202500001",
		Username:    "Jane",
		Email:       "Jane@Example.com",
		DisplayName: " Jane Citizen ",
		Role:        domain.RoleManager,
		Password:    "correct horse",
	}, "202500099")
	require.NoError(t, err)
	require.Equal(t, "jane", manager.Username)
	require.Equal(t, "jane@example.com", manager.Email)
	require.Equal(t, "Jane Citizen", manager.DisplayName)
	require.True(t, manager.LoginByID && manager.LoginByUsername && manager.LoginByEmail)
	require.Contains(t, f.audit.types(), audit.TypeAccountCreated)

	_, err = f.login.Login(ctx, "jane@example.com", "correct horse", realmPrimary, false)
	require.NoError(t, err)

	cashier, err := f.accounts.Create(ctx, domain.NewAccountData{
		ID:           "202500002",
		Username:     "till1",
		DisplayName:  "Till One",
		Role:         domain.RoleCashier,
		Password:     "ignored for pin roles",
		LoginMethods: []domain.IdentifierType{domain.IdentifierAccountID},
	}, "202500099")
	require.NoError(t, err)
	require.Empty(t, cashier.PINHash)
	require.Empty(t, cashier.PasswordHash)
	require.True(t, cashier.LoginByID)
	require.False(t, cashier.LoginByUsername)

	got, err := f.accounts.GetByID(ctx, "202500002")
	require.NoError(t, err)
	require.Equal(t, "till1", got.Username)
	_, err = f.accounts.GetByID(ctx, "202599999")
	require.ErrorIs(t, err, ErrIdentityNotFound)

	t.Run("duplicates", func(t *testing.T) {
		dupes := []domain.NewAccountData{
			{ID: "202500001", DisplayName: "X", Role: domain.RoleCashier},
			{ID: "202500003", Username: "JANE", DisplayName: "X", Role: domain.RoleCashier},
			{ID: "202500004", Email: "jane@example.com", DisplayName: "X", Role: domain.RoleCashier},
		}
		for _, d := range dupes {
			_, err := f.accounts.Create(ctx, d, "202500099")
			require.ErrorIs(t, err, ErrAccountExists, d.ID)
		}

		// Nothing partial was left behind
		_, err := f.store.Accounts().GetByID(ctx, "202500003")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			data domain.NewAccountData
			want error
		}{
			{"short id", domain.NewAccountData{ID: "1234", DisplayName: "X", Role: domain.RoleCashier}, ErrInvalidAccountID},
			{"bad role", domain.NewAccountData{ID: "202500010", DisplayName: "X", Role: "owner"}, ErrInvalidRole},
			{"no display name", domain.NewAccountData{ID: "202500010", DisplayName: " ", Role: domain.RoleCashier}, ErrInvalidDisplayName},
			{"username looks like email", domain.NewAccountData{ID: "202500010", Username: "a@b", DisplayName: "X", Role: domain.RoleCashier}, ErrInvalidUsername},
			{"username looks like id", domain.NewAccountData{ID: "202500010", Username: "202500011", DisplayName: "X", Role: domain.RoleCashier}, ErrInvalidUsername},
			{"bad email", domain.NewAccountData{ID: "202500010", Email: "Jane <jane@example.com>", DisplayName: "X", Role: domain.RoleCashier}, ErrInvalidEmail},
			{"weak password", domain.NewAccountData{ID: "202500010", DisplayName: "X", Role: domain.RoleAdmin, Password: "short"}, ErrWeakSecret},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.accounts.Create(ctx, tt.data, "202500099")
				require.ErrorIs(t, err, tt.want)
			})
		}
	})
}

func TestBootstrapService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	svc := &BootstrapService{Store: f.store, Accounts: f.accounts, Token: "s3cret-bootstrap", Audit: f.audit}

	done, err := svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, done)

	data := domain.BootstrapData{
		AccountID:   "202500001",
		Username:    "admin",
		DisplayName: "Administrator",
		Password:    "correct horse",
	}

	_, err = svc.Bootstrap(ctx, "wrong", data)
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)

	weak := data
	weak.Password = "short"
	_, err = svc.Bootstrap(ctx, "s3cret-bootstrap", weak)
	require.ErrorIs(t, err, ErrWeakSecret)

	admin, err := svc.Bootstrap(ctx, "s3cret-bootstrap", data)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)
	require.Contains(t, f.audit.types(), audit.TypeBootstrap)

	_, err = svc.Bootstrap(ctx, "s3cret-bootstrap", data)
	require.ErrorIs(t, err, ErrBootstrapAlready)

	_, err = f.login.Login(ctx, "admin", "correct horse", realmPrimary, false)
	require.NoError(t, err)

	t.Run("no token configured", func(t *testing.T) {
		f := newFixture(t)
		svc := &BootstrapService{Store: f.store, Accounts: f.accounts}
		_, err := svc.Bootstrap(ctx, "", data)
		require.ErrorIs(t, err, ErrBootstrapUnauthorized)
	})
}

func TestHousekeepingService_Sweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	f.seed(t, "202500001", domain.RoleCashier, accountOpts{})

	issueOK(t, f.otp.Issue(ctx, "jane@example.com", purposeReset, time.Minute))
	_, _, err := f.tickets.Issue(ctx, "202500001", "202500099")
	require.NoError(t, err)

	f.clock.Advance(48 * time.Hour)

	hk := NewHousekeepingService(f.store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	hk.Clock = f.clock.Now
	require.Equal(t, 5, hk.Sweep(ctx))

	// Lapsed rows are closed, freeing the OTP slot without a read-side expiry
	_, err = f.store.OTPs().GetPending(ctx, "jane@example.com", purposeReset)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.store.Tickets().GetLatestPending(ctx, "202500001")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHousekeepingService_StartStop(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	hk := NewHousekeepingService(f.store, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
