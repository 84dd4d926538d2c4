package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestIdentityService_Classify(t *testing.T) {
	t.Parallel()

	svc := &IdentityService{}

	tests := []struct {
		identifier string
		want       domain.IdentifierType
	}{
		{"202500001", domain.IdentifierAccountID},
		{"20250000", domain.IdentifierUsername},
		{"2025000011", domain.IdentifierUsername},
		{"20250000a", domain.IdentifierUsername},
		{"jane@example.com", domain.IdentifierEmail},
		{"jane", domain.IdentifierUsername},
		{"１２３４５６７８９", domain.IdentifierUsername},
	}
	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			require.Equal(t, tt.want, svc.Classify(tt.identifier))
		})
	}

	short := &IdentityService{AccountIDLength: 4}
	require.Equal(t, domain.IdentifierAccountID, short.Classify("1234"))
	require.Equal(t, domain.IdentifierUsername, short.Classify("202500001"))
}

func TestIdentityService_Resolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	f.seed(t, "202500001", domain.RoleManager, accountOpts{username: "jane", email: "jane@example.com"})

	t.Run("by account id", func(t *testing.T) {
		a, kind, err := f.identity.Resolve(ctx, "202500001")
		require.NoError(t, err)
		require.Equal(t, "202500001", a.ID)
		require.Equal(t, domain.IdentifierAccountID, kind)
	})

	t.Run("by username ignoring case and space", func(t *testing.T) {
		a, kind, err := f.identity.Resolve(ctx, "  JANE ")
		require.NoError(t, err)
		require.Equal(t, "202500001", a.ID)
		require.Equal(t, domain.IdentifierUsername, kind)
	})

	t.Run("by email", func(t *testing.T) {
		a, kind, err := f.identity.Resolve(ctx, "Jane@Example.com")
		require.NoError(t, err)
		require.Equal(t, "202500001", a.ID)
		require.Equal(t, domain.IdentifierEmail, kind)
	})

	t.Run("unknown identifiers", func(t *testing.T) {
		for _, id := range []string{"", "   ", "202599999", "john", "john@example.com"} {
			_, _, err := f.identity.Resolve(ctx, id)
			require.ErrorIs(t, err, ErrIdentityNotFound, id)
		}
	})
}

func TestRealms_Resolve(t *testing.T) {
	t.Parallel()

	realms := DefaultRealms()

	r, err := realms.Resolve("")
	require.NoError(t, err)
	require.Equal(t, domain.Realm("primary"), r)

	r, err = realms.Resolve("secondary")
	require.NoError(t, err)
	require.Equal(t, domain.Realm("secondary"), r)

	_, err = realms.Resolve("tertiary")
	require.ErrorIs(t, err, ErrUnknownRealm)

	_, err = realms.Resolve(domain.Realm("primary").SecurityQuestion().String())
	require.ErrorIs(t, err, ErrUnknownRealm)

	_, err = Realms{}.Resolve("")
	require.ErrorIs(t, err, ErrUnknownRealm)
}

func TestValidateSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		role   domain.Role
		secret string
		ok     bool
	}{
		{"pin four digits", domain.RoleCashier, "1234", true},
		{"pin six digits", domain.RoleCashier, "123456", true},
		{"pin too short", domain.RoleCashier, "123", false},
		{"pin too long", domain.RoleCashier, "1234567", false},
		{"pin with letters", domain.RoleCashier, "12a4", false},
		{"password", domain.RoleManager, "correct horse", true},
		{"password too short", domain.RoleAdmin, "short", false},
		{"password counts runes", domain.RoleAdmin, "ñññññññ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecret(tt.role, tt.secret)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrWeakSecret)
			}
		})
	}
}

func TestRealms_ResolveLedger(t *testing.T) {
	t.Parallel()

	realms := DefaultRealms()

	r, err := realms.ResolveLedger("primary:security_question")
	require.NoError(t, err)
	require.Equal(t, domain.Realm("primary").SecurityQuestion(), r)

	r, err = realms.ResolveLedger("secondary")
	require.NoError(t, err)
	require.Equal(t, domain.Realm("secondary"), r)

	for _, bad := range []string{":security_question", "tertiary:security_question", "nope"} {
		_, err := realms.ResolveLedger(bad)
		require.ErrorIs(t, err, ErrUnknownRealm, bad)
	}
}
