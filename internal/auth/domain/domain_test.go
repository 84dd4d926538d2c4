package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestLockPolicy_Apply(t *testing.T) {
	t.Parallel()

	p := domain.DefaultLockPolicy()
	now := time.Unix(1_700_000_000, 0)

	for failures := 1; failures <= 4; failures++ {
		perm, until := p.Apply(failures, now)
		require.False(t, perm)
		require.Nil(t, until, "failure %d", failures)
	}

	perm, until := p.Apply(5, now)
	require.False(t, perm)
	require.NotNil(t, until)
	require.Equal(t, now.Add(15*time.Minute), *until)

	for _, failures := range []int{6, 7, 50} {
		perm, until := p.Apply(failures, now)
		require.True(t, perm)
		require.Nil(t, until)
	}
}

func TestLockState_Status(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	until := now.Add(90 * time.Second)
	past := now.Add(-time.Second)

	require.Equal(t, domain.LockStatus{}, domain.LockState{Failures: 3}.Status(now))

	temp := domain.LockState{Failures: 5, LockedUntil: &until}.Status(now)
	require.True(t, temp.Locked)
	require.False(t, temp.Permanent)
	require.EqualValues(t, 90, temp.RemainingSeconds)

	elapsed := domain.LockState{Failures: 5, LockedUntil: &past}.Status(now)
	require.False(t, elapsed.Locked)

	perm := domain.LockState{Failures: 6, Permanent: true}.Status(now)
	require.True(t, perm.Locked)
	require.True(t, perm.Permanent)
	require.Nil(t, perm.LockedUntil)
}

func TestRealm_SecurityQuestion(t *testing.T) {
	t.Parallel()

	r := domain.Realm("primary")
	require.Equal(t, domain.Realm("primary:security_question"), r.SecurityQuestion())
	require.True(t, r.SecurityQuestion().IsSecurityQuestion())
	require.False(t, r.IsSecurityQuestion())
	require.NotEqual(t, domain.Realm("secondary").SecurityQuestion(), r.SecurityQuestion())
}

func TestAccount_RoleDependentSecrets(t *testing.T) {
	t.Parallel()

	cashier := domain.Account{Role: domain.RoleCashier, PINHash: "pin", PasswordHash: "pw"}
	require.Equal(t, "pin", cashier.SecretHash())
	require.Equal(t, domain.LoginModePIN, cashier.LoginMode())

	manager := domain.Account{Role: domain.RoleManager, PINHash: "pin", PasswordHash: "pw"}
	require.Equal(t, "pw", manager.SecretHash())
	require.Equal(t, domain.LoginModePassword, manager.LoginMode())
}

func TestAccount_AllowsIdentifier(t *testing.T) {
	t.Parallel()

	a := domain.Account{LoginByID: true, LoginByEmail: true}
	require.True(t, a.AllowsIdentifier(domain.IdentifierAccountID))
	require.False(t, a.AllowsIdentifier(domain.IdentifierUsername))
	require.True(t, a.AllowsIdentifier(domain.IdentifierEmail))
	require.False(t, a.AllowsIdentifier("phone"))
}

func TestQuestionCatalog(t *testing.T) {
	t.Parallel()

	c := domain.DefaultQuestionCatalog()
	require.Equal(t, []int{1, 2, 3, 4, 5}, c.IDs())
	require.True(t, c.Has(3))
	require.False(t, c.Has(99))
}

func TestExpiryBoundaries(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	otp := domain.OTPRecord{ExpiresAt: now}
	require.True(t, otp.IsExpired(now))
	require.False(t, otp.IsExpired(now.Add(-time.Nanosecond)))

	ticket := domain.Ticket{ExpiresAt: now.Add(time.Second)}
	require.False(t, ticket.IsExpired(now))
	require.True(t, ticket.IsExpired(now.Add(time.Second)))
}
