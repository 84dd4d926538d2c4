package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestRecoveryService_StartByEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	f.seed(t, "202500001", domain.RoleManager, accountOpts{secret: "correct horse", email: "jane@example.com"})
	f.seed(t, "202500002", domain.RoleManager, accountOpts{secret: "correct horse", email: "gone@example.com", status: domain.StatusInactive})

	t.Run("active account is mailed", func(t *testing.T) {
		res := f.recovery.StartByEmail(ctx, " Jane@Example.com ")
		issueOK(t, res)

		msgs := f.mailer.sent()
		require.Len(t, msgs, 1)
		require.Equal(t, "jane@example.com", msgs[0].To)
		require.Contains(t, f.audit.types(), audit.TypeRecoveryCodeIssued)
	})

	t.Run("unknown and inactive addresses behave alike but get no mail", func(t *testing.T) {
		issueOK(t, f.recovery.StartByEmail(ctx, "nobody@example.com"))
		issueOK(t, f.recovery.StartByEmail(ctx, "gone@example.com"))
		require.Len(t, f.mailer.sent(), 1)

		_, isCooldown := f.recovery.Resend(ctx, "nobody@example.com").(domain.IssueCooldown)
		require.True(t, isCooldown)
	})

	t.Run("resend during cooldown sends nothing", func(t *testing.T) {
		_, isCooldown := f.recovery.Resend(ctx, "jane@example.com").(domain.IssueCooldown)
		require.True(t, isCooldown)
		require.Len(t, f.mailer.sent(), 1)
	})
}

func TestRecoveryService_FullFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	f.seed(t, "202500001", domain.RoleManager, accountOpts{secret: "correct horse", email: "jane@example.com"})

	issueOK(t, f.recovery.StartByEmail(ctx, "jane@example.com"))
	code := f.mailer.lastCode(t)

	_, err := f.recovery.VerifyCode(ctx, "jane@example.com", "not-it")
	require.ErrorIs(t, err, ErrOTPInvalid)

	reset, err := f.recovery.VerifyCode(ctx, "jane@example.com", code)
	require.NoError(t, err)

	// The reset token cannot be used as a session
	_, err = f.tokens.VerifySession(reset.Token)
	require.ErrorIs(t, err, ErrTokenInvalid)

	require.ErrorIs(t, f.recovery.ResetPassword(ctx, reset.Token, "short"), ErrWeakSecret)
	require.NoError(t, f.recovery.ResetPassword(ctx, reset.Token, "battery staple"))

	// Single use
	require.ErrorIs(t, f.recovery.ResetPassword(ctx, reset.Token, "another staple"), ErrTokenInvalid)

	_, err = f.login.Login(ctx, "202500001", "correct horse", realmPrimary, false)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.login.Login(ctx, "202500001", "battery staple", realmPrimary, false)
	require.NoError(t, err)

	require.Contains(t, f.audit.types(), audit.TypePasswordReset)
}

func TestRecoveryService_MailFailureKeepsCodeUsable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	f.mailer.err = errors.New("smtp unavailable")
	f.seed(t, "202500001", domain.RoleManager, accountOpts{secret: "correct horse", email: "jane@example.com"})

	issueOK(t, f.recovery.StartByEmail(ctx, "jane@example.com"))
	code := f.mailer.lastCode(t)

	_, err := f.recovery.VerifyCode(ctx, "jane@example.com", code)
	require.NoError(t, err)
}

func TestRecoveryService_ResetPasswordRejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	f.seed(t, "202500001", domain.RoleCashier, accountOpts{secret: "1234", email: "till@example.com"})

	session, err := f.tokens.IssueSession(ctx, domain.Account{ID: "202500001", Role: domain.RoleCashier}, realmPrimary, false)
	require.NoError(t, err)
	require.ErrorIs(t, f.recovery.ResetPassword(ctx, session.Token, "5678"), ErrTokenInvalid)

	unknown, err := f.tokens.IssuePurpose(ctx, domain.PurposeGrant{Purpose: domain.PurposePasswordReset, Email: "nobody@example.com"})
	require.NoError(t, err)
	require.ErrorIs(t, f.recovery.ResetPassword(ctx, unknown.Token, "5678"), ErrIdentityNotFound)

	// PIN roles get the PIN policy
	reset, err := f.tokens.IssuePurpose(ctx, domain.PurposeGrant{Purpose: domain.PurposePasswordReset, Email: "till@example.com"})
	require.NoError(t, err)
	require.ErrorIs(t, f.recovery.ResetPassword(ctx, reset.Token, "correct horse"), ErrWeakSecret)
	require.NoError(t, f.recovery.ResetPassword(ctx, reset.Token, "5678"))

	_, err = f.login.Login(ctx, "202500001", "5678", realmPrimary, false)
	require.NoError(t, err)
}
