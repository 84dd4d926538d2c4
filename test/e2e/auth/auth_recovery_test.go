package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestEmailRecoveryCooldown verifies the start/resend cooldown. Codes are
// only delivered by mail, so verification is covered by the service tests.
func TestEmailRecoveryCooldown(t *testing.T) {
	client := setupAuthContainer(t)
	ctx := t.Context()
	admin := bootstrapAdmin(t, client)

	_, err := admin.CreateAccount(ctx, authsdk.CreateAccountRequest{
		ID:          "202500003",
		Email:       "manager@example.com",
		DisplayName: "Manager",
		Role:        "manager",
		Secret:      "Manager123!",
	})
	require.NoError(t, err)

	started, err := client.StartEmailRecovery(ctx, "manager@example.com")
	require.NoError(t, err)
	require.False(t, started.ExpiresAt.IsZero())

	_, err = client.ResendEmailRecovery(ctx, "manager@example.com")
	apiErr := requireAPIError(t, err, http.StatusTooManyRequests, authsdk.ErrorCodeCooldownActive)
	require.NotNil(t, apiErr.ExpiresAt)
	require.True(t, started.ExpiresAt.Equal(*apiErr.ExpiresAt))

	// Unknown addresses look the same as known ones
	_, err = client.StartEmailRecovery(ctx, "nobody@example.com")
	require.NoError(t, err)

	_, err = client.VerifyRecoveryCode(ctx, "manager@example.com", "not-a-code")
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeOTPInvalid)
}

// TestSecurityQuestionRecovery resets a password by answering the
// configured question.
func TestSecurityQuestionRecovery(t *testing.T) {
	client := setupAuthContainer(t)
	ctx := t.Context()
	admin := bootstrapAdmin(t, client)

	catalog, err := client.SecurityQuestions(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, catalog.Questions)
	questionID := catalog.Questions[0].ID

	require.NoError(t, admin.SetSecurityQuestion(ctx, questionID, "Rex the Dog"))

	start, err := client.StartSecurityQuestion(ctx, adminUsername, "")
	require.NoError(t, err)
	require.Len(t, start.Questions, len(catalog.Questions))

	_, err = client.VerifySecurityQuestion(ctx, start.Token, authsdk.SecurityAnswer{QuestionID: questionID, Answer: "Fido"})
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeSecurityAnswer)

	reset, err := client.VerifySecurityQuestion(ctx, start.Token, authsdk.SecurityAnswer{QuestionID: questionID, Answer: "  rex THE dog "})
	require.NoError(t, err)

	err = client.ResetPassword(ctx, reset.ResetToken, "short")
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeWeakSecret)

	require.NoError(t, client.ResetPassword(ctx, reset.ResetToken, "NewAdmin123!"))

	err = client.ResetPassword(ctx, reset.ResetToken, "Another123!")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)

	_, err = client.Login(ctx, authsdk.LoginRequest{Identifier: adminUsername, Secret: adminPassword})
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)

	_, err = client.Login(ctx, authsdk.LoginRequest{Identifier: adminUsername, Secret: "NewAdmin123!"})
	require.NoError(t, err)
}
