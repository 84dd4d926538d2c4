package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestBootstrap verifies the first admin can be created exactly once.
func TestBootstrap(t *testing.T) {
	client := setupAuthContainer(t)
	ctx := t.Context()

	req := authsdk.BootstrapRequest{
		ID:          adminID,
		Username:    adminUsername,
		DisplayName: adminDisplayName,
		Password:    adminPassword,
	}

	_, err := client.Bootstrap(ctx, "wrong-token", req)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)

	admin := bootstrapAdmin(t, client)
	me, err := admin.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, adminID, me.Account.ID)
	require.Equal(t, "primary", me.Realm)

	_, err = client.Bootstrap(ctx, bootstrapToken, req)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)
}
