/*
Package authsdk is the Go client for the tillauth service and the home of its
wire types.

Unauthenticated flows (precheck, login, recovery, tickets) hang off Client:

	c := authsdk.NewClient("http://localhost:8080")

	pre, err := c.Precheck(ctx, "202500001", "primary")
	sess, err := c.Login(ctx, authsdk.LoginRequest{Identifier: "202500001", Secret: "1234", Realm: "primary"})

A Session carries the session token and exposes the authenticated endpoints:

	me, err := sess.Me(ctx)
	err = sess.Logout(ctx)

Every non-2xx response is returned as *APIError. Lock and cooldown responses
populate its extra fields:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeAccountLocked {
		wait := time.Duration(apiErr.RemainingSeconds) * time.Second
	}
*/
package authsdk
