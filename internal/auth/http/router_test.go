package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/mail"
	"github.com/aussiebroadwan/tillauth/internal/auth/service"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

const bootstrapToken = "test-bootstrap-token"

type inbox struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (b *inbox) Send(_ context.Context, msg mail.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
	return nil
}

var sixDigits = regexp.MustCompile(`\b\d{6}\b`)

func (b *inbox) lastCode(t *testing.T) string {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.msgs)
	code := sixDigits.FindString(b.msgs[len(b.msgs)-1].Body)
	require.NotEmpty(t, code)
	return code
}

type openShifts struct {
	store.Store
	open map[string]bool
}

func (s openShifts) Shifts() store.Shifts { return s }

func (s openShifts) HasOpenShift(_ context.Context, accountID string) (bool, error) {
	return s.open[accountID], nil
}

type testServer struct {
	router *Router
	store  store.Store
	inbox  *inbox
	ipSeq  atomic.Int64
}

func newTestServer(t *testing.T, shifts map[string]bool) *testServer {
	t.Helper()

	sqliteStore, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, sqliteStore.ApplyMigrations())
	t.Cleanup(func() { _ = sqliteStore.Close() })
	var st store.Store = openShifts{Store: sqliteStore, open: shifts}

	keys, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmEdDSA,
		Issuer:    "test-issuer",
		NumKeys:   1,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	box := &inbox{}

	identity := &service.IdentityService{Store: st}
	ledger := &service.LockoutLedger{Store: st, Policy: domain.DefaultLockPolicy()}
	tokens := &service.TokenService{KeyManager: keys, Issuer: "test-issuer"}
	accounts := &service.AccountService{Store: st}

	r := NewRouter(keys.KeySet, "test", st, logger)
	r.Realms = service.DefaultRealms()
	r.Cookie = SessionCookie{Name: "till_session"}
	r.TokenService = tokens
	r.LockoutLedger = ledger
	r.AccountService = accounts
	r.LoginService = &service.LoginService{
		Store:    st,
		Identity: identity,
		Verifier: &service.CredentialVerifier{Store: st, Ledger: ledger},
		Ledger:   ledger,
		Tokens:   tokens,
	}
	r.RecoveryService = &service.RecoveryService{
		Store:  st,
		OTP:    &service.OTPService{Store: st},
		Tokens: tokens,
		Mailer: box,
	}
	r.SecurityQuestionService = &service.SecurityQuestionService{
		Store:    st,
		Identity: identity,
		Ledger:   ledger,
		Tokens:   tokens,
	}
	r.TicketService = &service.TicketService{Store: st}
	r.BootstrapService = &service.BootstrapService{Store: st, Accounts: accounts, Token: bootstrapToken}
	r.ApplyRoutes()

	return &testServer{router: r, store: st, inbox: box}
}

type response struct {
	*httptest.ResponseRecorder
}

func (r response) apiError(t *testing.T) authsdk.APIError {
	t.Helper()
	var e authsdk.APIError
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &e), r.Body.String())
	return e
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), v), r.Body.String())
}

type reqOpt func(*http.Request)

func bearer(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func fromIP(ip string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-Forwarded-For", ip) }
}

func header(k, v string) reqOpt {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

// do sends body as JSON. Each request comes from a fresh client IP unless
// fromIP overrides it, so rate limits only apply where a test wants them.
func (s *testServer) do(t *testing.T, method, path string, body any, opts ...reqOpt) response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	n := s.ipSeq.Add(1)
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.%d.%d", n/250, n%250))
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return response{rec}
}

// bootstrap creates admin 202500001 and returns an admin session token.
func (s *testServer) bootstrap(t *testing.T) string {
	t.Helper()

	res := s.do(t, http.MethodPost, "/v1/bootstrap", authsdk.BootstrapRequest{
		ID:          "202500001",
		Username:    "admin",
		DisplayName: "Administrator",
		Password:    "correct horse",
	}, header("X-Bootstrap-Token", bootstrapToken))
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	return s.login(t, "admin", "correct horse")
}

func (s *testServer) login(t *testing.T, identifier, secret string) string {
	t.Helper()

	res := s.do(t, http.MethodPost, "/v1/login", authsdk.LoginRequest{Identifier: identifier, Secret: secret})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var out authsdk.LoginResponse
	res.decode(t, &out)
	return out.Token
}

func TestBootstrap(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	body := authsdk.BootstrapRequest{ID: "202500001", Username: "admin", DisplayName: "Administrator", Password: "correct horse"}

	res := s.do(t, http.MethodPost, "/v1/bootstrap", body)
	require.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(t, http.MethodPost, "/v1/bootstrap", body, header("X-Bootstrap-Token", "wrong"))
	require.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(t, http.MethodPost, "/v1/bootstrap", authsdk.BootstrapRequest{ID: "x"}, header("X-Bootstrap-Token", bootstrapToken))
	require.Equal(t, http.StatusBadRequest, res.Code)
	e := res.apiError(t)
	require.Equal(t, authsdk.ErrorCodeValidation, e.Code)
	require.Contains(t, e.Details, "password")

	res = s.do(t, http.MethodPost, "/v1/bootstrap", body, header("X-Bootstrap-Token", bootstrapToken))
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var account authsdk.PublicAccount
	res.decode(t, &account)
	require.Equal(t, "admin", account.Role)

	res = s.do(t, http.MethodPost, "/v1/bootstrap", body, header("X-Bootstrap-Token", bootstrapToken))
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, map[string]bool{"202500002": true})
	admin := s.bootstrap(t)

	res := s.do(t, http.MethodPost, "/v1/admin/accounts", authsdk.CreateAccountRequest{
		ID:          "202500002",
		Username:    "till1",
		DisplayName: "Till One",
		Role:        "cashier",
	}, bearer(admin))
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	t.Run("precheck reports unset pin", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/v1/login/precheck", authsdk.PrecheckRequest{Identifier: "till1"})
		require.Equal(t, http.StatusOK, res.Code)
		var pc authsdk.PrecheckResponse
		res.decode(t, &pc)
		require.Equal(t, "pin", pc.Mode)
		require.True(t, pc.PINUnset)
	})

	t.Run("login before pin is set", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/v1/login", authsdk.LoginRequest{Identifier: "till1", Secret: "1234"})
		require.Equal(t, http.StatusConflict, res.Code)
		require.Equal(t, authsdk.ErrorCodeSecretNotSet, res.apiError(t).Code)
	})

	var ticket authsdk.TicketResponse
	t.Run("admin issues a ticket", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/v1/admin/accounts/202500002/tickets", nil, bearer(admin))
		require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
		res.decode(t, &ticket)
		require.Len(t, ticket.Code, 8)
	})

	t.Run("ticket sets the pin", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/v1/tickets/verify", authsdk.TicketVerifyRequest{AccountID: "202500002", Code: ticket.Code})
		require.Equal(t, http.StatusNoContent, res.Code, res.Body.String())

		res = s.do(t, http.MethodPost, "/v1/tickets/redeem", authsdk.TicketRedeemRequest{AccountID: "202500002", Code: ticket.Code, NewPIN: "12"})
		require.Equal(t, http.StatusBadRequest, res.Code)
		require.Equal(t, authsdk.ErrorCodeWeakSecret, res.apiError(t).Code)

		res = s.do(t, http.MethodPost, "/v1/tickets/redeem", authsdk.TicketRedeemRequest{AccountID: "202500002", Code: ticket.Code, NewPIN: "4321"})
		require.Equal(t, http.StatusNoContent, res.Code, res.Body.String())

		res = s.do(t, http.MethodPost, "/v1/tickets/redeem", authsdk.TicketRedeemRequest{AccountID: "202500002", Code: ticket.Code, NewPIN: "4321"})
		require.Equal(t, http.StatusBadRequest, res.Code)
		require.Equal(t, authsdk.ErrorCodeTicketInvalid, res.apiError(t).Code)
	})

	t.Run("login sets the session cookie", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/v1/login", authsdk.LoginRequest{Identifier: "202500002", Secret: "4321"})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		var out authsdk.LoginResponse
		res.decode(t, &out)
		require.Equal(t, "Till One", out.Account.DisplayName)

		cookies := res.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, "till_session", cookies[0].Name)
		require.True(t, cookies[0].HttpOnly)

		// The cookie alone authenticates
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var me authsdk.MeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
		require.Equal(t, "202500002", me.Account.ID)
		require.Equal(t, "primary", me.Realm)

		// Open shift blocks logout
		res = s.do(t, http.MethodPost, "/v1/logout", nil, bearer(out.Token))
		require.Equal(t, http.StatusConflict, res.Code)
		require.Equal(t, authsdk.ErrorCodeShiftOpen, res.apiError(t).Code)
	})

	t.Run("non-admins cannot administer", func(t *testing.T) {
		cashier := s.login(t, "202500002", "4321")
		res := s.do(t, http.MethodPost, "/v1/admin/accounts/202500002/unlock", nil, bearer(cashier))
		require.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("admin logout clears cookie", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/v1/logout", nil, bearer(admin))
		require.Equal(t, http.StatusNoContent, res.Code)
		cookies := res.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, -1, cookies[0].MaxAge)
	})
}

func TestTicketGuessing(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	admin := s.bootstrap(t)

	res := s.do(t, http.MethodPost, "/v1/admin/accounts", authsdk.CreateAccountRequest{
		ID:          "202500002",
		Username:    "till1",
		DisplayName: "Till One",
		Role:        "cashier",
	}, bearer(admin))
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = s.do(t, http.MethodPost, "/v1/admin/accounts/202500002/tickets", nil, bearer(admin))
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var ticket authsdk.TicketResponse
	res.decode(t, &ticket)

	wrong := "00000000"
	if ticket.Code == wrong {
		wrong = "11111111"
	}

	// Every request arrives from a different forwarded address, so the
	// per-client rate limit never trips. The ticket's own budget does.
	for i := range service.DefaultTicketMaxAttempts {
		res := s.do(t, http.MethodPost, "/v1/tickets/redeem",
			authsdk.TicketRedeemRequest{AccountID: "202500002", Code: wrong, NewPIN: "4321"},
			fromIP(fmt.Sprintf("198.51.100.%d", i+1)))
		require.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())
		require.Equal(t, authsdk.ErrorCodeTicketInvalid, res.apiError(t).Code)
	}

	res = s.do(t, http.MethodPost, "/v1/tickets/redeem",
		authsdk.TicketRedeemRequest{AccountID: "202500002", Code: ticket.Code, NewPIN: "4321"})
	require.Equal(t, http.StatusForbidden, res.Code)
	require.Equal(t, authsdk.ErrorCodeTicketBlocked, res.apiError(t).Code)

	res = s.do(t, http.MethodPost, "/v1/tickets/verify", authsdk.TicketVerifyRequest{AccountID: "202500002", Code: ticket.Code})
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestLockoutResponses(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	admin := s.bootstrap(t)

	res := s.do(t, http.MethodPost, "/v1/admin/accounts", authsdk.CreateAccountRequest{
		ID:          "202500002",
		Username:    "jane",
		DisplayName: "Jane",
		Role:        "manager",
		Secret:      "correct horse",
	}, bearer(admin))
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	for i := 1; i <= 4; i++ {
		res := s.do(t, http.MethodPost, "/v1/login", authsdk.LoginRequest{Identifier: "jane", Secret: "wrong horse"})
		require.Equal(t, http.StatusUnauthorized, res.Code, "attempt %d", i)
	}

	res = s.do(t, http.MethodPost, "/v1/login", authsdk.LoginRequest{Identifier: "jane", Secret: "wrong horse"})
	require.Equal(t, http.StatusLocked, res.Code)
	e := res.apiError(t)
	require.Equal(t, authsdk.ErrorCodeAccountLocked, e.Code)
	require.False(t, e.Permanent)
	require.Positive(t, e.RemainingSeconds)

	// Another realm is not affected
	res = s.do(t, http.MethodPost, "/v1/login", authsdk.LoginRequest{Identifier: "jane", Secret: "correct horse", Realm: "secondary"})
	require.Equal(t, http.StatusOK, res.Code)

	res = s.do(t, http.MethodPost, "/v1/login", authsdk.LoginRequest{Identifier: "jane", Secret: "correct horse", Realm: "nope"})
	require.Equal(t, http.StatusBadRequest, res.Code)

	// Admin unlock of the primary realm
	res = s.do(t, http.MethodPost, "/v1/admin/accounts/202500002/unlock", authsdk.UnlockRequest{Realm: "primary"}, bearer(admin))
	require.Equal(t, http.StatusNoContent, res.Code, res.Body.String())
	s.login(t, "jane", "correct horse")

	res = s.do(t, http.MethodPost, "/v1/admin/accounts/202599999/unlock", nil, bearer(admin))
	require.Equal(t, http.StatusNotFound, res.Code)
}

func TestEmailRecovery(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	admin := s.bootstrap(t)

	res := s.do(t, http.MethodPost, "/v1/admin/accounts", authsdk.CreateAccountRequest{
		ID:          "202500002",
		Email:       "jane@example.com",
		DisplayName: "Jane",
		Role:        "manager",
		Secret:      "correct horse",
	}, bearer(admin))
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = s.do(t, http.MethodPost, "/v1/recovery/email/start", authsdk.EmailRecoveryRequest{Email: "jane@example.com"})
	require.Equal(t, http.StatusAccepted, res.Code, res.Body.String())
	var started authsdk.EmailRecoveryResponse
	res.decode(t, &started)

	res = s.do(t, http.MethodPost, "/v1/recovery/email/resend", authsdk.EmailRecoveryRequest{Email: "jane@example.com"})
	require.Equal(t, http.StatusTooManyRequests, res.Code)
	e := res.apiError(t)
	require.Equal(t, authsdk.ErrorCodeCooldownActive, e.Code)
	require.NotNil(t, e.ExpiresAt)
	require.True(t, started.ExpiresAt.Equal(*e.ExpiresAt))

	res = s.do(t, http.MethodPost, "/v1/recovery/email/verify", authsdk.VerifyCodeRequest{Email: "jane@example.com", Code: "abcdef"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Equal(t, authsdk.ErrorCodeOTPInvalid, res.apiError(t).Code)

	res = s.do(t, http.MethodPost, "/v1/recovery/email/verify", authsdk.VerifyCodeRequest{Email: "jane@example.com", Code: s.inbox.lastCode(t)})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var reset authsdk.ResetTokenResponse
	res.decode(t, &reset)

	// A reset token is not a session
	res = s.do(t, http.MethodGet, "/v1/me", nil, bearer(reset.ResetToken))
	require.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(t, http.MethodPost, "/v1/recovery/reset", authsdk.ResetPasswordRequest{ResetToken: reset.ResetToken, NewSecret: "battery staple"})
	require.Equal(t, http.StatusNoContent, res.Code, res.Body.String())

	res = s.do(t, http.MethodPost, "/v1/recovery/reset", authsdk.ResetPasswordRequest{ResetToken: reset.ResetToken, NewSecret: "battery staple"})
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Equal(t, authsdk.ErrorCodeInvalidToken, res.apiError(t).Code)

	s.login(t, "202500002", "battery staple")
}

func TestSecurityQuestionRecovery(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	admin := s.bootstrap(t)

	res := s.do(t, http.MethodGet, "/v1/security-questions", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var catalog authsdk.SecurityQuestionsResponse
	res.decode(t, &catalog)
	require.NotEmpty(t, catalog.Questions)

	res = s.do(t, http.MethodPut, "/v1/me/security-question", authsdk.SetSecurityQuestionRequest{QuestionID: 99, Answer: "x"}, bearer(admin))
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPut, "/v1/me/security-question", authsdk.SetSecurityQuestionRequest{QuestionID: 2, Answer: "Mount Gambier"}, bearer(admin))
	require.Equal(t, http.StatusNoContent, res.Code, res.Body.String())

	start := func() string {
		res := s.do(t, http.MethodPost, "/v1/recovery/security-question/start", authsdk.SecurityQuestionStartRequest{Identifier: "admin"})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		var out authsdk.SecurityQuestionStartResponse
		res.decode(t, &out)
		require.Len(t, out.Questions, len(catalog.Questions))
		return out.Token
	}

	session := start()
	for i := 1; i <= 5; i++ {
		res := s.do(t, http.MethodPost, "/v1/recovery/security-question/verify", authsdk.SecurityQuestionVerifyRequest{
			Token:   session,
			Answers: []authsdk.SecurityAnswer{{QuestionID: 2, Answer: "adelaide"}},
		})
		require.Equal(t, http.StatusUnauthorized, res.Code, "attempt %d", i)
		require.Equal(t, authsdk.ErrorCodeSecurityAnswer, res.apiError(t).Code)
	}

	res = s.do(t, http.MethodPost, "/v1/recovery/security-question/verify", authsdk.SecurityQuestionVerifyRequest{
		Token:   session,
		Answers: []authsdk.SecurityAnswer{{QuestionID: 2, Answer: "mount gambier"}},
	})
	require.Equal(t, http.StatusLocked, res.Code)

	// Login is a separate namespace
	admin = s.login(t, "admin", "correct horse")

	res = s.do(t, http.MethodPost, "/v1/admin/accounts/202500001/unlock",
		authsdk.UnlockRequest{Realm: "primary:security_question"}, bearer(admin))
	require.Equal(t, http.StatusNoContent, res.Code, res.Body.String())

	res = s.do(t, http.MethodPost, "/v1/recovery/security-question/verify", authsdk.SecurityQuestionVerifyRequest{
		Token:   start(),
		Answers: []authsdk.SecurityAnswer{{QuestionID: 2, Answer: "  MOUNT gambier "}},
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
}

func TestRateLimitedLogin(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	var limited bool
	for range 20 {
		res := s.do(t, http.MethodPost, "/v1/login",
			authsdk.LoginRequest{Identifier: "nobody", Secret: "x"}, fromIP("192.0.2.10"))
		if res.Code == http.StatusTooManyRequests {
			limited = true
			require.NotEmpty(t, res.Header().Get("Retry-After"))
			break
		}
		require.Equal(t, http.StatusNotFound, res.Code)
	}
	require.True(t, limited)
}

func TestSystemEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	res := s.do(t, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = s.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var health authsdk.HealthResponse
	res.decode(t, &health)
	require.Equal(t, "ok", health.Checks.Database)

	res = s.do(t, http.MethodGet, "/.well-known/jwks.json", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var jwks authsdk.JWKSResponse
	res.decode(t, &jwks)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "public, max-age=300", res.Header().Get("Cache-Control"))

	empty := httptest.NewRecorder()
	JWKSHandler(jwtx.NewKeySet())(empty, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusServiceUnavailable, empty.Code)
	require.Equal(t, "no-store", empty.Header().Get("Cache-Control"))

	require.NotEmpty(t, res.Header().Get("X-Request-ID"))
}

func TestAPIError_Mapping(t *testing.T) {
	t.Parallel()

	perm := apiError(&service.LockError{Status: domain.LockStatus{Locked: true, Permanent: true}})
	require.Equal(t, http.StatusLocked, perm.StatusCode)
	require.Equal(t, authsdk.ErrorCodeAccountLockedPerm, perm.Code)
	require.True(t, perm.Permanent)

	require.Equal(t, authsdk.ErrorCodeInvalidToken, apiError(service.ErrTokenPurpose).Code)
	require.Equal(t, authsdk.ErrorCodeShiftOpen, apiError(fmt.Errorf("logout: %w", service.ErrOpenShift)).Code)
	blocked := apiError(service.ErrTicketBlocked)
	require.Equal(t, http.StatusForbidden, blocked.StatusCode)
	require.Equal(t, authsdk.ErrorCodeTicketBlocked, blocked.Code)
	require.Equal(t, http.StatusInternalServerError, apiError(io.ErrUnexpectedEOF).StatusCode)
}
