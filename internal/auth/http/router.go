package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/service"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/httpx"
	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"

	_ "github.com/aussiebroadwan/tillauth/api/tillauth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Realms service.Realms
	Cookie SessionCookie

	TokenService            *service.TokenService
	LoginService            *service.LoginService
	LockoutLedger           *service.LockoutLedger
	RecoveryService         *service.RecoveryService
	SecurityQuestionService *service.SecurityQuestionService
	TicketService           *service.TicketService
	AccountService          *service.AccountService
	BootstrapService        *service.BootstrapService
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerAccount()
	r.registerRecovery()
	r.registerTickets()
	r.registerAdmin()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Till Authentication Service API
//	@version		0.1.0
//	@description	Identity, lockout and credential recovery for the point-of-sale system.
//	@description
//	@description				Session tokens are EdDSA or ES256 signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tillauth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}". The session cookie is accepted as well.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed requires a session and limits per account.
func (r *Router) authed(h http.HandlerFunc, limit httpx.RateLimitConfig, extra ...httpx.Middleware) http.Handler {
	mws := []httpx.Middleware{httpx.SessionAuthn(r.TokenService, r.Cookie.Name)}
	mws = append(mws, extra...)
	mws = append(mws, httpx.RateLimitByAccount(limit))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerLogin() {
	h := &LoginHandler{
		LoginService: r.LoginService,
		Realms:       r.Realms,
		Cookie:       r.Cookie,
	}

	// POST /login/precheck - lenient, clients call it on every keystroke pause
	r.Mux.Handle("POST /v1/login/precheck",
		httpx.Chain(http.HandlerFunc(h.HandlePrecheck),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /login - strict rate limit by IP + identifier on top of the lockout ledger
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndField(httpx.StrictLimit, "identifier"),
		),
	)

	r.Mux.Handle("POST /v1/logout", r.authed(h.HandleLogout, httpx.ModerateLimit))
}

func (r *Router) registerAccount() {
	h := &AccountHandler{
		AccountService:          r.AccountService,
		SecurityQuestionService: r.SecurityQuestionService,
	}

	r.Mux.Handle("GET /v1/me", r.authed(h.HandleMe, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/me/security-question", r.authed(h.HandleSetSecurityQuestion, httpx.ModerateLimit))

	r.Mux.Handle("GET /v1/security-questions",
		httpx.Chain(http.HandlerFunc(h.HandleQuestions),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerRecovery() {
	h := &RecoveryHandler{
		RecoveryService:         r.RecoveryService,
		SecurityQuestionService: r.SecurityQuestionService,
		Realms:                  r.Realms,
	}

	byEmail := httpx.RateLimitByIPAndField(httpx.StrictLimit, "email")
	r.Mux.Handle("POST /v1/recovery/email/start", httpx.Chain(http.HandlerFunc(h.HandleEmailStart), byEmail))
	r.Mux.Handle("POST /v1/recovery/email/resend", httpx.Chain(http.HandlerFunc(h.HandleEmailResend), byEmail))
	r.Mux.Handle("POST /v1/recovery/email/verify", httpx.Chain(http.HandlerFunc(h.HandleEmailVerify), byEmail))

	r.Mux.Handle("POST /v1/recovery/security-question/start",
		httpx.Chain(http.HandlerFunc(h.HandleSecurityQuestionStart),
			httpx.RateLimitByIPAndField(httpx.StrictLimit, "identifier"),
		),
	)
	r.Mux.Handle("POST /v1/recovery/security-question/verify",
		httpx.Chain(http.HandlerFunc(h.HandleSecurityQuestionVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/recovery/reset",
		httpx.Chain(http.HandlerFunc(h.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerTickets() {
	h := &TicketHandler{TicketService: r.TicketService}

	// Tickets are 8 digits; strict limits per IP + account keep guessing impractical
	byAccount := httpx.RateLimitByIPAndField(httpx.StrictLimit, "account_id")
	r.Mux.Handle("POST /v1/tickets/verify", httpx.Chain(http.HandlerFunc(h.HandleVerify), byAccount))
	r.Mux.Handle("POST /v1/tickets/redeem", httpx.Chain(http.HandlerFunc(h.HandleRedeem), byAccount))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		AccountService: r.AccountService,
		Ledger:         r.LockoutLedger,
		TicketService:  r.TicketService,
		Realms:         r.Realms,
	}

	admin := httpx.RequireRole("admin")
	r.Mux.Handle("POST /v1/admin/accounts", r.authed(h.HandleCreateAccount, httpx.ModerateLimit, admin))
	r.Mux.Handle("POST /v1/admin/accounts/{id}/unlock", r.authed(h.HandleUnlock, httpx.ModerateLimit, admin))
	r.Mux.Handle("POST /v1/admin/accounts/{id}/tickets", r.authed(h.HandleIssueTicket, httpx.ModerateLimit, admin))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Health check endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
