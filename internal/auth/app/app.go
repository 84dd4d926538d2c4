package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	httpapi "github.com/aussiebroadwan/tillauth/internal/auth/http"
	"github.com/aussiebroadwan/tillauth/internal/auth/mail"
	"github.com/aussiebroadwan/tillauth/internal/auth/service"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/tillauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/jwtx"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	audit      *audit.Dispatcher
	outbox     *mail.Outbox

	// Services
	identityService         *service.IdentityService
	lockoutLedger           *service.LockoutLedger
	tokenService            *service.TokenService
	loginService            *service.LoginService
	recoveryService         *service.RecoveryService
	securityQuestionService *service.SecurityQuestionService
	ticketService           *service.TicketService
	accountService          *service.AccountService
	bootstrapService        *service.BootstrapService
	housekeepingService     *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tillauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	// Initialize database first (required for persistent keys)
	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	keyManager, err := InitAuthKeys(ctx, app.cfg, app.db, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initAudit(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initMail()

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application. Queued mail and audit
// events are flushed before the database closes.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	app.outbox.Close()
	if err := app.audit.Close(); err != nil {
		app.logger.Error("error closing audit sink", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(postgres.Config{DSN: app.cfg.DatabaseURL})
	default:
		db, err = sqlite.NewStore(app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initAudit selects the audit sink. Events are written off the request path.
func (app *Application) initAudit() error {
	var sink audit.Sink
	switch app.cfg.AuditSink {
	case "file":
		fileSink, err := audit.NewFileSink(audit.FileSinkConfig{
			Pattern: app.cfg.AuditFilePattern,
			MaxAge:  app.cfg.AuditFileMaxAge,
		})
		if err != nil {
			return err
		}
		sink = fileSink
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: app.cfg.AuditRedisAddr})
		sink = audit.NewRedisSink(client, audit.RedisSinkConfig{Stream: app.cfg.AuditRedisStream})
	default:
		sink = audit.LogSink{Logger: app.logger.With("component", "audit")}
	}

	app.audit = audit.NewDispatcher(sink, app.cfg.AuditBuffer, app.logger)
	app.logger.Info("audit sink configured", "sink", app.cfg.AuditSink)
	return nil
}

func (app *Application) initMail() {
	var m mail.Mailer
	switch app.cfg.MailDriver {
	case "smtp":
		m = mail.NewSMTPMailer(mail.SMTPConfig{
			Addr:     app.cfg.SMTP.Addr,
			From:     app.cfg.SMTP.From,
			Username: app.cfg.SMTP.Username,
			Password: app.cfg.SMTP.Password,
		})
	default:
		m = mail.LogMailer{Logger: app.logger, ShowBody: app.cfg.Env == "dev"}
	}
	app.outbox = mail.NewOutbox(m, 0, app.logger)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	p := app.cfg.Policy

	app.identityService = &service.IdentityService{
		Store:           app.db,
		AccountIDLength: app.cfg.AccountIDLength,
	}
	app.lockoutLedger = &service.LockoutLedger{
		Store:  app.db,
		Policy: p.Lock,
		Audit:  app.audit,
	}
	app.tokenService = &service.TokenService{
		KeyManager:              app.keyManager,
		Issuer:                  app.cfg.Issuer,
		SessionTTL:              p.SessionTTL,
		RememberMeTTL:           p.RememberMeTTL,
		PasswordResetTTL:        p.PasswordResetTTL,
		SecurityQuestionSessTTL: p.SecurityQuestionSessTTL,
	}
	app.loginService = &service.LoginService{
		Store:    app.db,
		Identity: app.identityService,
		Verifier: &service.CredentialVerifier{
			Store:  app.db,
			Ledger: app.lockoutLedger,
			Audit:  app.audit,
		},
		Ledger: app.lockoutLedger,
		Tokens: app.tokenService,
		Audit:  app.audit,
	}
	app.recoveryService = &service.RecoveryService{
		Store: app.db,
		OTP: &service.OTPService{
			Store:       app.db,
			TTL:         p.OTPTTL,
			MaxAttempts: p.OTPMaxAttempts,
		},
		Tokens: app.tokenService,
		Mailer: app.outbox,
		Audit:  app.audit,
	}
	app.securityQuestionService = &service.SecurityQuestionService{
		Store:    app.db,
		Identity: app.identityService,
		Ledger:   app.lockoutLedger,
		Tokens:   app.tokenService,
		Catalog:  p.Questions,
		Audit:    app.audit,
	}
	app.ticketService = &service.TicketService{
		Store:       app.db,
		TTL:         p.TicketTTL,
		MaxAttempts: p.TicketMaxAttempts,
		Audit:       app.audit,
	}
	app.accountService = &service.AccountService{
		Store:           app.db,
		AccountIDLength: app.cfg.AccountIDLength,
		Audit:           app.audit,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:    app.db,
		Accounts: app.accountService,
		Token:    app.cfg.BootstrapToken,
		Audit:    app.audit,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		BuildVersion,
		app.db,
		app.logger,
	)

	realms := make(service.Realms, len(app.cfg.Realms))
	for i, r := range app.cfg.Realms {
		realms[i] = domain.Realm(r)
	}
	router.Realms = realms
	router.Cookie = httpapi.SessionCookie{
		Name:   app.cfg.SessionCookieName,
		Secure: app.cfg.Env != "dev",
	}

	// Wire services to router
	router.TokenService = app.tokenService
	router.LoginService = app.loginService
	router.LockoutLedger = app.lockoutLedger
	router.RecoveryService = app.recoveryService
	router.SecurityQuestionService = app.securityQuestionService
	router.TicketService = app.ticketService
	router.AccountService = app.accountService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
