package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/service"
)

type Config struct {
	Issuer          string   // Optional: issuer claim for tokens (default: tillauth)
	BootstrapToken  string   // Optional: token required to perform bootstrap
	Realms          []string // Optional: configured login realms, first is the default (default: primary,secondary)
	AccountIDLength int      // Optional: digits in an account id (default: 9)

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth.db)
	DatabaseURL    string // Required for postgres: connection string
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	Algorithm      string        // Optional: JWT signing algorithm (ES256, EdDSA) (default: EdDSA)
	NumKeys        int           // Optional: number of signing keys to generate (default: 3, min: 1, max: 10)
	KeyStorageMode string        // Optional: key storage mode (ephemeral, persistent) (default: ephemeral)
	KeyLifetime    time.Duration // Optional: how long a persisted key signs (default: 90 days)
	KeyGracePeriod time.Duration // Optional: grace period for retired keys (default: 30 days)
	MasterKeyPath  string        // Optional: path to master encryption key file (for persistent keys)

	MailDriver string // Optional: log or smtp (default: log)
	SMTP       SMTPSettings

	AuditSink        string        // Optional: log, file or redis (default: log)
	AuditFilePattern string        // Optional: strftime pattern for the file sink
	AuditFileMaxAge  time.Duration // Optional: rotated audit file retention (default: 90 days)
	AuditRedisAddr   string        // Required for redis: host:port
	AuditRedisStream string        // Optional: stream key (default: tillauth:audit)
	AuditBuffer      int           // Optional: queued events before drops (default: 256)

	SessionCookieName    string        // Optional: session cookie name (default: till_session)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	PolicyFile string // Optional: TOML file overriding Policy
	Policy     Policy
}

type SMTPSettings struct {
	Addr     string
	From     string
	Username string
	Password string
}

// Policy holds the tunable security settings. The defaults match the
// documented behaviour; a policy file may override any of them.
type Policy struct {
	Lock domain.LockPolicy

	OTPTTL         time.Duration
	OTPMaxAttempts int

	SessionTTL              time.Duration
	RememberMeTTL           time.Duration
	PasswordResetTTL        time.Duration
	SecurityQuestionSessTTL time.Duration

	TicketTTL         time.Duration
	TicketMaxAttempts int

	Questions domain.QuestionCatalog
}

func DefaultPolicy() Policy {
	return Policy{
		Lock:                    domain.DefaultLockPolicy(),
		OTPTTL:                  service.DefaultOTPTTL,
		OTPMaxAttempts:          service.DefaultOTPMaxAttempts,
		SessionTTL:              service.DefaultSessionTTL,
		RememberMeTTL:           service.DefaultRememberMeTTL,
		PasswordResetTTL:        service.DefaultPasswordResetTTL,
		SecurityQuestionSessTTL: service.DefaultSecurityQuestionSessTTL,
		TicketTTL:               service.DefaultTicketTTL,
		TicketMaxAttempts:       service.DefaultTicketMaxAttempts,
		Questions:               domain.DefaultQuestionCatalog(),
	}
}

// PolicyFile is the on-disk shape of AUTH_POLICY_FILE. Zero values keep the
// default.
//
//	[lockout]
//	temporary_threshold = 5
//	temporary_duration = "15m"
//	permanent_threshold = 6
//
//	[[questions]]
//	id = 1
//	text = "What was the name of your first pet?"
type PolicyFile struct {
	Lockout struct {
		TemporaryThreshold int           `toml:"temporary_threshold"`
		TemporaryDuration  time.Duration `toml:"temporary_duration"`
		PermanentThreshold int           `toml:"permanent_threshold"`
	} `toml:"lockout"`

	OTP struct {
		TTL         time.Duration `toml:"ttl"`
		MaxAttempts int           `toml:"max_attempts"`
	} `toml:"otp"`

	Tokens struct {
		Session          time.Duration `toml:"session"`
		RememberMe       time.Duration `toml:"remember_me"`
		PasswordReset    time.Duration `toml:"password_reset"`
		SecurityQuestion time.Duration `toml:"security_question"`
	} `toml:"tokens"`

	Tickets struct {
		TTL         time.Duration `toml:"ttl"`
		MaxAttempts int           `toml:"max_attempts"`
	} `toml:"tickets"`

	Questions []struct {
		ID   int    `toml:"id"`
		Text string `toml:"text"`
	} `toml:"questions"`
}

// LoadPolicy decodes a policy file over the defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()

	var f PolicyFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return p, fmt.Errorf("decode policy file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return p, fmt.Errorf("policy file: unknown keys %v", undecoded)
	}

	setInt(&p.Lock.TemporaryThreshold, f.Lockout.TemporaryThreshold)
	setDuration(&p.Lock.TemporaryDuration, f.Lockout.TemporaryDuration)
	setInt(&p.Lock.PermanentThreshold, f.Lockout.PermanentThreshold)
	setDuration(&p.OTPTTL, f.OTP.TTL)
	setInt(&p.OTPMaxAttempts, f.OTP.MaxAttempts)
	setDuration(&p.SessionTTL, f.Tokens.Session)
	setDuration(&p.RememberMeTTL, f.Tokens.RememberMe)
	setDuration(&p.PasswordResetTTL, f.Tokens.PasswordReset)
	setDuration(&p.SecurityQuestionSessTTL, f.Tokens.SecurityQuestion)
	setDuration(&p.TicketTTL, f.Tickets.TTL)
	setInt(&p.TicketMaxAttempts, f.Tickets.MaxAttempts)

	if len(f.Questions) > 0 {
		catalog := make(domain.QuestionCatalog, 0, len(f.Questions))
		for _, q := range f.Questions {
			if q.ID <= 0 || strings.TrimSpace(q.Text) == "" {
				return p, fmt.Errorf("policy file: question %d needs a positive id and text", q.ID)
			}
			if catalog.Has(q.ID) {
				return p, fmt.Errorf("policy file: duplicate question id %d", q.ID)
			}
			catalog = append(catalog, domain.SecurityQuestion{ID: q.ID, Text: q.Text})
		}
		p.Questions = catalog
	}

	if p.Lock.PermanentThreshold <= p.Lock.TemporaryThreshold {
		return p, errors.New("policy file: permanent_threshold must exceed temporary_threshold")
	}
	return p, nil
}

// LoadConfig reads .env (if present) and the environment, then applies the
// policy file when one is configured.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Issuer:          getEnvOrDefault("AUTH_ISSUER", "tillauth"),
		BootstrapToken:  os.Getenv("BOOTSTRAP_TOKEN"),
		Realms:          getEnvListOrDefault("AUTH_REALMS", []string{"primary", "secondary"}),
		AccountIDLength: getEnvIntOrDefault("AUTH_ACCOUNT_ID_LENGTH", domain.DefaultAccountIDLength),

		DatabaseDriver: getEnvOrDefault("AUTH_DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("AUTH_DATABASE_URL"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		Algorithm:      getEnvOrDefault("AUTH_ALGORITHM", "EdDSA"),
		NumKeys:        getEnvIntOrDefault("AUTH_NUM_KEYS", 0),
		KeyStorageMode: getEnvOrDefault("AUTH_KEY_STORAGE_MODE", "ephemeral"),
		KeyLifetime:    getEnvDurationOrDefault("AUTH_KEY_LIFETIME", 90*24*time.Hour),
		KeyGracePeriod: getEnvDurationOrDefault("AUTH_KEY_GRACE_PERIOD", 30*24*time.Hour),
		MasterKeyPath:  os.Getenv("AUTH_MASTER_KEY_PATH"),

		MailDriver: getEnvOrDefault("MAIL_DRIVER", "log"),
		SMTP: SMTPSettings{
			Addr:     os.Getenv("SMTP_ADDR"),
			From:     os.Getenv("SMTP_FROM"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},

		AuditSink:        getEnvOrDefault("AUDIT_SINK", "log"),
		AuditFilePattern: getEnvOrDefault("AUDIT_FILE_PATTERN", "audit.%Y%m%d.log"),
		AuditFileMaxAge:  getEnvDurationOrDefault("AUDIT_FILE_MAX_AGE", 90*24*time.Hour),
		AuditRedisAddr:   os.Getenv("AUDIT_REDIS_ADDR"),
		AuditRedisStream: os.Getenv("AUDIT_REDIS_STREAM"),
		AuditBuffer:      getEnvIntOrDefault("AUDIT_BUFFER", 0),

		SessionCookieName:    getEnvOrDefault("SESSION_COOKIE_NAME", "till_session"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		PolicyFile: os.Getenv("AUTH_POLICY_FILE"),
		Policy:     DefaultPolicy(),
	}

	if cfg.PolicyFile != "" {
		p, err := LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Policy = p
	}

	return cfg, cfg.Validate()
}

// Validate rejects combinations the application cannot start with.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("AUTH_DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown AUTH_DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.MailDriver {
	case "log":
	case "smtp":
		if c.SMTP.Addr == "" || c.SMTP.From == "" {
			return errors.New("SMTP_ADDR and SMTP_FROM are required for the smtp mail driver")
		}
	default:
		return fmt.Errorf("unknown MAIL_DRIVER %q", c.MailDriver)
	}

	switch c.AuditSink {
	case "log", "file":
	case "redis":
		if c.AuditRedisAddr == "" {
			return errors.New("AUDIT_REDIS_ADDR is required for the redis audit sink")
		}
	default:
		return fmt.Errorf("unknown AUDIT_SINK %q", c.AuditSink)
	}

	if len(c.Realms) == 0 {
		return errors.New("AUTH_REALMS must name at least one realm")
	}
	for _, r := range c.Realms {
		if domain.Realm(r).IsSecurityQuestion() {
			return fmt.Errorf("realm %q uses a reserved suffix", r)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
