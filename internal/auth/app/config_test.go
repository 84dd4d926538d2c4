package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPolicy(t *testing.T) {
	t.Parallel()

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()
		p, err := LoadPolicy(writePolicy(t, `
[lockout]
temporary_threshold = 3
temporary_duration = "5m"
permanent_threshold = 10

[otp]
ttl = "2m"

[tickets]
ttl = "12h"
max_attempts = 3

[[questions]]
id = 7
text = "Favourite colour?"
`))
		require.NoError(t, err)
		require.Equal(t, 3, p.Lock.TemporaryThreshold)
		require.Equal(t, 5*time.Minute, p.Lock.TemporaryDuration)
		require.Equal(t, 10, p.Lock.PermanentThreshold)
		require.Equal(t, 2*time.Minute, p.OTPTTL)
		require.Equal(t, 12*time.Hour, p.TicketTTL)
		require.Equal(t, 3, p.TicketMaxAttempts)
		require.Equal(t, []int{7}, p.Questions.IDs())

		// Untouched settings keep their defaults
		def := DefaultPolicy()
		require.Equal(t, def.OTPMaxAttempts, p.OTPMaxAttempts)
		require.Equal(t, def.SessionTTL, p.SessionTTL)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()
		p, err := LoadPolicy(writePolicy(t, ""))
		require.NoError(t, err)
		require.Equal(t, DefaultPolicy(), p)
	})

	rejects := []struct {
		name string
		body string
	}{
		{"unknown key", "[lockout]\nthreshold = 3\n"},
		{"permanent not above temporary", "[lockout]\ntemporary_threshold = 6\npermanent_threshold = 6\n"},
		{"duplicate question", "[[questions]]\nid = 1\ntext = \"a\"\n[[questions]]\nid = 1\ntext = \"b\"\n"},
		{"blank question", "[[questions]]\nid = 2\ntext = \" \"\n"},
		{"malformed", "[lockout\n"},
	}
	for _, tc := range rejects {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadPolicy(writePolicy(t, tc.body))
			require.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("AUTH_REALMS", " front, bar ,,")
	t.Setenv("HOUSEKEEPING_INTERVAL", "30")
	t.Setenv("PORT", "not-a-port")
	t.Setenv("AUTH_POLICY_FILE", writePolicy(t, "[otp]\nmax_attempts = 3\n"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"front", "bar"}, cfg.Realms)
	require.Equal(t, 30*time.Minute, cfg.HousekeepingInterval)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, 3, cfg.Policy.OTPMaxAttempts)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("AUTH_ISSUER=from-dotenv\nSESSION_COOKIE_NAME=ignored\n"), 0o600))

	// Values already in the environment win over .env
	t.Setenv("SESSION_COOKIE_NAME", "explicit")
	t.Setenv("AUTH_ISSUER", "")
	require.NoError(t, os.Unsetenv("AUTH_ISSUER"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.Issuer)
	require.Equal(t, "explicit", cfg.SessionCookieName)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	base := Config{
		DatabaseDriver: "sqlite",
		MailDriver:     "log",
		AuditSink:      "log",
		Realms:         []string{"primary"},
	}
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"postgres without url", func(c *Config) { c.DatabaseDriver = "postgres" }},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }},
		{"smtp without addr", func(c *Config) { c.MailDriver = "smtp" }},
		{"redis without addr", func(c *Config) { c.AuditSink = "redis" }},
		{"no realms", func(c *Config) { c.Realms = nil }},
		{"reserved realm suffix", func(c *Config) { c.Realms = []string{"primary:security_question"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
