package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DATABASE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, 7*24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.PasswordResetTTL)
	assert.Equal(t, time.Hour, cfg.EmailVerificationTTL)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "./authkit.db", cfg.DatabaseURL)
	assert.Equal(t, "authkit", cfg.SMTP.FromName)
	assert.NotEmpty(t, cfg.SecretKey, "a random secret is generated when none is set")
	assert.False(t, cfg.RequireVerifiedLogin)
	assert.False(t, cfg.EmailsEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("ACCESS_TOKEN_EXPIRES_MINUTES", "30")
	t.Setenv("FRONTEND_HOST", "https://app.example.com/")
	t.Setenv("BACKEND_CORS_ORIGINS", "https://a.example.com/, https://b.example.com")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("POSTGRES_SERVER", "db")
	t.Setenv("POSTGRES_USER", "auth")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "users")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAILS_FROM_EMAIL", "noreply@example.com")
	t.Setenv("REQUIRE_VERIFIED_LOGIN", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "https://app.example.com", cfg.FrontendHost)
	assert.Equal(t, []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://app.example.com",
	}, cfg.AllCORSOrigins())
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "postgres://auth:pw@db:5432/users", cfg.DatabaseURL)
	assert.True(t, cfg.EmailsEnabled())
	assert.True(t, cfg.RequireVerifiedLogin)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseCORS(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "comma list", raw: "http://a, http://b", want: []string{"http://a", "http://b"}},
		{name: "json array", raw: `["http://a","http://b"]`, want: []string{"http://a", "http://b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCORS(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseCORS("[not json")
	assert.Error(t, err)
}
