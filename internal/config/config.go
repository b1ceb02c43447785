package config

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	ServerPort  int
	Environment string // local, staging or production
	LogLevel    string
	ProjectName string

	SecretKey            string
	AccessTokenTTL       time.Duration
	PasswordResetTTL     time.Duration
	EmailVerificationTTL time.Duration

	FrontendHost string
	CORSOrigins  []string

	DatabaseDriver string
	DatabaseURL    string

	SMTP SMTPConfig

	// RequireVerifiedLogin rejects logins from accounts that have not
	// confirmed their email address.
	RequireVerifiedLogin bool
}

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	SSL       bool
	FromEmail string
	FromName  string
}

// Load loads configuration from an optional .env file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PROJECT_NAME", "authkit")
	v.SetDefault("ACCESS_TOKEN_EXPIRES_MINUTES", 60*24*7)
	v.SetDefault("PASSWORD_RESET_EXPIRES_MINUTES", 15)
	v.SetDefault("EMAIL_VERIFICATION_EXPIRES_MINUTES", 60)
	v.SetDefault("FRONTEND_HOST", "http://localhost:3000")
	v.SetDefault("BACKEND_CORS_ORIGINS", "")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "./authkit.db")
	v.SetDefault("POSTGRES_SERVER", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_DB", "app")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SSL", false)
	v.SetDefault("EMAILS_FROM_EMAIL", "")
	v.SetDefault("EMAILS_FROM_NAME", "")
	v.SetDefault("REQUIRE_VERIFIED_LOGIN", false)
}

func fromViper(v *viper.Viper) (*Config, error) {
	origins, err := parseCORS(v.GetString("BACKEND_CORS_ORIGINS"))
	if err != nil {
		return nil, fmt.Errorf("parse BACKEND_CORS_ORIGINS: %w", err)
	}

	cfg := &Config{
		ServerPort:           v.GetInt("PORT"),
		Environment:          v.GetString("ENVIRONMENT"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		ProjectName:          v.GetString("PROJECT_NAME"),
		SecretKey:            v.GetString("SECRET_KEY"),
		AccessTokenTTL:       time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRES_MINUTES")) * time.Minute,
		PasswordResetTTL:     time.Duration(v.GetInt("PASSWORD_RESET_EXPIRES_MINUTES")) * time.Minute,
		EmailVerificationTTL: time.Duration(v.GetInt("EMAIL_VERIFICATION_EXPIRES_MINUTES")) * time.Minute,
		FrontendHost:         strings.TrimRight(v.GetString("FRONTEND_HOST"), "/"),
		CORSOrigins:          origins,
		DatabaseDriver:       strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:          v.GetString("DATABASE_URL"),
		SMTP: SMTPConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			User:      v.GetString("SMTP_USER"),
			Password:  v.GetString("SMTP_PASSWORD"),
			SSL:       v.GetBool("SMTP_SSL"),
			FromEmail: v.GetString("EMAILS_FROM_EMAIL"),
			FromName:  v.GetString("EMAILS_FROM_NAME"),
		},
		RequireVerifiedLogin: v.GetBool("REQUIRE_VERIFIED_LOGIN"),
	}

	if cfg.SMTP.FromName == "" {
		cfg.SMTP.FromName = cfg.ProjectName
	}

	if cfg.DatabaseURL == "" {
		switch cfg.DatabaseDriver {
		case DriverPostgres:
			cfg.DatabaseURL = postgresURL(v)
		default:
			cfg.DatabaseURL = v.GetString("SQLITE_PATH")
		}
	}

	if cfg.SecretKey == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate secret key: %w", err)
		}
		cfg.SecretKey = secret
		if cfg.Environment != "local" {
			log.Warn().Str("environment", cfg.Environment).Msg("SECRET_KEY is not set, using a random key; issued tokens will not survive a restart")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ServerPort <= 0 {
		return fmt.Errorf("invalid PORT %d", c.ServerPort)
	}
	if c.AccessTokenTTL <= 0 || c.PasswordResetTTL <= 0 || c.EmailVerificationTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	return nil
}

// AllCORSOrigins returns the configured origins plus the frontend host.
func (c *Config) AllCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORSOrigins)+1)
	for _, o := range c.CORSOrigins {
		origins = append(origins, strings.TrimRight(o, "/"))
	}
	return append(origins, c.FrontendHost)
}

// EmailsEnabled reports whether outgoing mail is configured.
func (c *Config) EmailsEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.FromEmail != ""
}

// parseCORS accepts either a comma-separated list or a JSON array.
func parseCORS(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func postgresURL(v *viper.Viper) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(v.GetString("POSTGRES_USER"), v.GetString("POSTGRES_PASSWORD")),
		Host:   v.GetString("POSTGRES_SERVER") + ":" + strconv.Itoa(v.GetInt("POSTGRES_PORT")),
		Path:   "/" + v.GetString("POSTGRES_DB"),
	}
	return u.String()
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
