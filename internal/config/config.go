// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Auth Configuration
	JWTSecretKey       string        `mapstructure:"JWT_SECRET"`
	JWTExpiry          time.Duration `mapstructure:"JWT_EXPIRY_HOURS"`
	AuthCookieName     string        `mapstructure:"AUTH_COOKIE_NAME"`
	AuthCookieMaxAge   time.Duration `mapstructure:"AUTH_COOKIE_MAX_AGE_HOURS"`
	AuthCookieDomain   string        `mapstructure:"AUTH_COOKIE_DOMAIN"`
	OAuthStateCookie   string        `mapstructure:"OAUTH_STATE_COOKIE_NAME"`
	OAuthStateMaxAge   time.Duration `mapstructure:"OAUTH_STATE_MAX_AGE_MINUTES"`
	GoogleClientID     string        `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string        `mapstructure:"GOOGLE_OAUTH_CALLBACK_URL"`

	// Frontend origin, used for CORS and OAuth success redirects.
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Elasticsearch Configuration (optional; empty disables search indexing)
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`

	// Cron Jobs
	SongIndexSyncSchedule string `mapstructure:"SONG_INDEX_SYNC_SCHEDULE"`
}

// IsProduction reports whether the server runs in release mode. Cookie
// security attributes key off this.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Load attempts to load configuration from a .env file (if present) and
// environment variables, and validates everything startup depends on.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "music_library_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("JWT_EXPIRY_HOURS", 72)
	v.SetDefault("AUTH_COOKIE_NAME", "jwt")
	v.SetDefault("AUTH_COOKIE_MAX_AGE_HOURS", 72)
	v.SetDefault("AUTH_COOKIE_DOMAIN", "")
	v.SetDefault("OAUTH_STATE_COOKIE_NAME", "oauth_state")
	v.SetDefault("OAUTH_STATE_MAX_AGE_MINUTES", 10)

	// Required settings default to empty: viper only reads the environment
	// for keys it already knows about, so these must be registered for
	// AutomaticEnv to populate them. validate() rejects the empty values.
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_OAUTH_CALLBACK_URL", "")
	v.SetDefault("FRONTEND_URL", "")

	v.SetDefault("ELASTICSEARCH_URL", "")
	v.SetDefault("SONG_INDEX_SYNC_SCHEDULE", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTExpiry = time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour
	cfg.AuthCookieMaxAge = time.Duration(v.GetInt("AUTH_COOKIE_MAX_AGE_HOURS")) * time.Hour
	cfg.OAuthStateMaxAge = time.Duration(v.GetInt("OAUTH_STATE_MAX_AGE_MINUTES")) * time.Minute

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate fails startup on any missing required setting rather than
// letting the first request discover the gap.
func (c *Config) validate() error {
	var missing []string
	required := map[string]string{
		"JWT_SECRET":                c.JWTSecretKey,
		"GOOGLE_CLIENT_ID":          c.GoogleClientID,
		"GOOGLE_CLIENT_SECRET":      c.GoogleClientSecret,
		"GOOGLE_OAUTH_CALLBACK_URL": c.GoogleCallbackURL,
		"FRONTEND_URL":              c.FrontendURL,
		"DB_HOST":                   c.DBHost,
		"DB_NAME":                   c.DBName,
		"SERVER_PORT":               c.ServerPort,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("configuration validation failed: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
