package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for finalspaces-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration (view cache)
	Redis RedisConfig `yaml:"redis"`

	// Generation collaborators
	OpenAI    ProviderConfig `yaml:"openai"`
	Anthropic ProviderConfig `yaml:"anthropic"`

	// Memorial image composition collaborator
	Placid PlacidConfig `yaml:"placid"`

	// Geocoding collaborator
	Geocode GeocodeConfig `yaml:"geocode"`

	// Mail collaborators
	Mail MailConfig `yaml:"mail"`

	// Upload storage (S3-compatible object store)
	Storage StorageConfig `yaml:"storage"`

	// SessionSecret signs the short-lived login-flow cookie.
	// Server will fail to start if this is not set.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET"` // Secret - not in YAML
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development without an identity provider.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// Issuer is the identity provider's issuer URL.
	Issuer string `yaml:"issuer" env:"AUTH_ISSUER" env-default:"https://auth.finalspaces.com"`

	// JWKSURL is the identity provider's JWKS endpoint.
	JWKSURL string `yaml:"jwks_url" env:"AUTH_JWKS_URL" env-default:"https://auth.finalspaces.com/.well-known/jwks.json"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"finalspaces"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"finalspaces_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`

	// MigrationsPath is the directory holding golang-migrate SQL files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// URL builds a PostgreSQL connection URL from the configuration.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// RedisConfig holds Redis configuration for the tagged view cache.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// ProviderConfig holds settings for one text-generation provider.
// API keys are secrets and are read directly from the environment in Load.
type ProviderConfig struct {
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// PlacidConfig holds settings for the image composition API.
type PlacidConfig struct {
	BaseURL    string `yaml:"base_url" env:"PLACID_BASE_URL" env-default:"https://api.placid.app/api/rest"`
	APIKey     string `yaml:"-" env:"PLACID_API_KEY"` // Secret - not in YAML
	TemplateID string `yaml:"template_id" env:"PLACID_TEMPLATE_ID" env-default:""`
}

// GeocodeConfig holds settings for the Nominatim geocoding endpoint.
type GeocodeConfig struct {
	BaseURL string `yaml:"base_url" env:"GEOCODE_BASE_URL" env-default:"https://nominatim.openstreetmap.org"`
	// UserAgent identifies the app per the Nominatim usage policy.
	UserAgent string `yaml:"user_agent" env:"GEOCODE_USER_AGENT" env-default:"finalspaces-engine"`
}

// MailConfig holds settings for the transactional and list-subscribe senders.
type MailConfig struct {
	ResendAPIKey string `yaml:"-" env:"RESEND_API_KEY"` // Secret - not in YAML
	EmailFrom    string `yaml:"email_from" env:"RESEND_EMAIL_FROM" env-default:""`
	EmailTo      string `yaml:"email_to" env:"RESEND_EMAIL_TO" env-default:""`

	MailchimpAPIKey string `yaml:"-" env:"MAILCHIMP_API_KEY"` // Secret - not in YAML
	MailchimpServer string `yaml:"mailchimp_server" env:"MAILCHIMP_SERVER" env-default:""`
	MailchimpListID string `yaml:"mailchimp_list_id" env:"MAILCHIMP_LIST_ID" env-default:""`
}

// StorageConfig holds settings for the S3-compatible upload store.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint" env:"STORAGE_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"-" env:"STORAGE_ACCESS_KEY"` // Secret - not in YAML
	SecretKey string `yaml:"-" env:"STORAGE_SECRET_KEY"` // Secret - not in YAML
	Bucket    string `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"finalspaces-uploads"`
	UseSSL    bool   `yaml:"use_ssl" env:"STORAGE_USE_SSL" env-default:"false"`
}

// Load reads configuration from config.yaml (if present) and environment
// variables, validates it, and returns the resulting Config.
func Load(version string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.Version = version

	// Provider secrets can only arrive via environment variables.
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o"
	}
	if cfg.Anthropic.Model == "" {
		cfg.Anthropic.Model = "claude-sonnet-4-20250514"
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.SessionSecret == "" && c.Env != "local" {
		return fmt.Errorf("SESSION_SECRET is required outside local environments")
	}
	if c.Auth.EnableVerification && c.Auth.JWKSURL == "" {
		return fmt.Errorf("auth.jwks_url is required when verification is enabled")
	}
	return nil
}
