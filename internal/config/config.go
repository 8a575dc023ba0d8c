package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces environment overrides, e.g. SELFCARE_DATABASE__DSN.
const EnvPrefix = "SELFCARE_"

// Config holds all configuration for the application
type Config struct {
	Environment string           `koanf:"environment"`
	Log         LogConfig        `koanf:"log"`
	Server      ServerConfig     `koanf:"server"`
	CORS        CORSConfig       `koanf:"cors"`
	Database    DatabaseConfig   `koanf:"database"`
	JWT         JWTConfig        `koanf:"jwt"`
	Security    SecurityConfig   `koanf:"security"`
	Email       EmailConfig      `koanf:"email"`
	Reminder    ReminderConfig   `koanf:"reminder"`
	Pagination  PaginationConfig `koanf:"pagination"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type ServerConfig struct {
	Address         string        `koanf:"address"`
	Mode            string        `koanf:"mode"` // gin mode: debug, release or test
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	TrustedProxies  []string      `koanf:"trusted_proxies"` // X-Forwarded-For is honored only from these
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxRetries      int           `koanf:"max_retries"`
	RetryDelay      time.Duration `koanf:"retry_delay"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	Expiry time.Duration `koanf:"expiry"`
	Issuer string        `koanf:"issuer"`
}

type SecurityConfig struct {
	BCryptCost int `koanf:"bcrypt_cost"`
}

type EmailConfig struct {
	SendGridAPIKey string `koanf:"sendgrid_api_key"`
	FromEmail      string `koanf:"from_email"`
	FromName       string `koanf:"from_name"`
}

type ReminderConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Interval  time.Duration `koanf:"interval"`
	BatchSize int           `koanf:"batch_size"`
}

type PaginationConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// envAliases maps the conventional variable names used by deployment
// platforms onto config keys. SELFCARE_ variables still win over these.
var envAliases = map[string]string{
	"ENVIRONMENT":         "environment",
	"GIN_MODE":            "server.mode",
	"DATABASE_URL":        "database.dsn",
	"DB_HOST":             "database.host",
	"DB_PORT":             "database.port",
	"DB_USER":             "database.user",
	"DB_PASSWORD":         "database.password",
	"DB_NAME":             "database.name",
	"DB_SSL_MODE":         "database.ssl_mode",
	"JWT_SECRET":          "jwt.secret",
	"JWT_EXPIRY":          "jwt.expiry",
	"SENDGRID_API_KEY":    "email.sendgrid_api_key",
	"SENDGRID_FROM_EMAIL": "email.from_email",
	"SENDGRID_FROM_NAME":  "email.from_name",
}

// Load builds the configuration from defaults, an optional YAML file, a .env
// file in the working directory and the environment, in that order.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	for name, key := range envAliases {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			if err := k.Set(key, value); err != nil {
				return nil, fmt.Errorf("failed to apply %s: %w", name, err)
			}
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		if err := k.Set("server.address", ":"+port); err != nil {
			return nil, fmt.Errorf("failed to apply PORT: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)
	cfg.Server.TrustedProxies = splitList(cfg.Server.TrustedProxies)

	return &cfg, nil
}

// envKey turns SELFCARE_DATABASE__MAX_RETRIES into database.max_retries.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// splitList flattens comma separated entries coming from a single env var.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("jwt expiry must be positive")
	}
	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("database connection is required (set DATABASE_URL or DB_HOST)")
	}
	if c.Reminder.Enabled && c.Reminder.Interval <= 0 {
		return fmt.Errorf("reminder interval must be positive")
	}
	if c.Reminder.BatchSize <= 0 {
		return fmt.Errorf("reminder batch_size must be positive")
	}
	if c.Pagination.DefaultLimit <= 0 || c.Pagination.MaxLimit <= 0 {
		return fmt.Errorf("pagination limits must be positive")
	}
	if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		return fmt.Errorf("pagination default_limit %d exceeds max_limit %d",
			c.Pagination.DefaultLimit, c.Pagination.MaxLimit)
	}
	if c.Security.BCryptCost < 4 || c.Security.BCryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31")
	}
	return nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ConnectionString returns the DSN, composing one from the individual
// parameters when no DSN was given.
func (d DatabaseConfig) ConnectionString() string {
	if d.DSN != "" {
		return d.DSN
	}
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC connect_timeout=10",
		d.Host, d.User, d.Password, d.Name, d.Port, sslMode)
}
