package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultAPIBaseURL is the backend the storefront talks to unless overridden.
const DefaultAPIBaseURL = "http://127.0.0.1:2030"

// Session store kinds.
const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

// Catalogue source kinds.
const (
	CatalogSourceAPI  = "api"
	CatalogSourceFile = "file"
	CatalogSourceS3   = "s3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Logger   LoggerConfig   `yaml:"logger"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
	// MetricsToken guards /metrics with a bearer token when set.
	MetricsToken string `yaml:"metrics_token" env:"METRICS_TOKEN"`
}

// APIConfig holds the backend REST API configuration.
type APIConfig struct {
	// The env-default must equal DefaultAPIBaseURL.
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://127.0.0.1:2030"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
}

// SessionConfig holds visitor session configuration.
type SessionConfig struct {
	Store      string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"feteer_session"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	Secure     bool          `yaml:"secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
	// CleanupInterval is how often expired sessions are purged from stores
	// that do not expire entries on their own. Zero disables the sweep.
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"SESSION_CLEANUP_INTERVAL" env-default:"10m"`
}

// DatabaseConfig holds database-related configuration for the postgres
// session store.
type DatabaseConfig struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	Database        string `yaml:"name" env:"DB_NAME" env-default:"storefront"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	MaxConnections  int    `yaml:"max_connections" env:"DB_MAX_CONNECTIONS" env-default:"10"`
	MinConnections  int    `yaml:"min_connections" env:"DB_MIN_CONNECTIONS" env-default:"2"`
	MaxConnLifetime int    `yaml:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME" env-default:"300"` // seconds

	// MaxConnIdleTime closes pooled connections idle for longer than this.
	MaxConnIdleTime   time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" env-default:"30m"`
	HealthCheckPeriod time.Duration `yaml:"health_check_period" env:"DB_HEALTH_CHECK_PERIOD" env-default:"1m"`
}

// RedisConfig holds redis configuration for the redis session store.
type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
}

// CatalogConfig selects where the product catalogue is read from.
type CatalogConfig struct {
	Source   string `yaml:"source" env:"CATALOG_SOURCE" env-default:"api"`
	FilePath string `yaml:"file_path" env:"CATALOG_FILE" env-default:"data/catalog/products.json"`
	S3Bucket string `yaml:"s3_bucket" env:"CATALOG_S3_BUCKET"`
	S3Region string `yaml:"s3_region" env:"CATALOG_S3_REGION" env-default:"us-east-1"`
	S3Key    string `yaml:"s3_key" env:"CATALOG_S3_KEY" env-default:"catalog/products.json.gz"`
	// FallbackToFile serves the local catalogue file when the primary
	// source fails.
	FallbackToFile bool `yaml:"fallback_to_file" env:"CATALOG_FALLBACK_TO_FILE" env-default:"false"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // "json" or "console"
}

// Load reads configuration from the YAML file named by CONFIG_PATH, if any,
// and from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if c.Session.CleanupInterval < 0 {
		return fmt.Errorf("session cleanup interval must not be negative")
	}

	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case SessionStoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis URL is required when the redis session store is used")
		}
	default:
		return fmt.Errorf("invalid session store: %s (must be memory, postgres, or redis)", c.Session.Store)
	}

	switch c.Catalog.Source {
	case CatalogSourceAPI:
		if c.Catalog.FallbackToFile && c.Catalog.FilePath == "" {
			return fmt.Errorf("catalog file path is required for the file fallback")
		}
	case CatalogSourceFile:
		if c.Catalog.FilePath == "" {
			return fmt.Errorf("catalog file path is required when the file source is used")
		}
	case CatalogSourceS3:
		if c.Catalog.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when the s3 catalog source is used")
		}
		if c.Catalog.S3Region == "" {
			return fmt.Errorf("S3 region is required when the s3 catalog source is used")
		}
	default:
		return fmt.Errorf("invalid catalog source: %s (must be api, file, or s3)", c.Catalog.Source)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MaxConnIdleTime < 0 {
		return fmt.Errorf("database max connection idle time must not be negative")
	}

	if c.HealthCheckPeriod < 0 {
		return fmt.Errorf("database health check period must not be negative")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
