// Package config handles configuration for the bookstore server: defaults,
// an optional JSON file, BOOKSTORE_* environment variables and command-line
// flags, applied in that order.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the bookstore server.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	LogLevel        string        `env:"LOG_LEVEL"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"`

	// CORSAllowedOrigins enables CORS for the listed origins; empty disables it.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	DatabaseDriver string `env:"DATABASE_DRIVER"`
	DatabaseDSN    string `env:"DATABASE_DSN"`

	SessionBackend string        `env:"SESSION_BACKEND"`
	SessionTTL     time.Duration `env:"SESSION_TTL"`
	CookieSecure   bool          `env:"COOKIE_SECURE"`
	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB"`

	BcryptCost int `env:"BCRYPT_COST"`

	UploadBackend  string `env:"UPLOAD_BACKEND"`
	UploadDir      string `env:"UPLOAD_DIR"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES"`
	S3RootUser     string `env:"S3_ROOT_USER"`
	S3RootPassword string `env:"S3_ROOT_PASSWORD"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
}

// LoadDefaults populates Config with development defaults: a local SQLite
// file, in-memory sessions and pictures stored on disk.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.RequestTimeout = 30 * time.Second
	c.CORSAllowedOrigins = nil
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "bookstore.db"
	c.SessionBackend = "memory"
	c.SessionTTL = 7 * 24 * time.Hour
	c.CookieSecure = false
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.BcryptCost = 12
	c.UploadBackend = "local"
	c.UploadDir = "uploads"
	c.UploadMaxBytes = 5 << 20
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "bookstore"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.DatabaseDriver)
	}
	switch c.SessionBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown session backend %q", c.SessionBackend)
	}
	switch c.UploadBackend {
	case "local", "s3":
	default:
		return fmt.Errorf("config: unknown upload backend %q", c.UploadBackend)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("config: database dsn is empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session ttl must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("config: upload max bytes must be positive")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// LoadBaseConfig is LoadConfig without the command-line layer, for tools
// that parse their own flags.
func LoadBaseConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	return cfg
}
