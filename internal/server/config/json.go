package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/flagx"
	"github.com/dmitrijs2005/bookstore/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from a zero value, so a partial file only overrides what it
// names. Durations accept "30m" style strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr        *string         `json:"http_addr"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	LogLevel        *string         `json:"log_level"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	CORSOrigins     *[]string       `json:"cors_allowed_origins"`
	DatabaseDriver  *string         `json:"database_driver"`
	DatabaseDSN     *string         `json:"database_dsn"`
	SessionBackend  *string         `json:"session_backend"`
	SessionTTL      *timex.Duration `json:"session_ttl"`
	CookieSecure    *bool           `json:"cookie_secure"`
	RedisAddr       *string         `json:"redis_addr"`
	RedisPassword   *string         `json:"redis_password"`
	RedisDB         *int            `json:"redis_db"`
	BcryptCost      *int            `json:"bcrypt_cost"`
	UploadBackend   *string         `json:"upload_backend"`
	UploadDir       *string         `json:"upload_dir"`
	UploadMaxBytes  *int64          `json:"upload_max_bytes"`
	S3RootUser      *string         `json:"s3_root_user"`
	S3RootPassword  *string         `json:"s3_root_password"`
	S3Bucket        *string         `json:"s3_bucket"`
	S3Region        *string         `json:"s3_region"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}

// parseJson loads the file named by -c/-config into config. Without the
// flag nothing happens; an unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set(&config.HTTPAddr, c.HTTPAddr)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	set(&config.LogLevel, c.LogLevel)
	setDuration(&config.RequestTimeout, c.RequestTimeout)
	set(&config.CORSAllowedOrigins, c.CORSOrigins)
	set(&config.DatabaseDriver, c.DatabaseDriver)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SessionBackend, c.SessionBackend)
	setDuration(&config.SessionTTL, c.SessionTTL)
	set(&config.CookieSecure, c.CookieSecure)
	set(&config.RedisAddr, c.RedisAddr)
	set(&config.RedisPassword, c.RedisPassword)
	set(&config.RedisDB, c.RedisDB)
	set(&config.BcryptCost, c.BcryptCost)
	set(&config.UploadBackend, c.UploadBackend)
	set(&config.UploadDir, c.UploadDir)
	set(&config.UploadMaxBytes, c.UploadMaxBytes)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}
