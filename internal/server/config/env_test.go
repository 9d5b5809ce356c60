package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	noDotenv(t)

	t.Setenv("BOOKSTORE_HTTP_ADDR", ":8181")
	t.Setenv("BOOKSTORE_DATABASE_DRIVER", "postgres")
	t.Setenv("BOOKSTORE_SESSION_TTL", "2h")
	t.Setenv("BOOKSTORE_COOKIE_SECURE", "true")
	t.Setenv("BOOKSTORE_REDIS_DB", "3")
	t.Setenv("BOOKSTORE_UPLOAD_MAX_BYTES", "1024")
	t.Setenv("BOOKSTORE_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":8181", c.HTTPAddr)
	assert.Equal(t, "postgres", c.DatabaseDriver)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, 3, c.RedisDB)
	assert.EqualValues(t, 1024, c.UploadMaxBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSAllowedOrigins)
	assert.Equal(t, "bookstore.db", c.DatabaseDSN, "unset vars keep defaults")
}

func TestParseEnv_MalformedPanics(t *testing.T) {
	noDotenv(t)
	t.Setenv("BOOKSTORE_BCRYPT_COST", "twelve")

	var c Config
	require.Panics(t, func() { parseEnv(&c) })
}

func TestParseEnv_LoadsDotenv(t *testing.T) {
	called := false
	orig := dotenvLoad
	t.Cleanup(func() { dotenvLoad = orig })
	dotenvLoad = func(...string) error {
		called = true
		t.Setenv("BOOKSTORE_LOG_LEVEL", "debug")
		return nil
	}

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.True(t, called)
	assert.Equal(t, "debug", c.LogLevel)
}
