package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-k", "postgres", "-d", "postgres://db", "-s", "redis",
				"-r", "redis:6379", "-t", "30", "-l", "debug", "-x", "s3", "-f", "/var/uploads",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			},
			expected: &Config{
				HTTPAddr:       "127.0.0.1:9090",
				DatabaseDriver: "postgres",
				DatabaseDSN:    "postgres://db",
				SessionBackend: "redis",
				RedisAddr:      "redis:6379",
				SessionTTL:     30 * time.Minute,
				LogLevel:       "debug",
				UploadBackend:  "s3",
				UploadDir:      "/var/uploads",
				S3RootUser:     "user",
				S3RootPassword: "password",
				S3Bucket:       "bucket",
				S3Region:       "us-west-1",
				S3BaseEndpoint: "http://endpoint",
			},
		},
		{
			name:        "non-numeric ttl",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}

func TestParseFlags_TTLKeptWithoutFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd", "-a", ":9000"}
	config := &Config{SessionTTL: 90 * time.Second}
	parseFlags(config)
	assert.Equal(t, 90*time.Second, config.SessionTTL)

	os.Args = []string{"cmd", "-t", "5"}
	parseFlags(config)
	assert.Equal(t, 5*time.Minute, config.SessionTTL)
}

func TestLoadConfig_SubMinuteTTLFromEnv(t *testing.T) {
	noDotenv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv("BOOKSTORE_SESSION_TTL", "30s")

	cfg := LoadConfig()
	assert.Equal(t, 30*time.Second, cfg.SessionTTL)
	assert.NoError(t, cfg.Validate())
}
