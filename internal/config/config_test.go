package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/videohub")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.PasswordResetTTL)
	assert.Equal(t, "redis", cfg.TaskBroker)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, int64(500<<20), cfg.UploadMaxSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", testSecret)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/videohub")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("TASK_BROKER", "amqp")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, "amqp", cfg.TaskBroker)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoadConfig_InvalidInt(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/videohub")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "eighty")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "HTTP_PORT")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPPort:       8080,
			LogLevel:       "info",
			LogFormat:      "json",
			JWTSecret:      testSecret,
			TaskBroker:     "redis",
			WorkerCount:    2,
			StorageBackend: "local",
			MediaRoot:      "media",
			PageSize:       20,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"bad broker", func(c *Config) { c.TaskBroker = "kafka" }, "TASK_BROKER"},
		{"oss without bucket", func(c *Config) { c.StorageBackend = "oss" }, "OSS_BUCKET"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "LOG_LEVEL"},
		{"page size", func(c *Config) { c.PageSize = 0 }, "PAGE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEmailsEnabled(t *testing.T) {
	cfg := &Config{SMTPHost: "smtp.test", SMTPPort: 587}
	assert.False(t, cfg.EmailsEnabled())

	cfg.EmailsFromEmail = "robot@videohub.test"
	assert.True(t, cfg.EmailsEnabled())
}

func TestRedisAddr(t *testing.T) {
	cfg := &Config{RedisURL: "redis://cache:6379"}
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
}
