package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                 "8375",
		Env:                  "development",
		JWTSecret:            "a-very-long-development-secret-value-123",
		DBDriver:             "postgres",
		DBPassword:           "password",
		ImageStorage:         "local",
		ImageUploadDir:       "media",
		ImageMaxUploadSizeMB: 5,
		PageCacheTTLSeconds:  20,
		PageCachePrefix:      "inkwell:page:",
	}
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/inkwell-test.db")
	t.Setenv("PAGE_CACHE_TTL_SECONDS", "45")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/inkwell-test.db", cfg.DBPath)
	assert.Equal(t, 45*time.Second, cfg.PageCacheTTL())
	assert.Equal(t, "inkwell:page:", cfg.PageCachePrefix)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes())
}

func TestLoadConfig_MissingProfileFile(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.staging.yml")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Port = "" }, "PORT is required"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, "unsupported DB_DRIVER"},
		{"sqlite without path", func(c *Config) { c.DBDriver = "sqlite"; c.DBPath = "" }, "DB_PATH is required"},
		{"gcs without bucket", func(c *Config) { c.ImageStorage = "gcs" }, "GCS_BUCKET is required"},
		{"unknown storage", func(c *Config) { c.ImageStorage = "ftp" }, "unsupported IMAGE_STORAGE"},
		{"negative ttl", func(c *Config) { c.PageCacheTTLSeconds = -1 }, "must be at least 1"},
		{"zero ttl", func(c *Config) { c.PageCacheTTLSeconds = 0 }, "must be at least 1"},
		{"empty cache prefix", func(c *Config) { c.PageCachePrefix = "" }, "PAGE_CACHE_PREFIX is required"},
		{"zero upload size", func(c *Config) { c.ImageMaxUploadSizeMB = 0 }, "must be positive"},
		{
			"production default secret",
			func(c *Config) { c.Env = "production"; c.JWTSecret = defaultJWTSecret },
			"changed from the default",
		},
		{
			"production short secret",
			func(c *Config) { c.Env = "production"; c.JWTSecret = "short" },
			"at least 32 characters",
		},
		{
			"production weak db password",
			func(c *Config) { c.Env = "prod"; c.DBPassword = "password" },
			"strong DB_PASSWORD",
		},
		{
			"production sqlite needs no db password",
			func(c *Config) {
				c.Env = "production"
				c.DBDriver = "sqlite"
				c.DBPath = "inkwell.db"
				c.DBPassword = ""
			},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
