// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`

	DBDriver                 string `mapstructure:"DB_DRIVER"`
	DBHost                   string `mapstructure:"DB_HOST"`
	DBPort                   string `mapstructure:"DB_PORT"`
	DBUser                   string `mapstructure:"DB_USER"`
	DBPassword               string `mapstructure:"DB_PASSWORD"`
	DBName                   string `mapstructure:"DB_NAME"`
	DBSSLMode                string `mapstructure:"DB_SSLMODE"`
	DBPath                   string `mapstructure:"DB_PATH"`
	DBMaxOpenConns           int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	RedisURL            string `mapstructure:"REDIS_URL"`
	PageCacheTTLSeconds int    `mapstructure:"PAGE_CACHE_TTL_SECONDS"`
	PageCachePrefix     string `mapstructure:"PAGE_CACHE_PREFIX"`

	ImageStorage         string  `mapstructure:"IMAGE_STORAGE"`
	ImageUploadDir       string  `mapstructure:"IMAGE_UPLOAD_DIR"`
	ImageMaxUploadSizeMB int     `mapstructure:"IMAGE_MAX_UPLOAD_SIZE_MB"`
	GCSBucket            string  `mapstructure:"GCS_BUCKET"`
	RateLimitPerMinute   int     `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	LogLevel             string  `mapstructure:"LOG_LEVEL"`
	LogPath              string  `mapstructure:"LOG_PATH"`
	LogMaxSizeMB         int     `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups        int     `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays        int     `mapstructure:"LOG_MAX_AGE_DAYS"`
	TracingEnabled       bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter      string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint         string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

var defaults = map[string]any{
	"PORT":                         "8375",
	"APP_ENV":                      "development",
	"ALLOWED_ORIGINS":              "http://localhost:5173,http://localhost:3000",
	"JWT_SECRET":                   defaultJWTSecret,
	"DB_DRIVER":                    "postgres",
	"DB_HOST":                      "localhost",
	"DB_PORT":                      "5432",
	"DB_USER":                      "user",
	"DB_PASSWORD":                  "password",
	"DB_NAME":                      "inkwell",
	"DB_SSLMODE":                   "disable",
	"DB_PATH":                      "inkwell.db",
	"DB_MAX_OPEN_CONNS":            25,
	"DB_MAX_IDLE_CONNS":            5,
	"DB_CONN_MAX_LIFETIME_MINUTES": 5,
	"REDIS_URL":                    "localhost:6379",
	"PAGE_CACHE_TTL_SECONDS":       20,
	"PAGE_CACHE_PREFIX":            "inkwell:page:",
	"IMAGE_STORAGE":                "local",
	"IMAGE_UPLOAD_DIR":             "media",
	"IMAGE_MAX_UPLOAD_SIZE_MB":     5,
	"GCS_BUCKET":                   "",
	"RATE_LIMIT_PER_MINUTE":        30,
	"LOG_LEVEL":                    "info",
	"LOG_PATH":                     "",
	"LOG_MAX_SIZE_MB":              100,
	"LOG_MAX_BACKUPS":              3,
	"LOG_MAX_AGE_DAYS":             7,
	"TRACING_ENABLED":              false,
	"TRACING_EXPORTER":             "stdout",
	"OTLP_ENDPOINT":                "localhost:4318",
	"TRACING_SAMPLER_RATIO":        1.0,
}

// LoadConfig loads application configuration from .env, config files and
// environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// The base file is optional.
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env != "development" && env != "test" && env != "" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// PageCacheTTL returns the lifetime of cached index pages.
func (c *Config) PageCacheTTL() time.Duration {
	return time.Duration(c.PageCacheTTLSeconds) * time.Second
}

// MaxUploadBytes returns the image upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.ImageMaxUploadSizeMB) << 20
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch strings.ToLower(c.DBDriver) {
	case "postgres", "mysql":
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.ImageStorage {
	case "local":
		if c.ImageUploadDir == "" {
			return errors.New("IMAGE_UPLOAD_DIR is required for local image storage")
		}
	case "gcs":
		if c.GCSBucket == "" {
			return errors.New("GCS_BUCKET is required for gcs image storage")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORAGE %q", c.ImageStorage)
	}

	if c.PageCacheTTLSeconds < 1 {
		return errors.New("PAGE_CACHE_TTL_SECONDS must be at least 1")
	}
	if c.PageCachePrefix == "" {
		return errors.New("PAGE_CACHE_PREFIX is required")
	}
	if c.ImageMaxUploadSizeMB <= 0 {
		return errors.New("IMAGE_MAX_UPLOAD_SIZE_MB must be positive")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver != "sqlite" && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
