package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Identity providers selectable through IDENTITY_PROVIDER.
const (
	IdentityProviderZulip = "zulip"
	IdentityProviderJWKS  = "jwks"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"logLevel"`
	LogDir      string `yaml:"logDir"`
	DatabaseURL string `yaml:"databaseURL"`
	CORSOrigins string `yaml:"corsOrigins"`

	// Identity resolution
	IdentityProvider string        `yaml:"identityProvider"`
	ZulipURL         string        `yaml:"zulipURL"` // empty = derive from the inbound request
	IdentityTimeout  time.Duration `yaml:"identityTimeout"`
	JWKSURL          string        `yaml:"jwksURL"`
	JWTIssuer        string        `yaml:"jwtIssuer"`
	JWTAudience      string        `yaml:"jwtAudience"`

	// Identity cache (disabled when RedisAddr is empty)
	RedisAddr        string        `yaml:"redisAddr"`
	RedisPassword    string        `yaml:"redisPassword"`
	IdentityCacheTTL time.Duration `yaml:"identityCacheTTL"`

	// Builder worker
	BuilderIterMinPeriod time.Duration `yaml:"builderIterMinPeriod"`
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE, and finally the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 "8080",
		Environment:          "dev",
		CORSOrigins:          "http://localhost:3000",
		IdentityProvider:     IdentityProviderZulip,
		IdentityTimeout:      3 * time.Second,
		IdentityCacheTTL:     30 * time.Second,
		BuilderIterMinPeriod: 3 * time.Second,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogDir = getEnv("LOG_DIR", cfg.LogDir)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.IdentityProvider = strings.ToLower(getEnv("IDENTITY_PROVIDER", cfg.IdentityProvider))
	cfg.ZulipURL = strings.TrimRight(getEnv("ZULIP_URL", cfg.ZulipURL), "/")
	cfg.JWKSURL = getEnv("IDENTITY_JWKS_URL", cfg.JWKSURL)
	cfg.JWTIssuer = getEnv("IDENTITY_JWT_ISSUER", cfg.JWTIssuer)
	cfg.JWTAudience = getEnv("IDENTITY_JWT_AUDIENCE", cfg.JWTAudience)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)

	var err error
	if cfg.IdentityTimeout, err = getDuration("IDENTITY_TIMEOUT", cfg.IdentityTimeout); err != nil {
		return nil, err
	}
	if cfg.IdentityCacheTTL, err = getDuration("IDENTITY_CACHE_TTL", cfg.IdentityCacheTTL); err != nil {
		return nil, err
	}
	if cfg.BuilderIterMinPeriod, err = getDuration("BUILDER_ITER_MIN_PERIOD", cfg.BuilderIterMinPeriod); err != nil {
		return nil, err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel(cfg.Environment)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.IdentityProvider {
	case IdentityProviderZulip:
	case IdentityProviderJWKS:
		if c.JWKSURL == "" {
			return fmt.Errorf("IDENTITY_JWKS_URL is required when IDENTITY_PROVIDER=%s", IdentityProviderJWKS)
		}
	default:
		return fmt.Errorf("unknown identity provider %q", c.IdentityProvider)
	}
	if c.IdentityTimeout <= 0 {
		return fmt.Errorf("identity timeout must be positive")
	}
	if c.BuilderIterMinPeriod <= 0 {
		return fmt.Errorf("builder iteration period must be positive")
	}
	return nil
}

// loadFile overlays values from a YAML file onto cfg. Durations use Go syntax ("3s").
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// defaultLogLevel returns the log level used when LOG_LEVEL is unset
func defaultLogLevel(env string) string {
	if env == "dev" {
		return "debug"
	}
	return "info"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("3s") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
