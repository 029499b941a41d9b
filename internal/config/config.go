package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`

	// Storage
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	SeedFile    string `env:"SEED_FILE"` // YAML fixtures loaded at startup when set

	// Credential gate: HS256 shared secret, or a JWKS endpoint for RS256/ES256
	JWTSecret  string `env:"JWT_SECRET"`
	JWTJWKSURL string `env:"JWT_JWKS_URL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Display-profile cache; disabled when RedisURL is empty
	RedisURL        string        `env:"REDIS_URL"`
	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"10m"`

	SearchLanguage string `env:"SEARCH_LANGUAGE" envDefault:"english"`

	// Logging
	LogLevel    string `env:"LOG_LEVEL"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
	LogDir      string `env:"LOG_DIR"`
	LogMaxFiles int    `env:"LOG_MAX_FILES" envDefault:"10"`
}

// Load parses the environment into a Config and validates it.
// Callers load .env first (godotenv) so local files and real env vars share one path.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations env.Parse cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q (supported: postgres, memory)", c.StoreDriver))
	}

	if c.ProfileCacheTTL < 0 {
		errs = append(errs, errors.New("PROFILE_CACHE_TTL cannot be negative"))
	}

	return errors.Join(errs...)
}

// ValidateAuth checks the credential gate settings. Only the server needs
// them; migrate and seed run without.
func (c *Config) ValidateAuth() error {
	if c.JWTSecret == "" && c.JWTJWKSURL == "" {
		return errors.New("one of JWT_SECRET or JWT_JWKS_URL is required")
	}
	return nil
}

// IsProduction reports whether the service runs in the prod environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}
