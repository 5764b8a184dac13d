package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"weekly-challenges/internal/auth"
)

// FallbackSecretKey is used when SECRET_KEY is unset. It is public knowledge
// and must never sign tokens in a real deployment.
const FallbackSecretKey = "fallback-secret-key"

// DefaultCORSOrigins is the allow-list used when CORS_ORIGINS is unset.
const DefaultCORSOrigins = "http://localhost:3000,http://127.0.0.1:3000"

// Config keeps runtime settings for the API server.
type Config struct {
	DatabaseURL     string        `env:"DATABASE_URL,default=weekly_challenges.db"`
	Port            int           `env:"PORT,default=8000"`
	SecretKey       string        `env:"SECRET_KEY,default=fallback-secret-key"`
	Algorithm       string        `env:"ALGORITHM,default=HS256"`
	TokenTTLMinutes int           `env:"ACCESS_TOKEN_EXPIRE_MINUTES,default=30"`
	CORSOrigins     string        `env:"CORS_ORIGINS"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	LogFormat       string        `env:"LOG_FORMAT,default=text"`
	StatsInterval   time.Duration `env:"STATS_INTERVAL,default=1h"`
}

// Load reads an optional dotenv file, then decodes the environment with defaults.
// Variables already present in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("decode env: %w", err)
	}

	cfg.CORSOrigins = strings.TrimSpace(cfg.CORSOrigins)
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = DefaultCORSOrigins
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = FallbackSecretKey
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if !auth.SupportedAlgorithm(c.Algorithm) {
		return fmt.Errorf("ALGORITHM %q is not supported", c.Algorithm)
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.TokenTTLMinutes)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range", c.Port)
	}
	if c.StatsInterval < 0 {
		return fmt.Errorf("STATS_INTERVAL must not be negative, got %s", c.StatsInterval)
	}
	return nil
}

// TokenTTL is the lifetime of tokens issued at login.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AllowedOrigins splits CORSOrigins into its entries.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// InsecureSecret reports whether tokens would be signed with the public fallback key.
func (c Config) InsecureSecret() bool {
	return c.SecretKey == FallbackSecretKey
}
