// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret     = "dev-jwt-secret-change-me"
	defaultSessionSecret = "dev-session-secret-change-me"
)

// Config holds every setting the server and the CLI read at startup.
type Config struct {
	Addr      string
	DBPath    string
	MediaRoot string
	Env       string // "local" or "prod"

	JWTSecret     string
	SessionSecret string
	TokenTTL      time.Duration

	CacheBackend string // "memory" or "redis"
	CacheTTL     time.Duration
	CacheSize    int
	RedisAddr    string

	// NatsURL and OtelEndpoint are optional; empty disables the feature.
	NatsURL      string
	OtelEndpoint string
}

// Load reads the configuration. A .env file in the working directory is
// applied first when present; real environment variables win over it.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	return Config{
		Addr:          getEnv("ADDR", ":8080"),
		DBPath:        getEnv("DB_PATH", "./data/yatube.db"),
		MediaRoot:     getEnv("MEDIA_ROOT", "./data/media"),
		Env:           getEnv("APP_ENV", "local"),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		TokenTTL:      getDuration("TOKEN_TTL", 14*24*time.Hour),
		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:      getDuration("CACHE_TTL", 20*time.Second),
		CacheSize:     getInt("CACHE_SIZE", 256),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		NatsURL:       getEnv("NATS_URL", ""),
		OtelEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// IsLocal reports whether the process runs in a developer environment.
func (c Config) IsLocal() bool {
	return c.Env == "local"
}

// Validate rejects settings that are unsafe or unusable.
func (c Config) Validate() error {
	if !c.IsLocal() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be set outside local environment")
		}
		if c.SessionSecret == defaultSessionSecret {
			return errors.New("SESSION_SECRET must be set outside local environment")
		}
	}
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.CacheBackend == "memory" && c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive, got %d", c.CacheSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Invalid integer, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}
