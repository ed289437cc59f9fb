package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("APP_ENV", "")

	cfg := Load()
	if cfg.CacheTTL != 20*time.Second {
		t.Errorf("CacheTTL = %s, want 20s", cfg.CacheTTL)
	}
	if cfg.CacheBackend != "memory" {
		t.Errorf("CacheBackend = %q, want memory", cfg.CacheBackend)
	}
	if !cfg.IsLocal() {
		t.Errorf("Expected local env by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed on defaults: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("CACHE_SIZE", "not-a-number")
	t.Setenv("ADDR", " :9090 ")

	cfg := Load()
	if cfg.CacheTTL != 5*time.Second {
		t.Errorf("CacheTTL = %s, want 5s", cfg.CacheTTL)
	}
	if cfg.CacheSize != 256 {
		t.Errorf("CacheSize = %d, want fallback 256", cfg.CacheSize)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want trimmed :9090", cfg.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"prod with default secret", func(c *Config) { c.Env = "prod" }, true},
		{"prod with secrets", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "real"
			c.SessionSecret = "real"
		}, false},
		{"unknown cache backend", func(c *Config) { c.CacheBackend = "memcached" }, true},
		{"zero ttl", func(c *Config) { c.CacheTTL = 0 }, true},
		{"zero cache size", func(c *Config) { c.CacheSize = 0 }, true},
		{"redis ignores cache size", func(c *Config) {
			c.CacheBackend = "redis"
			c.CacheSize = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Env:           "local",
				JWTSecret:     defaultJWTSecret,
				SessionSecret: defaultSessionSecret,
				CacheBackend:  "memory",
				CacheSize:     100,
				CacheTTL:      20 * time.Second,
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
