package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/iho/gowallet/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageDriver != config.StoragePostgres {
		t.Fatalf("expected postgres driver by default, got %q", cfg.StorageDriver)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.IdempotencyEnabled() {
		t.Fatalf("expected idempotency to be disabled without REDIS_URL")
	}

	if cfg.RateLimitEnabled() {
		t.Fatalf("expected rate limiting to be disabled by default")
	}

	if cfg.LedgerMaxRetries != 3 || cfg.LedgerLockKey == 0 {
		t.Fatalf("unexpected ledger defaults: retries=%d lock=%d", cfg.LedgerMaxRetries, cfg.LedgerLockKey)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("LEDGER_LOCK_KEY", "99")
	t.Setenv("RATE_LIMIT_RPS", "12.5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageDriver != config.StorageMemory {
		t.Fatalf("expected memory driver, got %s", cfg.StorageDriver)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if !cfg.IdempotencyEnabled() || cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.LedgerLockKey != 99 {
		t.Fatalf("expected lock key override, got %d", cfg.LedgerLockKey)
	}

	if !cfg.RateLimitEnabled() || cfg.RateLimitRPS != 12.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadRejectsMalformedValue(t *testing.T) {
	t.Setenv("DATABASE_MAX_CONNS", "many")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			StorageDriver:    config.StoragePostgres,
			DatabaseURL:      "postgres://example",
			DatabaseMaxConns: 10,
			DatabaseMinConns: 2,
			LedgerMaxRetries: 3,
			RateLimitBurst:   5,
			IdempotencyTTL:   time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "valid postgres", mutate: func(c *config.Config) {}},
		{name: "memory needs no database", mutate: func(c *config.Config) {
			c.StorageDriver = config.StorageMemory
			c.DatabaseURL = ""
			c.DatabaseMaxConns = 0
		}},
		{name: "unknown driver", mutate: func(c *config.Config) { c.StorageDriver = "sqlite" }, wantErr: "STORAGE_DRIVER"},
		{name: "missing url", mutate: func(c *config.Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "min above max", mutate: func(c *config.Config) { c.DatabaseMinConns = 20 }, wantErr: "DATABASE_MIN_CONNS"},
		{name: "zero max conns", mutate: func(c *config.Config) { c.DatabaseMaxConns = 0 }, wantErr: "DATABASE_MAX_CONNS"},
		{name: "negative retries", mutate: func(c *config.Config) { c.LedgerMaxRetries = -1 }, wantErr: "LEDGER_MAX_RETRIES"},
		{name: "rate limit without burst", mutate: func(c *config.Config) {
			c.RateLimitRPS = 5
			c.RateLimitBurst = 0
		}, wantErr: "RATE_LIMIT_BURST"},
		{name: "zero idempotency ttl", mutate: func(c *config.Config) { c.IdempotencyTTL = 0 }, wantErr: "IDEMPOTENCY_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}
