package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolWithConfigInvalidURL(t *testing.T) {
	ctx := context.Background()

	// using invalid URL should return error
	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := PoolConfig{
		DatabaseURL:    "postgres://invalid:5432/db",
		MaxConns:       1,
		MinConns:       0,
		ConnectTimeout: time.Second,
	}

	_, err := NewPoolWithConfig(ctx, cfg)
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestNewPoolDelegatesToConfig(t *testing.T) {
	if _, err := NewPool(context.Background(), "://bad", 2, 1); err == nil {
		t.Fatalf("expected error for malformed URL")
	}
}
