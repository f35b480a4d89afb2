package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()))
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url")
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close() // close before attempting to connect

	_, err := NewClient(context.Background(), url)
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}

func TestNewClientAppliesOptions(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), fmt.Sprintf("redis://%s/2", s.Addr()),
		WithTimeout(250*time.Millisecond),
		WithPoolSize(3),
	)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	opts := client.Options()
	if opts.DB != 2 || opts.PoolSize != 3 || opts.ReadTimeout != 250*time.Millisecond {
		t.Fatalf("options not applied: db=%d pool=%d read=%s", opts.DB, opts.PoolSize, opts.ReadTimeout)
	}
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), fmt.Sprintf("redis://%s", s.Addr()), WithTimeout(0))
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if client.Options().DialTimeout <= 0 {
		t.Fatalf("expected default dial timeout to remain")
	}
}
