package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil).Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_ReadinessAllHealthy(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	handler := NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": ok})

	rec := httptest.NewRecorder()
	handler.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp["status"] != "ready" || resp["postgres"] != "ok" || resp["redis"] != "ok" {
		t.Fatalf("unexpected response %v", resp)
	}
}

func TestHealthHandler_ReadinessWithoutDependencies(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{}).Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_ReadinessUnhealthy(t *testing.T) {
	handler := NewHealthHandler(map[string]Pinger{
		"postgres": PingFunc(func(ctx context.Context) error { return nil }),
		"redis":    PingFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
	})

	rec := httptest.NewRecorder()
	handler.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	resp := decodeError(t, rec)
	if resp.Error != "redis unhealthy" {
		t.Fatalf("unexpected error %+v", resp)
	}
}
