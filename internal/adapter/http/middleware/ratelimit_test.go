package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

func TestRateLimiterPerClient(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	rl := NewRateLimiter(0.001, 2, m)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/onlinewallet/deposit", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}
	if code := send("10.0.0.1:1001"); code != http.StatusOK {
		t.Fatalf("second request: expected 200, got %d", code)
	}
	if code := send("10.0.0.1:1002"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: expected 429, got %d", code)
	}
	if code := send("10.0.0.2:1000"); code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", code)
	}

	if got := testutil.ToFloat64(m.RateLimitHits.WithLabelValues(http.MethodPost)); got != 1 {
		t.Fatalf("expected one rate limit hit, got %v", got)
	}
}

func TestRateLimiterSetsRetryAfter(t *testing.T) {
	rl := NewRateLimiter(0.5, 1, nil)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if i == 1 {
			if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") != "2" {
				t.Fatalf("expected 429 with Retry-After 2, got %d %q", rr.Code, rr.Header().Get("Retry-After"))
			}
		}
	}
}

func TestCleanupLimitersDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, 10, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("old")
	now = now.Add(2 * time.Hour)
	rl.getLimiter("fresh")

	if removed := rl.CleanupLimiters(time.Hour); removed != 1 {
		t.Fatalf("expected 1 limiter removed, got %d", removed)
	}
	if _, ok := rl.limiters["fresh"]; !ok {
		t.Fatalf("expected active client to be kept")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:5555"
	if got := clientIP(req); got != "192.168.1.10" {
		t.Fatalf("expected host only, got %s", got)
	}

	req.RemoteAddr = "192.168.1.11"
	if got := clientIP(req); got != "192.168.1.11" {
		t.Fatalf("expected raw address, got %s", got)
	}
}
