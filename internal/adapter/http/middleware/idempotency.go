package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	processingPlaceholder = "processing"
)

// IdempotencyMiddleware replays the stored response of a mutating request
// that carries an already seen Idempotency-Key.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A
// non-positive ttl falls back to usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, m *metrics.Metrics, log zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  log,
	}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		// The same key on another endpoint is a different request.
		storeKey := r.Method + " " + r.URL.Path + " " + key
		log := logger.WithRequest(r.Context(), m.logger).With().Str("idempotency_key", key).Logger()

		exists, cachedResponse, err := m.store.CheckAndSet(r.Context(), storeKey, nil, m.ttl)
		if err != nil {
			log.Error().Err(err).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			if len(cachedResponse) == 0 || string(cachedResponse) == processingPlaceholder {
				writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
				return
			}

			m.metrics.IncIdempotencyReplay()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(IdempotencyReplayHeader, "true")
			w.Write(cachedResponse)
			return
		}

		// The outcome must be recorded even after the client went away: the
		// ledger may already hold the entry.
		storeCtx := context.WithoutCancel(r.Context())

		defer func() {
			if rec := recover(); rec != nil {
				m.release(storeCtx, storeKey, log)
				panic(rec)
			}
		}()

		recorder := newResponseRecorder(w)
		next.ServeHTTP(recorder, r)

		// Store response for future idempotent requests
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			if err := m.store.Update(storeCtx, storeKey, recorder.body.Bytes(), m.ttl); err != nil {
				log.Error().Err(err).Msg("failed to store idempotent response")
			}
			return
		}

		m.release(storeCtx, storeKey, log)
	})
}

func (m *IdempotencyMiddleware) release(ctx context.Context, storeKey string, log zerolog.Logger) {
	if err := m.store.Release(ctx, storeKey); err != nil {
		log.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
