package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
)

// PostgreSQL error codes for retryable errors.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// DefaultMaxRetries is used when NewRetrier gets a non-positive count.
const DefaultMaxRetries = 3

// Retrier re-runs an operation with exponential backoff on retryable errors.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// NewRetrier creates a new PostgreSQL retrier with default intervals.
func NewRetrier(maxRetries int, logger zerolog.Logger) *Retrier {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Retrier{
		maxRetries:      maxRetries,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          logger,
	}
}

// Retry runs operation until it succeeds, fails with an error that is not
// retryable, or exhausts maxRetries extra attempts. The last error is
// returned unchanged.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxRetries)), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		r.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("retryable ledger error, retrying")
	})
}

// isRetryableError reports whether err is a transient conflict: a deadlock,
// a serialization failure, or a lost sequence race.
func isRetryableError(err error) bool {
	if errors.Is(err, domain.ErrEntryConflict) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure:
			return true
		}
	}
	return false
}
