package usecase

import "time"

// Defaults shared by adapters that have no explicit configuration.
const (
	// DefaultTransactionTimeout bounds one read-validate-append unit of work.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long a completed response can be replayed.
	IdempotencyKeyTTL = 24 * time.Hour
)
