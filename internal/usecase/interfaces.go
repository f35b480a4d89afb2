package usecase

import (
	"context"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// LedgerRepository is the append-only store of ledger entries.
type LedgerRepository interface {
	// GetLastEntry returns the most recently appended entry, or
	// domain.ErrNoEntries when nothing has been appended yet.
	GetLastEntry(ctx context.Context) (*domain.LedgerEntry, error)
	// AppendEntry persists one entry. It either fully succeeds or leaves the
	// ledger untouched.
	AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error
}

// LedgerAuditRepository walks the whole ledger for verification.
type LedgerAuditRepository interface {
	// ScanEntries calls fn for every entry in append order. Returning an
	// error from fn stops the scan and is returned as is.
	ScanEntries(ctx context.Context, fn func(entry *domain.LedgerEntry) error) error
}

// TransactionManager serializes read-validate-append sequences.
//
// fn receives a context bound to the unit of work; every repository call
// made with that context observes the effects of all previously committed
// units and no concurrent unit can append in between.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete, so it can be retried.
	Release(ctx context.Context, key string) error
}
