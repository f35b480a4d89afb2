package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/gowallet/internal/domain"
)

// LedgerRepository keeps the ledger in process memory. Appends are checked
// against the current length so an entry built from a stale read is
// rejected with domain.ErrEntryConflict instead of silently forking the chain.
type LedgerRepository struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
}

// NewLedgerRepository creates an empty LedgerRepository.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

// GetLastEntry returns a copy of the most recent entry.
func (r *LedgerRepository) GetLastEntry(ctx context.Context) (*domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return nil, domain.ErrNoEntries
	}

	last := r.entries[len(r.entries)-1]
	return &last, nil
}

// AppendEntry stores a copy of entry.
func (r *LedgerRepository) AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := int64(len(r.entries)) + 1
	if entry.Sequence != next {
		return fmt.Errorf("%w: got %d, next is %d", domain.ErrEntryConflict, entry.Sequence, next)
	}

	r.entries = append(r.entries, *entry)
	return nil
}

// ScanEntries calls fn for every entry in append order.
func (r *LedgerRepository) ScanEntries(ctx context.Context, fn func(entry *domain.LedgerEntry) error) error {
	r.mu.RLock()
	snapshot := make([]domain.LedgerEntry, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.RUnlock()

	for i := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(&snapshot[i]); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of stored entries.
func (r *LedgerRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
