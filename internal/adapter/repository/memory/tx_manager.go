package memory

import (
	"context"
	"sync"
)

// TxManager serializes units of work with a single global lock.
type TxManager struct {
	mu sync.Mutex
}

// NewTxManager creates a new TxManager.
func NewTxManager() *TxManager {
	return &TxManager{}
}

// RunInTx runs fn while holding the append lock.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(ctx)
}
