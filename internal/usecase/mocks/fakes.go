package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// FakeLedgerRepository is an in-memory LedgerRepository whose methods can
// be overridden per test.
type FakeLedgerRepository struct {
	mu      sync.Mutex
	entries []*domain.LedgerEntry

	GetLastEntryFunc func(ctx context.Context) (*domain.LedgerEntry, error)
	AppendEntryFunc  func(ctx context.Context, entry *domain.LedgerEntry) error
}

// NewFakeLedgerRepository creates a fake seeded with entries.
func NewFakeLedgerRepository(entries ...*domain.LedgerEntry) *FakeLedgerRepository {
	return &FakeLedgerRepository{entries: entries}
}

func (f *FakeLedgerRepository) GetLastEntry(ctx context.Context) (*domain.LedgerEntry, error) {
	if f.GetLastEntryFunc != nil {
		return f.GetLastEntryFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return nil, domain.ErrNoEntries
	}
	last := *f.entries[len(f.entries)-1]
	return &last, nil
}

func (f *FakeLedgerRepository) AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	if f.AppendEntryFunc != nil {
		return f.AppendEntryFunc(ctx, entry)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *entry
	f.entries = append(f.entries, &stored)
	return nil
}

// Entries returns a snapshot of appended entries.
func (f *FakeLedgerRepository) Entries() []*domain.LedgerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.LedgerEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// ScanEntries implements usecase.LedgerAuditRepository.
func (f *FakeLedgerRepository) ScanEntries(ctx context.Context, fn func(entry *domain.LedgerEntry) error) error {
	for _, entry := range f.Entries() {
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// InlineTxManager runs units of work directly under a mutex.
type InlineTxManager struct {
	mu    sync.Mutex
	Calls int

	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewInlineTxManager() *InlineTxManager {
	return &InlineTxManager{}
}

func (m *InlineTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return fn(ctx)
}

// SequentialIDGenerator returns id-1, id-2, ...
type SequentialIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewSequentialIDGenerator() *SequentialIDGenerator {
	return &SequentialIDGenerator{}
}

func (g *SequentialIDGenerator) Generate() string {
	if g.GenerateFunc != nil {
		return g.GenerateFunc()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}

// FakeIdempotencyStore is an in-memory IdempotencyStore.
type FakeIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewFakeIdempotencyStore() *FakeIdempotencyStore {
	return &FakeIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (s *FakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if s.CheckAndSetFunc != nil {
		return s.CheckAndSetFunc(ctx, key, response, ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.data[key]; ok {
		return true, existing, nil
	}
	if response == nil {
		response = []byte("processing")
	}
	s.data[key] = response
	return false, nil, nil
}

func (s *FakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, key, response, ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = response
	return nil
}

// Release removes key.
func (s *FakeIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Get returns the stored value for key.
func (s *FakeIdempotencyStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}
