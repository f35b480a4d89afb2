package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// DefaultLedgerLockKey is the advisory lock key taken by every ledger transaction.
const DefaultLedgerLockKey int64 = 7_302_001

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxConfig configures TxManager.
type TxConfig struct {
	LockKey int64
	Timeout time.Duration
	Retrier *Retrier
	Logger  zerolog.Logger
}

// TxManager implements usecase.TransactionManager. Each unit of work runs in
// its own transaction holding pg_advisory_xact_lock(LockKey), so appends to
// the ledger are serialized across every process sharing the database.
type TxManager struct {
	pool    pgxPool
	lockKey int64
	timeout time.Duration
	retrier *Retrier
	logger  zerolog.Logger
}

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool, cfg TxConfig) *TxManager {
	return newTxManagerWithPool(pool, cfg)
}

func newTxManagerWithPool(pool pgxPool, cfg TxConfig) *TxManager {
	if cfg.LockKey == 0 {
		cfg.LockKey = DefaultLedgerLockKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = usecase.DefaultTransactionTimeout
	}
	if cfg.Retrier == nil {
		cfg.Retrier = NewRetrier(DefaultMaxRetries, cfg.Logger)
	}
	return &TxManager{
		pool:    pool,
		lockKey: cfg.LockKey,
		timeout: cfg.Timeout,
		retrier: cfg.Retrier,
		logger:  cfg.Logger,
	}
}

// RunInTx runs fn inside a transaction and commits when it returns nil.
// The whole attempt is retried on transient conflicts, so fn must not keep
// state between calls.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.retrier.Retry(ctx, func() error {
		return m.attempt(ctx, fn)
	})
}

func (m *TxManager) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}

	if err := generated.New(tx).AcquireLedgerLock(ctx, m.lockKey); err != nil {
		m.rollback(ctx, tx)
		return err
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		m.rollback(ctx, tx)
		return err
	}

	return tx.Commit(ctx)
}

func (m *TxManager) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		m.logger.Error().Err(err).Msg("ledger transaction rollback failed")
	}
}
