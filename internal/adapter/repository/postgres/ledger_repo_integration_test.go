package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/idgen"
	infrapg "github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/usecase"
)

const testDatabaseURLEnv = "GOWALLET_TEST_DATABASE_URL"

func setupLivePool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	databaseURL := os.Getenv(testDatabaseURLEnv)
	if databaseURL == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	_, file, _, _ := runtime.Caller(0)
	migrations := filepath.Join(filepath.Dir(file), "..", "..", "..", "infrastructure", "postgres", "migrations")
	require.NoError(t, infrapg.RunMigrations(databaseURL, migrations))

	ctx := context.Background()
	pool, err := infrapg.NewPool(ctx, databaseURL, 20, 1)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE ledger_entries")
	require.NoError(t, err)

	return pool
}

func TestLiveConcurrentDeposits(t *testing.T) {
	pool := setupLivePool(t)
	repo := NewLedgerRepository(pool)
	txManager := NewTxManager(pool, TxConfig{Timeout: 5 * time.Second, Logger: zerolog.Nop()})
	svc := usecase.NewWalletUseCase(txManager, repo, idgen.NewULIDGenerator())

	ctx := context.Background()
	_, err := svc.DepositFunds(ctx, domain.Deposit{Amount: decimal.RequireFromString("100.555")})
	require.NoError(t, err)

	const workers = 25
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.DepositFunds(ctx, domain.Deposit{Amount: decimal.RequireFromString("0.01")})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	balance, err := svc.GetBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100.805", balance.Amount.String())

	report, err := usecase.NewReconciliationUseCase(repo).VerifyLedger(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent, report.Reason)
	assert.Equal(t, int64(workers+1), report.EntryCount)
}

func TestLiveEntriesAreAppendOnly(t *testing.T) {
	pool := setupLivePool(t)
	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.AppendEntry(ctx, domain.NextEntry("e1", nil, decimal.NewFromInt(1), time.Now().UTC())))

	_, err := pool.Exec(ctx, "UPDATE ledger_entries SET amount = 2")
	require.Error(t, err)

	err = repo.AppendEntry(ctx, domain.NextEntry("e2", nil, decimal.NewFromInt(1), time.Now().UTC()))
	assert.ErrorIs(t, err, domain.ErrEntryConflict)
}
