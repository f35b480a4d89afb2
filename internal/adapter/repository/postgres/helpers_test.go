package postgres

import (
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
)

var (
	entryColumns = []string{"id", "sequence", "balance_before", "amount", "created_at"}
	testTime     = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	lockSQL   = regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1::BIGINT)")
	lastSQL   = regexp.QuoteMeta("ORDER BY sequence DESC")
	insertSQL = regexp.QuoteMeta("INSERT INTO ledger_entries")
	listSQL   = regexp.QuoteMeta("WHERE sequence > $1")
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func fastRetrier(maxRetries int) *Retrier {
	r := NewRetrier(maxRetries, zerolog.Nop())
	r.initialInterval = time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = time.Second
	return r
}
