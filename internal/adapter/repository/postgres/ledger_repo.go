package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
)

const (
	pgErrUniqueViolation = "23505"
	sequenceConstraint   = "ledger_entries_sequence_key"

	defaultScanPageSize = 500
)

// LedgerRepository implements usecase.LedgerRepository and
// usecase.LedgerAuditRepository on top of the ledger_entries table.
// Calls made inside TxManager.RunInTx use the transaction from the context.
type LedgerRepository struct {
	db       generated.DBTX
	pageSize int32
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepositoryWithDB(pool)
}

func newLedgerRepositoryWithDB(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{db: db, pageSize: defaultScanPageSize}
}

func (r *LedgerRepository) queries(ctx context.Context) *generated.Queries {
	q := generated.New(r.db)
	if tx, ok := txFromContext(ctx); ok {
		return q.WithTx(tx)
	}
	return q
}

// GetLastEntry returns the entry with the highest sequence, or
// domain.ErrNoEntries for an empty ledger.
func (r *LedgerRepository) GetLastEntry(ctx context.Context) (*domain.LedgerEntry, error) {
	row, err := r.queries(ctx).GetLastLedgerEntry(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoEntries
		}
		return nil, err
	}

	return rowToEntry(row)
}

// AppendEntry inserts entry. A duplicate sequence is reported as
// domain.ErrEntryConflict.
func (r *LedgerRepository) AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	err := r.queries(ctx).CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ID:            entry.ID,
		Sequence:      entry.Sequence,
		BalanceBefore: entry.BalanceBefore.String(),
		Amount:        entry.Amount.String(),
		CreatedAt:     entry.CreatedAt,
	})
	if err != nil {
		if isSequenceConflict(err) {
			return fmt.Errorf("%w: sequence %d already taken", domain.ErrEntryConflict, entry.Sequence)
		}
		return err
	}

	return nil
}

// ScanEntries calls fn for every entry in sequence order, reading the table
// page by page.
func (r *LedgerRepository) ScanEntries(ctx context.Context, fn func(entry *domain.LedgerEntry) error) error {
	q := r.queries(ctx)
	after := int64(0)

	for {
		rows, err := q.ListLedgerEntriesAfter(ctx, generated.ListLedgerEntriesAfterParams{
			Sequence: after,
			Limit:    r.pageSize,
		})
		if err != nil {
			return err
		}

		for _, row := range rows {
			entry, err := rowToEntry(row)
			if err != nil {
				return err
			}
			if err := fn(entry); err != nil {
				return err
			}
			after = entry.Sequence
		}

		if len(rows) < int(r.pageSize) {
			return nil
		}
	}
}

func rowToEntry(row generated.LedgerEntry) (*domain.LedgerEntry, error) {
	before, err := decimal.NewFromString(row.BalanceBefore)
	if err != nil {
		return nil, fmt.Errorf("entry %s: parse balance_before %q: %w", row.ID, row.BalanceBefore, err)
	}

	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return nil, fmt.Errorf("entry %s: parse amount %q: %w", row.ID, row.Amount, err)
	}

	return &domain.LedgerEntry{
		ID:            row.ID,
		Sequence:      row.Sequence,
		BalanceBefore: before,
		Amount:        amount,
		CreatedAt:     row.CreatedAt.UTC(),
	}, nil
}

func isSequenceConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == sequenceConstraint
}
