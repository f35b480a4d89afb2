package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one balance-affecting event. Entries are never updated
// after they are appended; Sequence gives their total order.
type LedgerEntry struct {
	CreatedAt     time.Time
	ID            string
	Sequence      int64
	BalanceBefore decimal.Decimal
	Amount        decimal.Decimal
}

// ResultingBalance returns the balance after the entry was applied.
func (e *LedgerEntry) ResultingBalance() decimal.Decimal {
	return e.BalanceBefore.Add(e.Amount)
}

// NextEntry builds the entry that follows last. A nil last stands for the
// empty ledger, so the new entry starts from a zero balance at sequence 1.
func NextEntry(id string, last *LedgerEntry, amount decimal.Decimal, at time.Time) *LedgerEntry {
	entry := &LedgerEntry{
		ID:            id,
		Sequence:      1,
		BalanceBefore: decimal.Zero,
		Amount:        amount,
		CreatedAt:     at,
	}

	if last != nil {
		entry.Sequence = last.Sequence + 1
		entry.BalanceBefore = last.ResultingBalance()
	}

	return entry
}
