package domain

import "github.com/shopspring/decimal"

// LedgerReport summarizes a full pass over the entry chain.
type LedgerReport struct {
	EntryCount int64
	Balance    decimal.Decimal
	Consistent bool

	// BrokenAt is the sequence of the first entry that does not follow from
	// its predecessor. Zero when the chain is consistent.
	BrokenAt int64
	Reason   string
}

// Break marks the report inconsistent at the given entry.
func (r *LedgerReport) Break(sequence int64, reason string) {
	if !r.Consistent {
		return
	}

	r.Consistent = false
	r.BrokenAt = sequence
	r.Reason = reason
}
