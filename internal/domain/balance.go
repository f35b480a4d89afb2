package domain

import "github.com/shopspring/decimal"

// Balance is the current amount held by the wallet. It is always derived
// from the ledger and never stored on its own.
type Balance struct {
	Amount decimal.Decimal
}

// BalanceOf derives the balance from the most recent entry.
func BalanceOf(last *LedgerEntry) Balance {
	if last == nil {
		return Balance{Amount: decimal.Zero}
	}

	return Balance{Amount: last.ResultingBalance()}
}

// Deposit is a request to add funds.
type Deposit struct {
	Amount decimal.Decimal
}

// Withdrawal is a request to remove funds.
type Withdrawal struct {
	Amount decimal.Decimal
}
