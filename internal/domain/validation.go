package domain

import (
	"github.com/shopspring/decimal"
)

// ValidateAmount validates a deposit or withdrawal amount before it reaches
// the wallet service. The service itself accepts any value. Precision is
// not capped.
func ValidateAmount(amount *decimal.Decimal) error {
	if amount == nil {
		return ErrAmountRequired
	}

	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	return nil
}
