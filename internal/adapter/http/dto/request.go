package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// DepositRequest represents a request to deposit funds.
// Amount accepts a JSON number or a quoted decimal string.
type DepositRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// Validate checks the amount before the request reaches the wallet.
func (r *DepositRequest) Validate() error {
	return domain.ValidateAmount(r.Amount)
}

// ToDomain converts a validated request to a domain deposit.
func (r *DepositRequest) ToDomain() domain.Deposit {
	return domain.Deposit{Amount: *r.Amount}
}

// WithdrawRequest represents a request to withdraw funds.
type WithdrawRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// Validate checks the amount before the request reaches the wallet.
func (r *WithdrawRequest) Validate() error {
	return domain.ValidateAmount(r.Amount)
}

// ToDomain converts a validated request to a domain withdrawal.
func (r *WithdrawRequest) ToDomain() domain.Withdrawal {
	return domain.Withdrawal{Amount: *r.Amount}
}
