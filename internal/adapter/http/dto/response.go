package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// BalanceResponse is returned by every wallet operation.
type BalanceResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

// BalanceFromDomain converts a domain balance to response.
func BalanceFromDomain(b domain.Balance) *BalanceResponse {
	return &BalanceResponse{Amount: b.Amount}
}

// LedgerReportResponse represents the result of a ledger verification.
type LedgerReportResponse struct {
	Consistent bool            `json:"consistent"`
	EntryCount int64           `json:"entry_count"`
	Balance    decimal.Decimal `json:"balance"`
	BrokenAt   *int64          `json:"broken_at,omitempty"`
	Reason     string          `json:"reason,omitempty"`
}

// LedgerReportFromDomain converts a domain report to response.
func LedgerReportFromDomain(r *domain.LedgerReport) *LedgerReportResponse {
	resp := &LedgerReportResponse{
		Consistent: r.Consistent,
		EntryCount: r.EntryCount,
		Balance:    r.Balance,
		Reason:     r.Reason,
	}
	if !r.Consistent {
		brokenAt := r.BrokenAt
		resp.BrokenAt = &brokenAt
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
