package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// ReconciliationUseCase verifies the ledger entry chain.
type ReconciliationUseCase struct {
	auditRepo LedgerAuditRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(auditRepo LedgerAuditRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		auditRepo: auditRepo,
	}
}

// VerifyLedger walks every entry and checks that each one follows from its
// predecessor: sequences are contiguous from 1, the first entry starts from
// zero and every BalanceBefore equals the previous resulting balance.
func (uc *ReconciliationUseCase) VerifyLedger(ctx context.Context) (*domain.LedgerReport, error) {
	report := &domain.LedgerReport{
		Balance:    decimal.Zero,
		Consistent: true,
	}

	err := uc.auditRepo.ScanEntries(ctx, func(entry *domain.LedgerEntry) error {
		expected := report.EntryCount + 1

		switch {
		case entry.Sequence != expected:
			report.Break(entry.Sequence, fmt.Sprintf("expected sequence %d, got %d", expected, entry.Sequence))
		case !entry.BalanceBefore.Equal(report.Balance):
			report.Break(entry.Sequence, fmt.Sprintf("balance before %s does not match previous balance %s", entry.BalanceBefore, report.Balance))
		}

		report.EntryCount++
		report.Balance = entry.ResultingBalance()

		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}
