package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// WalletUseCase derives the wallet balance from the ledger and appends
// entries for deposits and withdrawals. It keeps no state of its own.
type WalletUseCase struct {
	txManager  TransactionManager
	ledgerRepo LedgerRepository
	idGen      IDGenerator
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(txManager TransactionManager, ledgerRepo LedgerRepository, idGen IDGenerator) *WalletUseCase {
	return &WalletUseCase{
		txManager:  txManager,
		ledgerRepo: ledgerRepo,
		idGen:      idGen,
	}
}

// GetBalance returns the current balance.
func (uc *WalletUseCase) GetBalance(ctx context.Context) (domain.Balance, error) {
	last, err := uc.lastEntry(ctx)
	if err != nil {
		return domain.Balance{}, err
	}

	return domain.BalanceOf(last), nil
}

// DepositFunds appends an entry adding deposit.Amount and returns the new
// balance. The amount is recorded as given.
func (uc *WalletUseCase) DepositFunds(ctx context.Context, deposit domain.Deposit) (domain.Balance, error) {
	var balance domain.Balance

	err := uc.txManager.RunInTx(ctx, func(ctx context.Context) error {
		last, err := uc.lastEntry(ctx)
		if err != nil {
			return err
		}

		entry := domain.NextEntry(uc.idGen.Generate(), last, deposit.Amount, time.Now().UTC())
		if err := uc.ledgerRepo.AppendEntry(ctx, entry); err != nil {
			return err
		}

		balance = domain.Balance{Amount: entry.ResultingBalance()}
		return nil
	})
	if err != nil {
		return domain.Balance{}, err
	}

	return balance, nil
}

// WithdrawFunds appends an entry removing withdrawal.Amount and returns the
// new balance. It fails with domain.ErrInsufficientBalance, appending
// nothing, when the balance would drop below zero.
func (uc *WalletUseCase) WithdrawFunds(ctx context.Context, withdrawal domain.Withdrawal) (domain.Balance, error) {
	var balance domain.Balance

	err := uc.txManager.RunInTx(ctx, func(ctx context.Context) error {
		last, err := uc.lastEntry(ctx)
		if err != nil {
			return err
		}

		current := domain.BalanceOf(last)
		if current.Amount.Sub(withdrawal.Amount).IsNegative() {
			return domain.ErrInsufficientBalance
		}

		entry := domain.NextEntry(uc.idGen.Generate(), last, withdrawal.Amount.Neg(), time.Now().UTC())
		if err := uc.ledgerRepo.AppendEntry(ctx, entry); err != nil {
			return err
		}

		balance = domain.Balance{Amount: entry.ResultingBalance()}
		return nil
	})
	if err != nil {
		return domain.Balance{}, err
	}

	return balance, nil
}

// lastEntry reads the most recent entry, returning nil for an empty ledger.
func (uc *WalletUseCase) lastEntry(ctx context.Context) (*domain.LedgerEntry, error) {
	last, err := uc.ledgerRepo.GetLastEntry(ctx)
	if errors.Is(err, domain.ErrNoEntries) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return last, nil
}
