package domain

import "errors"

var (
	// Wallet errors
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Ledger errors
	ErrNoEntries     = errors.New("ledger has no entries")
	ErrEntryConflict = errors.New("ledger entry sequence already taken")

	// Input errors
	ErrInvalidAmount  = errors.New("amount must not be negative")
	ErrAmountRequired = errors.New("amount is required")
)
