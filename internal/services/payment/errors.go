package payment

import "errors"

var (
	ErrInvalidAmount            = errors.New("payment amount must be positive")
	ErrNoApplicableInstallments = errors.New("no installment could absorb the payment")
	ErrLoanNotActive            = errors.New("loan is not active")
	ErrLoanBorrowerMismatch     = errors.New("loan does not belong to borrower")
	// ErrBalanceInconsistent means applying the payment would drive
	// the loan's pending balance below zero. That points at corrupt
	// upstream data and is surfaced, never clamped.
	ErrBalanceInconsistent = errors.New("loan pending balance would go negative")
)
