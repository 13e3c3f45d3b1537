package loan

import "errors"

var (
	ErrInvalidPrincipal   = errors.New("principal must be positive")
	ErrInvalidDailyAmount = errors.New("daily amount must be positive")
	ErrInvalidUpfront     = errors.New("upfront deduction must be non-negative and below principal")
	ErrLoanNotOpen        = errors.New("loan is already closed or defaulted")
)
