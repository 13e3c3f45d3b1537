package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientCapital = errors.New("insufficient idle capital")
	ErrCapitalRecordExists = errors.New("capital record already exists for issuer")
	ErrNegativeIdleCapital = errors.New("idle capital must not be negative")
)

// InvariantViolation is fatal: the read-back of a ledger write found
// idle + outstanding != total. It must abort the enclosing
// transaction and is never auto-corrected, since discarding the
// mismatch would hide a real accounting bug.
type InvariantViolation struct {
	IssuerID    uint
	Idle        decimal.Decimal
	Outstanding decimal.Decimal
	Total       decimal.Decimal
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("ledger invariant violated for issuer %d: idle %s + outstanding %s != total %s",
		e.IssuerID, e.Idle, e.Outstanding, e.Total)
}

// IsInvariantViolation reports whether err wraps an InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
