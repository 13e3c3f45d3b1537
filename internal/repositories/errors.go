package repositories

import "errors"

// Lookup errors shared by the service layer.
var (
	ErrBorrowerNotFound  = errors.New("borrower not found")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrAgentNotFound     = errors.New("agent not found")
	ErrIssuerNotFound    = errors.New("issuer not found")
	ErrNoCapitalRecord   = errors.New("no capital record for issuer")
	ErrThresholdNotFound = errors.New("no risk threshold for issuer")
	ErrProfileNotFound   = errors.New("no risk profile for borrower")
)
