package schedule

import "errors"

var (
	ErrEmptyScheduleDays = errors.New("no collection days selected")
	ErrNonPositiveAmount = errors.New("balance and daily amount must be positive")
)
