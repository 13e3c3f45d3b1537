package dayclose

import "errors"

// ErrAlreadyClosed means day-close already ran for this collector
// today. Expected outcome, not a bug.
var ErrAlreadyClosed = errors.New("day already closed for collector")
