package risk

import "errors"

var (
	ErrInvertedThresholds  = errors.New("low cutoff must not be below moderate cutoff")
	ErrThresholdOutOfRange = errors.New("threshold cutoffs must be within 0-100")
)
