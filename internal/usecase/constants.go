package usecase

import "time"

const (
	// TransferDateTolerance is how far apart the two legs of an internal
	// transfer may be dated and still pair up.
	TransferDateTolerance = 2 * 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
