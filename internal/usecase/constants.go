package usecase

import "time"

const (
	// DefaultOperationTimeout bounds a single ledger read-modify-write,
	// including its retries.
	DefaultOperationTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultListLimit is used when a list call passes no limit.
	DefaultListLimit = 50

	// MaxListLimit caps list calls.
	MaxListLimit = 1000
)
