package usecase

import (
	"context"
	"time"

	"github.com/iho/wasteledger/internal/domain"
)

// WasteRecordRepository defines data access for waste record version history.
type WasteRecordRepository interface {
	// FindByRegistration returns independent copies of every record of a registration.
	FindByRegistration(ctx context.Context, organisationID, registrationID string) ([]*domain.WasteRecord, error)
	// AppendVersions appends each version unless its source id was already recorded.
	AppendVersions(ctx context.Context, organisationID, registrationID string, versions []domain.VersionAppend) error
}

// BalanceRepository defines data access for waste balances.
type BalanceRepository interface {
	// FindByAccreditationID returns domain.ErrBalanceNotFound when no balance exists.
	FindByAccreditationID(ctx context.Context, accreditationID string) (*domain.Balance, error)
	FindByAccreditationIDs(ctx context.Context, accreditationIDs []string) ([]*domain.Balance, error)
	// Save persists balance if the stored version still equals expectedVersion
	// (zero for a new balance) and appends the given transactions. It returns
	// domain.ErrVersionConflict when the stored version has moved on.
	Save(ctx context.Context, balance *domain.Balance, expectedVersion int64, appended []domain.Transaction) error
}

// AccreditationRepository defines accreditation lookups.
type AccreditationRepository interface {
	// FindByID returns domain.ErrAccreditationNotFound when absent.
	FindByID(ctx context.Context, organisationID, accreditationID string) (*domain.Accreditation, error)
}

// NoteRepository defines data access for recycling notes.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	GetByID(ctx context.Context, id string) (*domain.Note, error)
	ListByAccreditation(ctx context.Context, accreditationID string, limit, offset int) ([]*domain.Note, error)
	// UpdateStatus writes note if its stored status still equals expected.
	// It returns domain.ErrStatusConflict otherwise and domain.ErrPrnNumberTaken
	// when the note number is already used by another note.
	UpdateStatus(ctx context.Context, note *domain.Note, expected domain.NoteStatus) error
}

// SummaryLogRepository defines data access for summary logs.
type SummaryLogRepository interface {
	Create(ctx context.Context, log *domain.SummaryLog) error
	GetByID(ctx context.Context, id string) (*domain.SummaryLog, error)
	Update(ctx context.Context, log *domain.SummaryLog) error
}

// Retrier re-runs an operation on retryable failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	// Get returns nil and no error on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

// BalanceLedger is the set of balance operations the note lifecycle drives.
type BalanceLedger interface {
	FindByAccreditationID(ctx context.Context, accreditationID string) (*domain.Balance, error)
	DeductAvailableBalanceForPrnCreation(ctx context.Context, in NoteLedgerInput) error
	DeductTotalBalanceForPrnIssue(ctx context.Context, in NoteLedgerInput) error
	CreditAvailableBalanceForPrnCancellation(ctx context.Context, in NoteLedgerInput) error
}

// BalanceReconciler reconciles record state into a waste balance.
type BalanceReconciler interface {
	UpdateWasteBalanceTransactions(ctx context.Context, records []*domain.WasteRecord, accreditationID string) error
}
