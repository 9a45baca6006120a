package memory

import (
	"context"
	"sync"

	"github.com/iho/wasteledger/internal/domain"
)

// BalanceRepository implements usecase.BalanceRepository with a version
// compare-and-swap per accreditation.
type BalanceRepository struct {
	mu       sync.RWMutex
	balances map[string]*domain.Balance
}

// NewBalanceRepository creates an empty BalanceRepository.
func NewBalanceRepository() *BalanceRepository {
	return &BalanceRepository{balances: make(map[string]*domain.Balance)}
}

// FindByAccreditationID returns a copy of the stored balance.
func (r *BalanceRepository) FindByAccreditationID(ctx context.Context, accreditationID string) (*domain.Balance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.balances[accreditationID]
	if !ok {
		return nil, domain.ErrBalanceNotFound
	}

	return b.Clone(), nil
}

// FindByAccreditationIDs returns copies of the balances that exist, in the
// order of the first occurrence of each id.
func (r *BalanceRepository) FindByAccreditationIDs(ctx context.Context, accreditationIDs []string) ([]*domain.Balance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(accreditationIDs))
	out := make([]*domain.Balance, 0, len(accreditationIDs))
	for _, id := range accreditationIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if b, ok := r.balances[id]; ok {
			out = append(out, b.Clone())
		}
	}

	return out, nil
}

// Save stores balance when the stored version equals expectedVersion. An
// absent balance has version zero. The appended transactions are already
// part of balance.Transactions.
func (r *BalanceRepository) Save(ctx context.Context, balance *domain.Balance, expectedVersion int64, _ []domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var current int64
	if stored, ok := r.balances[balance.AccreditationID]; ok {
		current = stored.Version
	}

	if current != expectedVersion {
		return domain.ErrVersionConflict
	}

	r.balances[balance.AccreditationID] = balance.Clone()
	return nil
}
