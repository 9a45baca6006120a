package memory

import (
	"context"
	"sync"

	"github.com/iho/wasteledger/internal/domain"
)

// AccreditationRepository implements usecase.AccreditationRepository.
// Accreditations are owned by an upstream system, so the store is seeded
// with Put.
type AccreditationRepository struct {
	mu             sync.RWMutex
	accreditations map[string]domain.Accreditation
}

// NewAccreditationRepository creates a repository holding accreditations.
func NewAccreditationRepository(accreditations ...domain.Accreditation) *AccreditationRepository {
	r := &AccreditationRepository{accreditations: make(map[string]domain.Accreditation)}
	for _, a := range accreditations {
		r.Put(a)
	}
	return r
}

// Put adds or replaces an accreditation.
func (r *AccreditationRepository) Put(a domain.Accreditation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accreditations[a.ID] = a
}

// FindByID returns the accreditation when it belongs to organisationID.
func (r *AccreditationRepository) FindByID(ctx context.Context, organisationID, accreditationID string) (*domain.Accreditation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accreditations[accreditationID]
	if !ok || (organisationID != "" && a.OrganisationID != organisationID) {
		return nil, domain.ErrAccreditationNotFound
	}

	return &a, nil
}
