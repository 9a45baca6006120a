package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/wasteledger/internal/domain"
)

// SummaryLogRepository implements usecase.SummaryLogRepository.
type SummaryLogRepository struct {
	mu   sync.RWMutex
	logs map[string]*domain.SummaryLog
}

// NewSummaryLogRepository creates an empty SummaryLogRepository.
func NewSummaryLogRepository() *SummaryLogRepository {
	return &SummaryLogRepository{logs: make(map[string]*domain.SummaryLog)}
}

func (r *SummaryLogRepository) Create(ctx context.Context, log *domain.SummaryLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.logs[log.ID]; ok {
		return fmt.Errorf("%w: summary log %s already exists", domain.ErrConflict, log.ID)
	}

	r.logs[log.ID] = log.Clone()
	return nil
}

func (r *SummaryLogRepository) GetByID(ctx context.Context, id string) (*domain.SummaryLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	log, ok := r.logs[id]
	if !ok {
		return nil, domain.ErrSummaryLogNotFound
	}

	return log.Clone(), nil
}

func (r *SummaryLogRepository) Update(ctx context.Context, log *domain.SummaryLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.logs[log.ID]; !ok {
		return domain.ErrSummaryLogNotFound
	}

	r.logs[log.ID] = log.Clone()
	return nil
}
