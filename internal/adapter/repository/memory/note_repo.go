package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iho/wasteledger/internal/domain"
)

// NoteRepository implements usecase.NoteRepository. Status writes are a
// compare-and-swap on the stored status and note numbers are unique.
type NoteRepository struct {
	mu      sync.RWMutex
	notes   map[string]*domain.Note
	numbers map[string]string
}

// NewNoteRepository creates an empty NoteRepository.
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		notes:   make(map[string]*domain.Note),
		numbers: make(map[string]string),
	}
}

// Create stores a new note.
func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[note.ID]; ok {
		return fmt.Errorf("%w: note %s already exists", domain.ErrConflict, note.ID)
	}
	if note.PrnNumber != "" {
		if _, taken := r.numbers[note.PrnNumber]; taken {
			return domain.ErrPrnNumberTaken
		}
		r.numbers[note.PrnNumber] = note.ID
	}

	r.notes[note.ID] = note.Clone()
	return nil
}

// GetByID returns a copy of a note.
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}

	return n.Clone(), nil
}

// ListByAccreditation returns notes oldest first.
func (r *NoteRepository) ListByAccreditation(ctx context.Context, accreditationID string, limit, offset int) ([]*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]*domain.Note, 0)
	for _, n := range r.notes {
		if n.AccreditationID == accreditationID {
			matched = append(matched, n.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if offset >= len(matched) {
		return []*domain.Note{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, nil
}

// UpdateStatus replaces the stored note if its status still equals expected.
func (r *NoteRepository) UpdateStatus(ctx context.Context, note *domain.Note, expected domain.NoteStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.notes[note.ID]
	if !ok {
		return domain.ErrNoteNotFound
	}
	if stored.Status != expected {
		return domain.ErrStatusConflict
	}

	if note.PrnNumber != "" && note.PrnNumber != stored.PrnNumber {
		if owner, taken := r.numbers[note.PrnNumber]; taken && owner != note.ID {
			return domain.ErrPrnNumberTaken
		}
		r.numbers[note.PrnNumber] = note.ID
	}

	r.notes[note.ID] = note.Clone()
	return nil
}
