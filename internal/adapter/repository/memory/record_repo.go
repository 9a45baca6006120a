package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iho/wasteledger/internal/domain"
)

type registrationKey struct {
	organisationID string
	registrationID string
}

// WasteRecordRepository implements usecase.WasteRecordRepository.
type WasteRecordRepository struct {
	mu      sync.RWMutex
	records map[registrationKey]map[domain.RecordKey]*domain.WasteRecord
}

// NewWasteRecordRepository creates an empty WasteRecordRepository.
func NewWasteRecordRepository() *WasteRecordRepository {
	return &WasteRecordRepository{
		records: make(map[registrationKey]map[domain.RecordKey]*domain.WasteRecord),
	}
}

// FindByRegistration returns copies of every record of a registration,
// ordered by type then row id.
func (r *WasteRecordRepository) FindByRegistration(ctx context.Context, organisationID, registrationID string) ([]*domain.WasteRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.records[registrationKey{organisationID, registrationID}]
	out := make([]*domain.WasteRecord, 0, len(rows))
	for _, rec := range rows {
		out = append(out, rec.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].RowID < out[j].RowID
	})

	return out, nil
}

// AppendVersions validates the whole batch, then applies it under a single
// lock. Versions whose source id is already recorded are skipped.
func (r *WasteRecordRepository) AppendVersions(ctx context.Context, organisationID, registrationID string, versions []domain.VersionAppend) error {
	if organisationID == "" {
		return domain.ErrInvalidOrganisationID
	}
	if registrationID == "" {
		return domain.ErrInvalidRegistrationID
	}
	for _, v := range versions {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reg := registrationKey{organisationID, registrationID}
	rows, ok := r.records[reg]
	if !ok {
		rows = make(map[domain.RecordKey]*domain.WasteRecord)
		r.records[reg] = rows
	}

	for _, v := range versions {
		key := domain.RecordKey{Type: v.Type, RowID: v.RowID}

		rec, ok := rows[key]
		if !ok {
			rec = &domain.WasteRecord{
				OrganisationID: organisationID,
				RegistrationID: registrationID,
				Type:           v.Type,
				RowID:          v.RowID,
			}
			rows[key] = rec
		}

		rec.AppendVersion(v.Data, v.Version)
	}

	return nil
}
