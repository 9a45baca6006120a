package postgres

import (
	"context"
	"encoding/json"

	"github.com/iho/wasteledger/internal/domain"
)

const (
	selectRecordsSQL = `
		SELECT type, row_id, data
		FROM waste_records
		WHERE organisation_id = $1 AND registration_id = $2
		ORDER BY type, row_id`

	selectRecordVersionsSQL = `
		SELECT type, row_id, source_id, status, data, created_at
		FROM waste_record_versions
		WHERE organisation_id = $1 AND registration_id = $2
		ORDER BY seq`

	insertRecordSQL = `
		INSERT INTO waste_records (organisation_id, registration_id, type, row_id, data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organisation_id, registration_id, type, row_id) DO NOTHING`

	insertRecordVersionSQL = `
		INSERT INTO waste_record_versions (organisation_id, registration_id, type, row_id, source_id, status, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organisation_id, registration_id, type, row_id, source_id) DO NOTHING`

	updateRecordDataSQL = `
		UPDATE waste_records
		SET data = $5
		WHERE organisation_id = $1 AND registration_id = $2 AND type = $3 AND row_id = $4`
)

// WasteRecordRepository implements usecase.WasteRecordRepository. The
// version primary key includes the source id, so a replayed append is a
// no-op at the database.
type WasteRecordRepository struct {
	tx *TxManager
}

// NewWasteRecordRepository creates a new WasteRecordRepository.
func NewWasteRecordRepository(db DB) *WasteRecordRepository {
	return &WasteRecordRepository{tx: NewTxManager(db)}
}

// FindByRegistration returns every record of a registration with its
// versions in append order.
func (r *WasteRecordRepository) FindByRegistration(ctx context.Context, organisationID, registrationID string) ([]*domain.WasteRecord, error) {
	var out []*domain.WasteRecord

	err := r.tx.WithSnapshot(ctx, func(q Querier) error {
		records, index, err := loadRecords(ctx, q, organisationID, registrationID)
		if err != nil {
			return err
		}
		if err := loadVersions(ctx, q, organisationID, registrationID, index); err != nil {
			return err
		}
		out = records
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func loadRecords(ctx context.Context, q Querier, organisationID, registrationID string) ([]*domain.WasteRecord, map[domain.RecordKey]*domain.WasteRecord, error) {
	rows, err := q.Query(ctx, selectRecordsSQL, organisationID, registrationID)
	if err != nil {
		return nil, nil, storeError("select records", err)
	}
	defer rows.Close()

	records := make([]*domain.WasteRecord, 0)
	index := make(map[domain.RecordKey]*domain.WasteRecord)

	for rows.Next() {
		var (
			typ, rowID string
			raw        []byte
		)
		if err := rows.Scan(&typ, &rowID, &raw); err != nil {
			return nil, nil, storeError("scan record", err)
		}

		data, err := decodeData(raw)
		if err != nil {
			return nil, nil, err
		}

		rec := &domain.WasteRecord{
			OrganisationID: organisationID,
			RegistrationID: registrationID,
			Type:           domain.RecordType(typ),
			RowID:          rowID,
			Data:           data,
		}
		records = append(records, rec)
		index[rec.Key()] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, nil, storeError("iterate records", err)
	}

	return records, index, nil
}

func loadVersions(ctx context.Context, q Querier, organisationID, registrationID string, index map[domain.RecordKey]*domain.WasteRecord) error {
	rows, err := q.Query(ctx, selectRecordVersionsSQL, organisationID, registrationID)
	if err != nil {
		return storeError("select record versions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			typ, rowID, status string
			raw                []byte
			v                  domain.RecordVersion
		)
		if err := rows.Scan(&typ, &rowID, &v.SourceID, &status, &raw, &v.CreatedAt); err != nil {
			return storeError("scan record version", err)
		}

		rec, ok := index[domain.RecordKey{Type: domain.RecordType(typ), RowID: rowID}]
		if !ok {
			continue
		}

		if v.Data, err = decodeData(raw); err != nil {
			return err
		}
		v.Status = domain.VersionStatus(status)
		rec.Versions = append(rec.Versions, v)
	}

	return storeError("iterate record versions", rows.Err())
}

// AppendVersions validates the batch and applies it in one transaction.
// A version whose source id is already recorded leaves its record as is.
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

	if len(versions) == 0 {
		return nil
	}

	return r.tx.WithTx(ctx, func(q Querier) error {
		for _, v := range versions {
			if err := appendVersion(ctx, q, organisationID, registrationID, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func appendVersion(ctx context.Context, q Querier, organisationID, registrationID string, v domain.VersionAppend) error {
	data, err := json.Marshal(v.Data)
	if err != nil {
		return err
	}
	versionData, err := json.Marshal(v.Version.Data)
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, insertRecordSQL, organisationID, registrationID, string(v.Type), v.RowID, data); err != nil {
		return storeError("insert record", err)
	}

	tag, err := q.Exec(ctx, insertRecordVersionSQL,
		organisationID, registrationID, string(v.Type), v.RowID,
		v.Version.SourceID, string(v.Version.Status), versionData, v.Version.CreatedAt,
	)
	if err != nil {
		return storeError("insert record version", err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	_, err = q.Exec(ctx, updateRecordDataSQL, organisationID, registrationID, string(v.Type), v.RowID, data)
	return storeError("update record", err)
}
