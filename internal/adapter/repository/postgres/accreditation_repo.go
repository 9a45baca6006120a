package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/wasteledger/internal/domain"
)

const (
	selectAccreditationSQL = `
		SELECT id, organisation_id, registration_id, accreditation_number, regulator,
		       processing_type, material, valid_from, valid_to
		FROM accreditations
		WHERE id = $1`

	upsertAccreditationSQL = `
		INSERT INTO accreditations (id, organisation_id, registration_id, accreditation_number, regulator, processing_type, material, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET organisation_id = EXCLUDED.organisation_id,
		    registration_id = EXCLUDED.registration_id,
		    accreditation_number = EXCLUDED.accreditation_number,
		    regulator = EXCLUDED.regulator,
		    processing_type = EXCLUDED.processing_type,
		    material = EXCLUDED.material,
		    valid_from = EXCLUDED.valid_from,
		    valid_to = EXCLUDED.valid_to`
)

// AccreditationRepository implements usecase.AccreditationRepository.
type AccreditationRepository struct {
	db DB
}

// NewAccreditationRepository creates a new AccreditationRepository.
func NewAccreditationRepository(db DB) *AccreditationRepository {
	return &AccreditationRepository{db: db}
}

// FindByID returns the accreditation when it belongs to organisationID. An
// empty organisationID matches any owner.
func (r *AccreditationRepository) FindByID(ctx context.Context, organisationID, accreditationID string) (*domain.Accreditation, error) {
	var (
		a                  domain.Accreditation
		regulator, ptype   string
		validFrom, validTo *time.Time
	)

	err := r.db.QueryRow(ctx, selectAccreditationSQL, accreditationID).Scan(
		&a.ID, &a.OrganisationID, &a.RegistrationID, &a.AccreditationNumber,
		&regulator, &ptype, &a.Material, &validFrom, &validTo,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccreditationNotFound
	}
	if err != nil {
		return nil, storeError("select accreditation", err)
	}

	if organisationID != "" && a.OrganisationID != organisationID {
		return nil, domain.ErrAccreditationNotFound
	}

	a.Regulator = domain.Regulator(regulator)
	a.ProcessingType = domain.ProcessingType(ptype)
	if validFrom != nil {
		a.ValidFrom = validFrom.UTC()
	}
	if validTo != nil {
		a.ValidTo = validTo.UTC()
	}

	return &a, nil
}

// Upsert stores an accreditation received from the registration service.
func (r *AccreditationRepository) Upsert(ctx context.Context, a domain.Accreditation) error {
	if a.ID == "" {
		return domain.ErrInvalidAccreditationID
	}
	if a.OrganisationID == "" {
		return domain.ErrInvalidOrganisationID
	}

	_, err := r.db.Exec(ctx, upsertAccreditationSQL,
		a.ID, a.OrganisationID, a.RegistrationID, a.AccreditationNumber,
		string(a.Regulator), string(a.ProcessingType), a.Material,
		nullableDate(a.ValidFrom), nullableDate(a.ValidTo),
	)
	return storeError("upsert accreditation", err)
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
