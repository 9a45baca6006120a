package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/wasteledger/internal/domain"
)

const (
	insertSummaryLogSQL = `
		INSERT INTO summary_logs (id, organisation_id, registration_id, accreditation_id, status, rows,
		                          validation, failure_reason, created_at, updated_at, submitted_at, submitted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	selectSummaryLogSQL = `
		SELECT id, organisation_id, registration_id, accreditation_id, status, rows,
		       validation, failure_reason, created_at, updated_at, submitted_at, submitted_by
		FROM summary_logs
		WHERE id = $1`

	updateSummaryLogSQL = `
		UPDATE summary_logs
		SET status = $2, validation = $3, failure_reason = $4, updated_at = $5, submitted_at = $6, submitted_by = $7
		WHERE id = $1`
)

// SummaryLogRepository implements usecase.SummaryLogRepository.
type SummaryLogRepository struct {
	db DB
}

// NewSummaryLogRepository creates a new SummaryLogRepository.
func NewSummaryLogRepository(db DB) *SummaryLogRepository {
	return &SummaryLogRepository{db: db}
}

// Create inserts a new summary log.
func (r *SummaryLogRepository) Create(ctx context.Context, log *domain.SummaryLog) error {
	rows, err := encodeRows(log.Rows)
	if err != nil {
		return err
	}
	validation, err := encodeValidation(log.Validation)
	if err != nil {
		return err
	}
	submittedBy, err := encodeUser(log.SubmittedBy)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, insertSummaryLogSQL,
		log.ID, log.OrganisationID, log.RegistrationID, log.AccreditationID, string(log.Status), rows,
		validation, log.FailureReason, log.CreatedAt, log.UpdatedAt, log.SubmittedAt, submittedBy,
	)
	if isUniqueViolation(err, "") {
		return fmt.Errorf("%w: summary log %s already exists", domain.ErrConflict, log.ID)
	}
	return storeError("insert summary log", err)
}

// GetByID retrieves a summary log by ID.
func (r *SummaryLogRepository) GetByID(ctx context.Context, id string) (*domain.SummaryLog, error) {
	var (
		l                             domain.SummaryLog
		status                        string
		rows, validation, submittedBy []byte
		submittedAt                   *time.Time
	)

	err := r.db.QueryRow(ctx, selectSummaryLogSQL, id).Scan(
		&l.ID, &l.OrganisationID, &l.RegistrationID, &l.AccreditationID, &status, &rows,
		&validation, &l.FailureReason, &l.CreatedAt, &l.UpdatedAt, &submittedAt, &submittedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSummaryLogNotFound
	}
	if err != nil {
		return nil, storeError("select summary log", err)
	}

	l.Status = domain.SummaryLogStatus(status)
	l.SubmittedAt = submittedAt

	if l.Rows, err = decodeRows(rows); err != nil {
		return nil, err
	}
	if l.Validation, err = decodeValidation(validation); err != nil {
		return nil, err
	}
	if l.SubmittedBy, err = decodeUser(submittedBy); err != nil {
		return nil, err
	}

	return &l, nil
}

// Update writes the mutable fields of a summary log. Rows are immutable
// after upload.
func (r *SummaryLogRepository) Update(ctx context.Context, log *domain.SummaryLog) error {
	validation, err := encodeValidation(log.Validation)
	if err != nil {
		return err
	}
	submittedBy, err := encodeUser(log.SubmittedBy)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, updateSummaryLogSQL,
		log.ID, string(log.Status), validation, log.FailureReason, log.UpdatedAt, log.SubmittedAt, submittedBy,
	)
	if err != nil {
		return storeError("update summary log", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSummaryLogNotFound
	}
	return nil
}
