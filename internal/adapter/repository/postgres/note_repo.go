package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/domain"
)

const prnNumberConstraint = "notes_prn_number_key"

const (
	noteColumns = `id, COALESCE(prn_number, ''), organisation_id, accreditation_id, tonnage::text, is_export,
		notes, status, history, created_at, created_by, updated_at, issued_at, issued_by`

	insertNoteSQL = `
		INSERT INTO notes (id, prn_number, organisation_id, accreditation_id, tonnage, is_export,
		                   notes, status, history, created_at, created_by, updated_at, issued_at, issued_by)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	selectNoteSQL = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	listNotesSQL = `SELECT ` + noteColumns + `
		FROM notes
		WHERE accreditation_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`

	updateNoteStatusSQL = `
		UPDATE notes
		SET prn_number = NULLIF($2, ''), status = $3, history = $4, updated_at = $5, issued_at = $6, issued_by = $7
		WHERE id = $1 AND status = $8`

	selectNoteStatusSQL = `SELECT status FROM notes WHERE id = $1`
)

// NoteRepository implements usecase.NoteRepository.
type NoteRepository struct {
	db DB
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(db DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a new note.
func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	history, err := encodeHistory(note.History)
	if err != nil {
		return err
	}
	createdBy, err := json.Marshal(note.CreatedBy)
	if err != nil {
		return err
	}
	issuedBy, err := encodeUser(note.IssuedBy)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, insertNoteSQL,
		note.ID, note.PrnNumber, note.OrganisationID, note.AccreditationID, note.Tonnage.String(), note.IsExport,
		note.Notes, string(note.Status), history, note.CreatedAt, createdBy, note.UpdatedAt, note.IssuedAt, issuedBy,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, prnNumberConstraint):
		return domain.ErrPrnNumberTaken
	case isUniqueViolation(err, ""):
		return fmt.Errorf("%w: note %s already exists", domain.ErrConflict, note.ID)
	default:
		return storeError("insert note", err)
	}
}

// GetByID retrieves a note by ID.
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	note, err := scanNote(r.db.QueryRow(ctx, selectNoteSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListByAccreditation lists notes in creation order.
func (r *NoteRepository) ListByAccreditation(ctx context.Context, accreditationID string, limit, offset int) ([]*domain.Note, error) {
	rows, err := r.db.Query(ctx, listNotesSQL, accreditationID, limit, offset)
	if err != nil {
		return nil, storeError("list notes", err)
	}
	defer rows.Close()

	notes := make([]*domain.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate notes", err)
	}

	return notes, nil
}

// UpdateStatus writes the note's status, number, history and issue fields
// if the stored status still equals expected.
func (r *NoteRepository) UpdateStatus(ctx context.Context, note *domain.Note, expected domain.NoteStatus) error {
	history, err := encodeHistory(note.History)
	if err != nil {
		return err
	}
	issuedBy, err := encodeUser(note.IssuedBy)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, updateNoteStatusSQL,
		note.ID, note.PrnNumber, string(note.Status), history, note.UpdatedAt, note.IssuedAt, issuedBy, string(expected),
	)
	if isUniqueViolation(err, prnNumberConstraint) {
		return domain.ErrPrnNumberTaken
	}
	if err != nil {
		return storeError("update note status", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = r.db.QueryRow(ctx, selectNoteStatusSQL, note.ID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNoteNotFound
	}
	if err != nil {
		return storeError("select note status", err)
	}

	return fmt.Errorf("%w: note is %s, expected %s", domain.ErrStatusConflict, current, expected)
}

func scanNote(row pgx.Row) (*domain.Note, error) {
	var (
		n                            domain.Note
		tonnage, status              string
		history, createdBy, issuedBy []byte
		issuedAt                     *time.Time
	)

	err := row.Scan(
		&n.ID, &n.PrnNumber, &n.OrganisationID, &n.AccreditationID, &tonnage, &n.IsExport,
		&n.Notes, &status, &history, &n.CreatedAt, &createdBy, &n.UpdatedAt, &issuedAt, &issuedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, storeError("scan note", err)
	}

	if err := parseNumerics([]*decimal.Decimal{&n.Tonnage}, tonnage); err != nil {
		return nil, err
	}
	n.Status = domain.NoteStatus(status)
	n.IssuedAt = issuedAt

	if n.History, err = decodeHistory(history); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(createdBy, &n.CreatedBy); err != nil {
		return nil, fmt.Errorf("decode created_by: %w", err)
	}
	if n.IssuedBy, err = decodeUser(issuedBy); err != nil {
		return nil, err
	}

	return &n, nil
}
