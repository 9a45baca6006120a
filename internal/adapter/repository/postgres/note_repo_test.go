package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/domain"
)

var noteRowColumns = []string{
	"id", "prn_number", "organisation_id", "accreditation_id", "tonnage", "is_export",
	"notes", "status", "history", "created_at", "created_by", "updated_at", "issued_at", "issued_by",
}

func draftNote() *domain.Note {
	user := domain.UserRef{ID: "user-1", Name: "Operator"}
	return &domain.Note{
		ID:              "note-1",
		OrganisationID:  "org-1",
		AccreditationID: "acc-1",
		Tonnage:         decimal.NewFromInt(20),
		Status:          domain.NoteStatusDraft,
		History:         []domain.StatusChange{{Status: domain.NoteStatusDraft, At: testTime, By: user}},
		CreatedAt:       testTime,
		CreatedBy:       user,
		UpdatedAt:       testTime,
	}
}

func TestNoteRepositoryCreate(t *testing.T) {
	mockPool := newMockPool(t)
	note := draftNote()

	mockPool.ExpectExec("INSERT INTO notes").
		WithArgs("note-1", "", "org-1", "acc-1", "20", false, "", "draft",
			pgxmock.AnyArg(), testTime, pgxmock.AnyArg(), testTime, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewNoteRepository(mockPool)
	if err := repo.Create(context.Background(), note); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestNoteRepositoryCreateDuplicate(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectExec("INSERT INTO notes").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "notes_pkey"})

	repo := NewNoteRepository(mockPool)
	err := repo.Create(context.Background(), draftNote())
	if !errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrPrnNumberTaken) {
		t.Fatalf("expected plain conflict, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestNoteRepositoryGetByID(t *testing.T) {
	mockPool := newMockPool(t)
	issuedAt := testTime

	mockPool.ExpectQuery("FROM notes WHERE id").
		WithArgs("note-1").
		WillReturnRows(pgxmock.NewRows(noteRowColumns).AddRow(
			"note-1", "ER2512345", "org-1", "acc-1", "20.5", true,
			"for export", "awaiting_acceptance",
			[]byte(`[{"status":"draft","at":"2025-03-01T12:00:00Z","by":{"id":"user-1"}}]`),
			testTime, []byte(`{"id":"user-1"}`), testTime, &issuedAt, []byte(`{"id":"signatory-1"}`),
		))

	repo := NewNoteRepository(mockPool)
	note, err := repo.GetByID(context.Background(), "note-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if note.PrnNumber != "ER2512345" || note.Status != domain.NoteStatusAwaitingAcceptance {
		t.Fatalf("unexpected note: %+v", note)
	}
	if !note.Tonnage.Equal(decimal.RequireFromString("20.5")) {
		t.Fatalf("expected tonnage 20.5, got %s", note.Tonnage)
	}
	if note.IssuedBy == nil || note.IssuedBy.ID != "signatory-1" {
		t.Fatalf("expected issued_by signatory-1, got %+v", note.IssuedBy)
	}
	if len(note.History) != 1 || note.History[0].By.ID != "user-1" {
		t.Fatalf("unexpected history: %+v", note.History)
	}

	assertExpectations(t, mockPool)
}

func TestNoteRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectQuery("FROM notes WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(noteRowColumns))

	repo := NewNoteRepository(mockPool)
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected note not found, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestNoteRepositoryListByAccreditation(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectQuery("WHERE accreditation_id").
		WithArgs("acc-1", 10, 5).
		WillReturnRows(pgxmock.NewRows(noteRowColumns).AddRow(
			"note-1", "", "org-1", "acc-1", "20", false, "", "draft",
			[]byte(`[]`), testTime, []byte(`{"id":"user-1"}`), testTime, nil, nil,
		))

	repo := NewNoteRepository(mockPool)
	notes, err := repo.ListByAccreditation(context.Background(), "acc-1", 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 1 || notes[0].IssuedAt != nil || notes[0].IssuedBy != nil {
		t.Fatalf("unexpected notes: %+v", notes)
	}

	assertExpectations(t, mockPool)
}

func TestNoteRepositoryUpdateStatus(t *testing.T) {
	note := draftNote()
	note.SetStatus(domain.NoteStatusAwaitingAuthorisation, note.CreatedBy, testTime)

	tests := []struct {
		name    string
		setup   func(pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "written",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec("UPDATE notes").
					WithArgs("note-1", "", "awaiting_authorisation", pgxmock.AnyArg(), testTime,
						pgxmock.AnyArg(), pgxmock.AnyArg(), "draft").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "status moved on",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec("UPDATE notes").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				m.ExpectQuery("SELECT status FROM notes").
					WithArgs("note-1").
					WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("discarded"))
			},
			wantErr: domain.ErrStatusConflict,
		},
		{
			name: "note missing",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec("UPDATE notes").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				m.ExpectQuery("SELECT status FROM notes").
					WithArgs("note-1").
					WillReturnRows(pgxmock.NewRows([]string{"status"}))
			},
			wantErr: domain.ErrNoteNotFound,
		},
		{
			name: "number taken",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec("UPDATE notes").
					WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: prnNumberConstraint})
			},
			wantErr: domain.ErrPrnNumberTaken,
		},
		{
			name: "driver failure",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec("UPDATE notes").WillReturnError(errors.New("connection reset"))
			},
			wantErr: domain.ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPool := newMockPool(t)
			tt.setup(mockPool)

			repo := NewNoteRepository(mockPool)
			err := repo.UpdateStatus(context.Background(), note, domain.NoteStatusDraft)

			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			assertExpectations(t, mockPool)
		})
	}
}
