package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/domain"
)

func TestCreateNoteRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name        string
		tonnage     string
		want        decimal.Decimal
		expectError bool
	}{
		{name: "decimal tonnage", tonnage: "12.5", want: decimal.RequireFromString("12.5")},
		{name: "integer tonnage", tonnage: "3", want: decimal.NewFromInt(3)},
		{name: "not a number", tonnage: "lots", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &CreateNoteRequest{Tonnage: tt.tonnage, Notes: "for packaging"}
			got, err := req.ToUseCaseInput("org-1", "acc-1")
			if tt.expectError {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.OrganisationID != "org-1" || got.AccreditationID != "acc-1" || got.Notes != "for packaging" {
				t.Fatalf("unexpected input: %+v", got)
			}
			if !got.Tonnage.Equal(tt.want) {
				t.Fatalf("expected tonnage %s, got %s", tt.want, got.Tonnage)
			}
		})
	}
}

func TestUpdateNoteStatusRequest_ToUseCaseInput(t *testing.T) {
	req := &UpdateNoteStatusRequest{Status: "awaiting_authorisation"}
	got, err := req.ToUseCaseInput("note-1", "org-1", "acc-1", domain.ActorRoleOperator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.To != domain.NoteStatusAwaitingAuthorisation || got.Actor != domain.ActorRoleOperator || got.NoteID != "note-1" {
		t.Fatalf("unexpected input: %+v", got)
	}

	bad := &UpdateNoteStatusRequest{Status: "shredded"}
	if _, err := bad.ToUseCaseInput("note-1", "org-1", "acc-1", domain.ActorRoleOperator); !errors.Is(err, domain.ErrUnknownStatus) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}

func TestCreateSummaryLogRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateSummaryLogRequest{
		AccreditationID: "acc-1",
		Rows: []SummaryLogRowRequest{
			{Type: "received", RowID: "r1", Data: map[string]any{"tonnage": "1.5"}},
		},
	}

	got := req.ToUseCaseInput("org-1", "reg-1")
	if got.RegistrationID != "reg-1" || got.AccreditationID != "acc-1" || len(got.Rows) != 1 {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Rows[0].Type != domain.RecordTypeReceived || got.Rows[0].RowID != "r1" {
		t.Fatalf("unexpected row: %+v", got.Rows[0])
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request any
		wantErr bool
	}{
		{name: "valid note", request: &CreateNoteRequest{Tonnage: "1"}},
		{name: "missing tonnage", request: &CreateNoteRequest{}, wantErr: true},
		{name: "missing status", request: &UpdateNoteStatusRequest{}, wantErr: true},
		{name: "no rows", request: &CreateSummaryLogRequest{}, wantErr: true},
		{
			name: "unknown row type",
			request: &CreateSummaryLogRequest{Rows: []SummaryLogRowRequest{
				{Type: "burnt", RowID: "r1"},
			}},
			wantErr: true,
		},
		{
			name: "valid summary log",
			request: &CreateSummaryLogRequest{Rows: []SummaryLogRowRequest{
				{Type: "exported", RowID: "r1"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.request)
			if tt.wantErr && !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
