package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/usecase"
)

// CreateNoteRequest represents a request to raise a draft note.
type CreateNoteRequest struct {
	Tonnage string `json:"tonnage" validate:"required"`
	Notes   string `json:"notes,omitempty" validate:"max=2000"`
}

// ToUseCaseInput converts the request to use case input.
func (r *CreateNoteRequest) ToUseCaseInput(organisationID, accreditationID string) (usecase.CreateNoteInput, error) {
	tonnage, err := decimal.NewFromString(r.Tonnage)
	if err != nil {
		return usecase.CreateNoteInput{}, fmt.Errorf("%w: tonnage %q is not a number", domain.ErrValidation, r.Tonnage)
	}

	return usecase.CreateNoteInput{
		OrganisationID:  organisationID,
		AccreditationID: accreditationID,
		Tonnage:         tonnage,
		Notes:           r.Notes,
	}, nil
}

// UpdateNoteStatusRequest represents a request to move a note to a new status.
type UpdateNoteStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ToUseCaseInput converts the request to use case input.
func (r *UpdateNoteStatusRequest) ToUseCaseInput(noteID, organisationID, accreditationID string, actor domain.ActorRole) (usecase.TransitionInput, error) {
	status := domain.NoteStatus(r.Status)
	if !status.IsValid() {
		return usecase.TransitionInput{}, domain.ErrUnknownStatus
	}

	return usecase.TransitionInput{
		NoteID:          noteID,
		OrganisationID:  organisationID,
		AccreditationID: accreditationID,
		To:              status,
		Actor:           actor,
	}, nil
}

// SummaryLogRowRequest is one extracted row of an uploaded summary log.
type SummaryLogRowRequest struct {
	Type  string         `json:"type" validate:"required,oneof=received processed sent_on exported"`
	RowID string         `json:"rowId" validate:"required"`
	Data  map[string]any `json:"data"`
}

// CreateSummaryLogRequest represents an uploaded summary log.
type CreateSummaryLogRequest struct {
	AccreditationID string                 `json:"accreditationId,omitempty"`
	Rows            []SummaryLogRowRequest `json:"rows" validate:"required,min=1,dive"`
}

// ToUseCaseInput converts the request to use case input.
func (r *CreateSummaryLogRequest) ToUseCaseInput(organisationID, registrationID string) usecase.CreateSummaryLogInput {
	rows := make([]domain.SummaryLogRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = domain.SummaryLogRow{
			Type:  domain.RecordType(row.Type),
			RowID: row.RowID,
			Data:  row.Data,
		}
	}

	return usecase.CreateSummaryLogInput{
		OrganisationID:  organisationID,
		RegistrationID:  registrationID,
		AccreditationID: r.AccreditationID,
		Rows:            rows,
	}
}
