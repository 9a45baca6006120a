package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/wasteledger/internal/adapter/http/dto"
	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/usecase"
)

// NoteService defines the behavior needed by NoteHandler.
type NoteService interface {
	CreateNote(ctx context.Context, input usecase.CreateNoteInput) (*domain.Note, error)
	GetNote(ctx context.Context, id string) (*domain.Note, error)
	ListNotesByAccreditation(ctx context.Context, input usecase.ListNotesByAccreditationInput) ([]*domain.Note, error)
	TransitionStatus(ctx context.Context, input usecase.TransitionInput) (*domain.Note, error)
}

// NoteHandler handles recycling note requests.
type NoteHandler struct {
	noteUC NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteUC NoteService) *NoteHandler {
	return &NoteHandler{noteUC: noteUC}
}

// Create raises a draft note against an accreditation.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "organisationId"), chi.URLParam(r, "accreditationId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tonnage", err.Error())
		return
	}

	note, err := h.noteUC.CreateNote(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create note", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NoteFromDomain(note))
}

// Get retrieves a note by ID.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "noteId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing note ID", "")
		return
	}

	note, err := h.noteUC.GetNote(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get note", err)
		return
	}

	if org := chi.URLParam(r, "organisationId"); org != "" && note.OrganisationID != org {
		writeDomainError(w, r, "failed to get note", domain.ErrNoteNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dto.NoteFromDomain(note))
}

// ListByAccreditation lists the notes raised against an accreditation.
func (h *NoteHandler) ListByAccreditation(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteUC.ListNotesByAccreditation(r.Context(), usecase.ListNotesByAccreditationInput{
		AccreditationID: chi.URLParam(r, "accreditationId"),
		Limit:           parseIntQuery(r, "limit", usecase.DefaultListLimit),
		Offset:          parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list notes", err)
		return
	}

	org := chi.URLParam(r, "organisationId")
	owned := notes[:0]
	for _, n := range notes {
		if org == "" || n.OrganisationID == org {
			owned = append(owned, n)
		}
	}

	writeJSON(w, http.StatusOK, dto.NotesFromDomain(owned))
}

// UpdateStatus moves a note to the requested status on behalf of the
// authenticated actor.
func (h *NoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateNoteStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(
		chi.URLParam(r, "noteId"),
		chi.URLParam(r, "organisationId"),
		chi.URLParam(r, "accreditationId"),
		actorRole(r),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status", err.Error())
		return
	}

	note, err := h.noteUC.TransitionStatus(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to update note status", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NoteFromDomain(note))
}
