package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/wasteledger/internal/adapter/http/dto"
	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/usecase"
)

// SummaryLogService defines the behavior needed by SummaryLogHandler.
type SummaryLogService interface {
	CreateSummaryLog(ctx context.Context, input usecase.CreateSummaryLogInput) (*domain.SummaryLog, error)
	GetSummaryLog(ctx context.Context, id string) (*domain.SummaryLog, error)
	MarkFailed(ctx context.Context, summaryLogID, reason string) error
}

// CommandEnqueuer queues a summary log command for the worker.
type CommandEnqueuer interface {
	Enqueue(ctx context.Context, cmd domain.Command) (string, error)
}

// SummaryLogHandler accepts summary log uploads and queues their
// validation and submission.
type SummaryLogHandler struct {
	summaryLogUC SummaryLogService
	commands     CommandEnqueuer
}

// NewSummaryLogHandler creates a new SummaryLogHandler.
func NewSummaryLogHandler(summaryLogUC SummaryLogService, commands CommandEnqueuer) *SummaryLogHandler {
	return &SummaryLogHandler{summaryLogUC: summaryLogUC, commands: commands}
}

// Create stores an uploaded summary log and queues its validation.
func (h *SummaryLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSummaryLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput(chi.URLParam(r, "organisationId"), chi.URLParam(r, "registrationId"))
	log, err := h.summaryLogUC.CreateSummaryLog(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create summary log", err)
		return
	}

	h.enqueue(w, r, log, domain.CommandValidate)
}

// Get returns a summary log and its processing status.
func (h *SummaryLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	log, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryLogFromDomain(log))
}

// Submit queues the submission of a validated summary log.
func (h *SummaryLogHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log, ok := h.load(w, r)
	if !ok {
		return
	}

	if log.Status != domain.SummaryLogStatusValidated {
		err := fmt.Errorf("%w: %s", domain.ErrSummaryLogStatus, log.Status)
		writeDomainError(w, r, "summary log cannot be submitted", err)
		return
	}

	h.enqueue(w, r, log, domain.CommandSubmit)
}

func (h *SummaryLogHandler) load(w http.ResponseWriter, r *http.Request) (*domain.SummaryLog, bool) {
	id := chi.URLParam(r, "summaryLogId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing summary log ID", "")
		return nil, false
	}

	log, err := h.summaryLogUC.GetSummaryLog(r.Context(), id)
	if err == nil && (log.OrganisationID != chi.URLParam(r, "organisationId") ||
		log.RegistrationID != chi.URLParam(r, "registrationId")) {
		err = domain.ErrSummaryLogNotFound
	}
	if err != nil {
		writeDomainError(w, r, "failed to get summary log", err)
		return nil, false
	}

	return log, true
}

func (h *SummaryLogHandler) enqueue(w http.ResponseWriter, r *http.Request, log *domain.SummaryLog, name domain.CommandName) {
	user := domain.ActingUser(r.Context())
	messageID, err := h.commands.Enqueue(r.Context(), domain.Command{
		Name:         name,
		SummaryLogID: log.ID,
		User:         &user,
	})
	if err != nil {
		// A validation that was never queued would leave the log
		// validating forever.
		if name == domain.CommandValidate {
			_ = h.summaryLogUC.MarkFailed(context.WithoutCancel(r.Context()), log.ID, "validation could not be queued")
		}
		writeDomainError(w, r, "failed to queue "+string(name)+" command", domain.Transient(err))
		return
	}

	writeJSON(w, http.StatusAccepted, dto.CommandAcceptedResponse{
		SummaryLog: dto.SummaryLogFromDomain(log),
		Command:    string(name),
		MessageID:  messageID,
	})
}
