package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/wasteledger/internal/adapter/http/dto"
	"github.com/iho/wasteledger/internal/domain"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	FindByAccreditationID(ctx context.Context, accreditationID string) (*domain.Balance, error)
	FindByAccreditationIDs(ctx context.Context, accreditationIDs []string) ([]*domain.Balance, error)
}

// BalanceHandler serves waste balance reads.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get returns the balance of one accreditation.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	accreditationID := chi.URLParam(r, "accreditationId")
	if accreditationID == "" {
		writeError(w, http.StatusBadRequest, "missing accreditation ID", "")
		return
	}

	balance, err := h.balanceUC.FindByAccreditationID(r.Context(), accreditationID)
	if err != nil {
		writeDomainError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// List returns the balances of a comma separated set of accreditations.
// Accreditations without a balance are left out.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("accreditationIds"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "missing accreditationIds", "")
		return
	}

	balances, err := h.balanceUC.FindByAccreditationIDs(r.Context(), ids)
	if err != nil {
		writeDomainError(w, r, "failed to list balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}
