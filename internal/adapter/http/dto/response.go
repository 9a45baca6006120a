package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/domain"
)

// BalanceResponse represents a waste balance in API responses.
type BalanceResponse struct {
	ID              string                `json:"id"`
	AccreditationID string                `json:"accreditationId"`
	OrganisationID  string                `json:"organisationId"`
	Amount          decimal.Decimal       `json:"amount"`
	AvailableAmount decimal.Decimal       `json:"availableAmount"`
	Version         int64                 `json:"version"`
	Transactions    []TransactionResponse `json:"transactions"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// TransactionResponse represents one balance transaction.
type TransactionResponse struct {
	ID                     string           `json:"id"`
	Type                   string           `json:"type"`
	Amount                 decimal.Decimal  `json:"amount"`
	OpeningAmount          decimal.Decimal  `json:"openingAmount"`
	ClosingAmount          decimal.Decimal  `json:"closingAmount"`
	OpeningAvailableAmount decimal.Decimal  `json:"openingAvailableAmount"`
	ClosingAvailableAmount decimal.Decimal  `json:"closingAvailableAmount"`
	CreatedAt              time.Time        `json:"createdAt"`
	CreatedBy              domain.UserRef   `json:"createdBy"`
	Entities               []EntityResponse `json:"entities"`
}

// EntityResponse links a transaction to its source.
type EntityResponse struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	CurrentVersionID   string   `json:"currentVersionId,omitempty"`
	PreviousVersionIDs []string `json:"previousVersionIds,omitempty"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.Balance) *BalanceResponse {
	txs := make([]TransactionResponse, len(b.Transactions))
	for i, tx := range b.Transactions {
		entities := make([]EntityResponse, len(tx.Entities))
		for j, e := range tx.Entities {
			entities[j] = EntityResponse{
				ID:                 e.ID,
				Type:               string(e.Type),
				CurrentVersionID:   e.CurrentVersionID,
				PreviousVersionIDs: e.PreviousVersionIDs,
			}
		}

		txs[i] = TransactionResponse{
			ID:                     tx.ID,
			Type:                   string(tx.Type),
			Amount:                 tx.Amount,
			OpeningAmount:          tx.OpeningAmount,
			ClosingAmount:          tx.ClosingAmount,
			OpeningAvailableAmount: tx.OpeningAvailableAmount,
			ClosingAvailableAmount: tx.ClosingAvailableAmount,
			CreatedAt:              tx.CreatedAt,
			CreatedBy:              tx.CreatedBy,
			Entities:               entities,
		}
	}

	return &BalanceResponse{
		ID:              b.ID,
		AccreditationID: b.AccreditationID,
		OrganisationID:  b.OrganisationID,
		Amount:          b.Amount,
		AvailableAmount: b.AvailableAmount,
		Version:         b.Version,
		Transactions:    txs,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []*domain.Balance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	ID              string                 `json:"id"`
	PrnNumber       string                 `json:"prnNumber,omitempty"`
	OrganisationID  string                 `json:"organisationId"`
	AccreditationID string                 `json:"accreditationId"`
	Tonnage         decimal.Decimal        `json:"tonnage"`
	IsExport        bool                   `json:"isExport"`
	Notes           string                 `json:"notes,omitempty"`
	Status          string                 `json:"status"`
	StatusHistory   []StatusChangeResponse `json:"statusHistory"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       domain.UserRef         `json:"createdBy"`
	UpdatedAt       time.Time              `json:"updatedAt"`
	IssuedAt        *time.Time             `json:"issuedAt,omitempty"`
	IssuedBy        *domain.UserRef        `json:"issuedBy,omitempty"`
}

// StatusChangeResponse is one entry of a note's status history.
type StatusChangeResponse struct {
	Status string         `json:"status"`
	At     time.Time      `json:"at"`
	By     domain.UserRef `json:"by"`
}

// NoteFromDomain converts a domain note to a response.
func NoteFromDomain(n *domain.Note) *NoteResponse {
	history := make([]StatusChangeResponse, len(n.History))
	for i, h := range n.History {
		history[i] = StatusChangeResponse{Status: string(h.Status), At: h.At, By: h.By}
	}

	return &NoteResponse{
		ID:              n.ID,
		PrnNumber:       n.PrnNumber,
		OrganisationID:  n.OrganisationID,
		AccreditationID: n.AccreditationID,
		Tonnage:         n.Tonnage,
		IsExport:        n.IsExport,
		Notes:           n.Notes,
		Status:          string(n.Status),
		StatusHistory:   history,
		CreatedAt:       n.CreatedAt,
		CreatedBy:       n.CreatedBy,
		UpdatedAt:       n.UpdatedAt,
		IssuedAt:        n.IssuedAt,
		IssuedBy:        n.IssuedBy,
	}
}

// NotesFromDomain converts domain notes to responses.
func NotesFromDomain(notes []*domain.Note) []*NoteResponse {
	result := make([]*NoteResponse, len(notes))
	for i, n := range notes {
		result[i] = NoteFromDomain(n)
	}
	return result
}

// SummaryLogResponse represents a summary log in API responses. Rows are
// not echoed back.
type SummaryLogResponse struct {
	ID              string              `json:"id"`
	OrganisationID  string              `json:"organisationId"`
	RegistrationID  string              `json:"registrationId"`
	AccreditationID string              `json:"accreditationId,omitempty"`
	Status          string              `json:"status"`
	RowCount        int                 `json:"rowCount"`
	Validation      *ValidationResponse `json:"validation,omitempty"`
	FailureReason   string              `json:"failureReason,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	SubmittedAt     *time.Time          `json:"submittedAt,omitempty"`
	SubmittedBy     *domain.UserRef     `json:"submittedBy,omitempty"`
}

// ValidationResponse summarises row classification.
type ValidationResponse struct {
	Included int                 `json:"included"`
	Excluded int                 `json:"excluded"`
	Rejected int                 `json:"rejected"`
	Issues   map[string][]string `json:"issues,omitempty"`
}

// SummaryLogFromDomain converts a domain summary log to a response.
func SummaryLogFromDomain(l *domain.SummaryLog) *SummaryLogResponse {
	resp := &SummaryLogResponse{
		ID:              l.ID,
		OrganisationID:  l.OrganisationID,
		RegistrationID:  l.RegistrationID,
		AccreditationID: l.AccreditationID,
		Status:          string(l.Status),
		RowCount:        len(l.Rows),
		FailureReason:   l.FailureReason,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		SubmittedAt:     l.SubmittedAt,
		SubmittedBy:     l.SubmittedBy,
	}

	if l.Validation != nil {
		resp.Validation = &ValidationResponse{
			Included: l.Validation.Included,
			Excluded: l.Validation.Excluded,
			Rejected: l.Validation.Rejected,
			Issues:   l.Validation.Issues,
		}
	}

	return resp
}

// CommandAcceptedResponse is returned when a command has been queued.
type CommandAcceptedResponse struct {
	SummaryLog *SummaryLogResponse `json:"summaryLog"`
	Command    string              `json:"command"`
	MessageID  string              `json:"messageId"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
