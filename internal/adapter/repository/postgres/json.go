package postgres

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/domain"
)

type entityJSON struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	CurrentVersionID   string   `json:"currentVersionId,omitempty"`
	PreviousVersionIDs []string `json:"previousVersionIds,omitempty"`
}

type statusChangeJSON struct {
	Status string         `json:"status"`
	At     time.Time      `json:"at"`
	By     domain.UserRef `json:"by"`
}

type rowJSON struct {
	Type  string         `json:"type"`
	RowID string         `json:"rowId"`
	Data  map[string]any `json:"data"`
}

type validationJSON struct {
	Included int                 `json:"included"`
	Excluded int                 `json:"excluded"`
	Rejected int                 `json:"rejected"`
	Issues   map[string][]string `json:"issues,omitempty"`
}

func encodeEntities(in []domain.TransactionEntity) ([]byte, error) {
	out := make([]entityJSON, len(in))
	for i, e := range in {
		out[i] = entityJSON{
			ID:                 e.ID,
			Type:               string(e.Type),
			CurrentVersionID:   e.CurrentVersionID,
			PreviousVersionIDs: e.PreviousVersionIDs,
		}
	}
	return json.Marshal(out)
}

func decodeEntities(raw []byte) ([]domain.TransactionEntity, error) {
	var in []entityJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}

	out := make([]domain.TransactionEntity, len(in))
	for i, e := range in {
		out[i] = domain.TransactionEntity{
			ID:                 e.ID,
			Type:               domain.EntityType(e.Type),
			CurrentVersionID:   e.CurrentVersionID,
			PreviousVersionIDs: e.PreviousVersionIDs,
		}
	}
	return out, nil
}

func encodeHistory(in []domain.StatusChange) ([]byte, error) {
	out := make([]statusChangeJSON, len(in))
	for i, h := range in {
		out[i] = statusChangeJSON{Status: string(h.Status), At: h.At, By: h.By}
	}
	return json.Marshal(out)
}

func decodeHistory(raw []byte) ([]domain.StatusChange, error) {
	var in []statusChangeJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	out := make([]domain.StatusChange, len(in))
	for i, h := range in {
		out[i] = domain.StatusChange{Status: domain.NoteStatus(h.Status), At: h.At, By: h.By}
	}
	return out, nil
}

func encodeRows(in []domain.SummaryLogRow) ([]byte, error) {
	out := make([]rowJSON, len(in))
	for i, r := range in {
		out[i] = rowJSON{Type: string(r.Type), RowID: r.RowID, Data: r.Data}
	}
	return json.Marshal(out)
}

func decodeRows(raw []byte) ([]domain.SummaryLogRow, error) {
	var in []rowJSON
	if err := unmarshalNumbers(raw, &in); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}

	out := make([]domain.SummaryLogRow, len(in))
	for i, r := range in {
		out[i] = domain.SummaryLogRow{Type: domain.RecordType(r.Type), RowID: r.RowID, Data: r.Data}
	}
	return out, nil
}

func encodeValidation(in *domain.ValidationSummary) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	return json.Marshal(validationJSON{
		Included: in.Included,
		Excluded: in.Excluded,
		Rejected: in.Rejected,
		Issues:   in.Issues,
	})
}

func decodeValidation(raw []byte) (*domain.ValidationSummary, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var v validationJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode validation: %w", err)
	}

	return &domain.ValidationSummary{
		Included: v.Included,
		Excluded: v.Excluded,
		Rejected: v.Rejected,
		Issues:   v.Issues,
	}, nil
}

func encodeUser(u *domain.UserRef) ([]byte, error) {
	if u == nil {
		return nil, nil
	}
	return json.Marshal(u)
}

func decodeUser(raw []byte) (*domain.UserRef, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var u domain.UserRef
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// decodeData keeps numbers as json.Number so tonnages keep their precision.
func decodeData(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := unmarshalNumbers(raw, &data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return data, nil
}

func unmarshalNumbers(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// parseNumerics parses numeric columns selected as text into dst.
func parseNumerics(dst []*decimal.Decimal, src ...string) error {
	for i, raw := range src {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("parse numeric %q: %w", raw, err)
		}
		*dst[i] = d
	}
	return nil
}
