package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a balance transaction.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// EntityType identifies what a transaction was derived from.
type EntityType string

const (
	EntityTypeWasteRecordReceived EntityType = "waste_record:received"
	EntityTypeWasteRecordSentOn   EntityType = "waste_record:sent_on"
	EntityTypeWasteRecordExported EntityType = "waste_record:exported"
	EntityTypePrnCreated          EntityType = "prn:created"
	EntityTypePrnIssued           EntityType = "prn:issued"
	EntityTypePrnCancelled        EntityType = "prn:cancelled"
)

// IsNote reports whether the entity is a note lifecycle entity.
func (t EntityType) IsNote() bool {
	return strings.HasPrefix(string(t), "prn:")
}

// EntityTypeForRecord maps a waste record type to its ledger entity type.
func EntityTypeForRecord(rt RecordType) (EntityType, bool) {
	switch rt {
	case RecordTypeReceived:
		return EntityTypeWasteRecordReceived, true
	case RecordTypeSentOn:
		return EntityTypeWasteRecordSentOn, true
	case RecordTypeExported:
		return EntityTypeWasteRecordExported, true
	default:
		return "", false
	}
}

// TransactionEntity links a transaction to the row or note it came from.
type TransactionEntity struct {
	ID                 string
	Type               EntityType
	CurrentVersionID   string
	PreviousVersionIDs []string
}

// LineageKey groups every transaction that belongs to the same source.
// Note entities share one lineage per note regardless of lifecycle step.
func (e TransactionEntity) LineageKey() string {
	if e.Type.IsNote() {
		return "prn/" + e.ID
	}

	return string(e.Type) + "/" + e.ID
}

// Transaction is an immutable entry in a balance's history.
type Transaction struct {
	ID                     string
	Type                   TransactionType
	Amount                 decimal.Decimal
	OpeningAmount          decimal.Decimal
	ClosingAmount          decimal.Decimal
	OpeningAvailableAmount decimal.Decimal
	ClosingAvailableAmount decimal.Decimal
	CreatedAt              time.Time
	CreatedBy              UserRef
	Entities               []TransactionEntity
}

// Entity returns the primary entity of the transaction.
func (t Transaction) Entity() (TransactionEntity, bool) {
	if len(t.Entities) == 0 {
		return TransactionEntity{}, false
	}

	return t.Entities[0], true
}

// Clone returns a deep copy.
func (t Transaction) Clone() Transaction {
	out := t
	if t.Entities != nil {
		out.Entities = make([]TransactionEntity, len(t.Entities))
		for i, e := range t.Entities {
			e.PreviousVersionIDs = cloneStrings(e.PreviousVersionIDs)
			out.Entities[i] = e
		}
	}

	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}

	out := make([]string, len(in))
	copy(out, in)

	return out
}
