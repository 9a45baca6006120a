package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconcileRow is one row state entering reconciliation.
type ReconcileRow struct {
	Record  *WasteRecord
	Outcome RowOutcome
}

// ReconcileParams carries the context shared by every row of a batch.
type ReconcileParams struct {
	Accreditation *Accreditation
	CreatedBy     UserRef
	CreatedAt     time.Time
	NewID         func() string
}

// Reconcile diffs each row's included amount against what the balance
// already reflects for its lineage and appends corrective transactions.
// Rows are processed in order; rows whose record type has no ledger
// entity are skipped. The returned slice holds only the new transactions.
func (b *Balance) Reconcile(rows []ReconcileRow, p ReconcileParams) []Transaction {
	var out []Transaction

	for _, row := range rows {
		entityType, ok := EntityTypeForRecord(row.Record.Type)
		if !ok {
			continue
		}

		entity := TransactionEntity{
			ID:                 row.Record.RowID,
			Type:               entityType,
			CurrentVersionID:   row.Record.CurrentVersionID(),
			PreviousVersionIDs: row.Record.PreviousVersionIDs(),
		}

		included := IncludedAmount(row.Record, p.Accreditation, row.Outcome)
		delta := included.Sub(b.Credited(entity))
		if delta.IsZero() {
			continue
		}

		posting := Posting{
			ID:        p.NewID(),
			Entity:    entity,
			CreatedBy: p.CreatedBy,
			CreatedAt: p.CreatedAt,
		}

		if delta.IsPositive() {
			out = append(out, b.Credit(posting, delta))
		} else {
			out = append(out, b.Debit(posting, delta.Abs()))
		}
	}

	return out
}

// SumAmounts returns the signed net of a set of transactions.
func SumAmounts(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == TransactionTypeCredit {
			total = total.Add(tx.Amount)
		} else {
			total = total.Sub(tx.Amount)
		}
	}
	return total
}
