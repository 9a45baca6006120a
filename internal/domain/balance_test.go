package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testPosting(id string, entity TransactionEntity) Posting {
	return Posting{
		ID:        id,
		Entity:    entity,
		CreatedBy: UserRef{ID: "user-1"},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func noteEntity(id string, typ EntityType) TransactionEntity {
	return TransactionEntity{ID: id, Type: typ}
}

func TestBalance_LedgerPrimitives(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		available     string
		op            func(b *Balance) error
		wantAmount    string
		wantAvailable string
		wantErr       error
	}{
		{
			name:      "credit adds to both",
			amount:    "100",
			available: "80",
			op: func(b *Balance) error {
				b.Credit(testPosting("t1", TransactionEntity{ID: "r1", Type: EntityTypeWasteRecordReceived}), decimal.NewFromInt(20))
				return nil
			},
			wantAmount:    "120",
			wantAvailable: "100",
		},
		{
			name:      "debit removes from both",
			amount:    "100",
			available: "80",
			op: func(b *Balance) error {
				b.Debit(testPosting("t1", TransactionEntity{ID: "r1", Type: EntityTypeWasteRecordReceived}), decimal.NewFromInt(30))
				return nil
			},
			wantAmount:    "70",
			wantAvailable: "50",
		},
		{
			name:      "reserve removes from available only",
			amount:    "100",
			available: "80",
			op: func(b *Balance) error {
				_, err := b.Reserve(testPosting("t1", noteEntity("n1", EntityTypePrnCreated)), decimal.NewFromInt(80))
				return err
			},
			wantAmount:    "100",
			wantAvailable: "0",
		},
		{
			name:      "reserve beyond available fails",
			amount:    "100",
			available: "80",
			op: func(b *Balance) error {
				_, err := b.Reserve(testPosting("t1", noteEntity("n1", EntityTypePrnCreated)), decimal.RequireFromString("80.001"))
				return err
			},
			wantAmount:    "100",
			wantAvailable: "80",
			wantErr:       ErrInsufficientAvailableBalance,
		},
		{
			name:      "consume removes from total only",
			amount:    "100",
			available: "80",
			op: func(b *Balance) error {
				_, err := b.Consume(testPosting("t1", noteEntity("n1", EntityTypePrnIssued)), decimal.NewFromInt(20))
				return err
			},
			wantAmount:    "80",
			wantAvailable: "80",
		},
		{
			name:      "consume beyond total fails",
			amount:    "10",
			available: "0",
			op: func(b *Balance) error {
				_, err := b.Consume(testPosting("t1", noteEntity("n1", EntityTypePrnIssued)), decimal.NewFromInt(20))
				return err
			},
			wantAmount:    "10",
			wantAvailable: "0",
			wantErr:       ErrInsufficientTotalBalance,
		},
		{
			name:      "release returns to available",
			amount:    "100",
			available: "80",
			op: func(b *Balance) error {
				b.Release(testPosting("t1", noteEntity("n1", EntityTypePrnCancelled)), decimal.NewFromInt(20))
				return nil
			},
			wantAmount:    "100",
			wantAvailable: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBalance("b1", "acc-1", "org-1", time.Now())
			b.Amount = decimal.RequireFromString(tt.amount)
			b.AvailableAmount = decimal.RequireFromString(tt.available)

			err := tt.op(b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}

			if !b.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
				t.Errorf("amount = %s, want %s", b.Amount, tt.wantAmount)
			}
			if !b.AvailableAmount.Equal(decimal.RequireFromString(tt.wantAvailable)) {
				t.Errorf("available = %s, want %s", b.AvailableAmount, tt.wantAvailable)
			}

			if tt.wantErr != nil && len(b.Transactions) != 0 {
				t.Errorf("expected no transaction on failure, got %d", len(b.Transactions))
			}
		})
	}
}

func TestBalance_TransactionSnapshots(t *testing.T) {
	b := NewBalance("b1", "acc-1", "org-1", time.Now())
	entity := TransactionEntity{ID: "r1", Type: EntityTypeWasteRecordReceived}

	b.Credit(testPosting("t1", entity), decimal.NewFromInt(300))
	tx, err := b.Reserve(testPosting("t2", noteEntity("n1", EntityTypePrnCreated)), decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tx.OpeningAmount.Equal(decimal.NewFromInt(300)) || !tx.ClosingAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("unexpected amount snapshots %s -> %s", tx.OpeningAmount, tx.ClosingAmount)
	}
	if !tx.OpeningAvailableAmount.Equal(decimal.NewFromInt(300)) || !tx.ClosingAvailableAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("unexpected available snapshots %s -> %s", tx.OpeningAvailableAmount, tx.ClosingAvailableAmount)
	}
	if tx.Type != TransactionTypeDebit {
		t.Errorf("expected debit, got %s", tx.Type)
	}

	// Every transaction's closing state is the next one's opening state.
	for i := 1; i < len(b.Transactions); i++ {
		prev, cur := b.Transactions[i-1], b.Transactions[i]
		if !prev.ClosingAmount.Equal(cur.OpeningAmount) || !prev.ClosingAvailableAmount.Equal(cur.OpeningAvailableAmount) {
			t.Errorf("transaction %d does not chain from %d", i, i-1)
		}
	}
}

func TestBalance_AlreadyApplied(t *testing.T) {
	b := NewBalance("b1", "acc-1", "org-1", time.Now())
	b.Credit(testPosting("t0", TransactionEntity{ID: "r1", Type: EntityTypeWasteRecordReceived}), decimal.NewFromInt(100))

	created := noteEntity("n1", EntityTypePrnCreated)
	cancelled := noteEntity("n1", EntityTypePrnCancelled)

	if b.AlreadyApplied(created) {
		t.Fatal("nothing applied yet")
	}

	if _, err := b.Reserve(testPosting("t1", created), decimal.NewFromInt(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.AlreadyApplied(created) {
		t.Error("expected created to be applied")
	}

	b.Release(testPosting("t2", cancelled), decimal.NewFromInt(10))
	if b.AlreadyApplied(created) {
		t.Error("created must be applicable again after cancellation")
	}
	if !b.AlreadyApplied(cancelled) {
		t.Error("expected cancelled to be applied")
	}
	if b.AlreadyApplied(noteEntity("n2", EntityTypePrnCancelled)) {
		t.Error("lineage must be per note")
	}
}

func TestBalance_CloneIsolation(t *testing.T) {
	b := NewBalance("b1", "acc-1", "org-1", time.Now())
	b.Credit(testPosting("t1", TransactionEntity{
		ID:                 "r1",
		Type:               EntityTypeWasteRecordReceived,
		CurrentVersionID:   "v2",
		PreviousVersionIDs: []string{"v1"},
	}), decimal.NewFromInt(10))

	c := b.Clone()
	c.Transactions[0].Entities[0].PreviousVersionIDs[0] = "mutated"
	c.Lineage["waste_record:received/r1"] = Lineage{Net: decimal.NewFromInt(999)}
	c.Amount = decimal.Zero

	if b.Transactions[0].Entities[0].PreviousVersionIDs[0] != "v1" {
		t.Error("clone shares entity version ids")
	}
	if !b.Lineage["waste_record:received/r1"].Net.Equal(decimal.NewFromInt(10)) {
		t.Error("clone shares lineage map")
	}
	if !b.Amount.Equal(decimal.NewFromInt(10)) {
		t.Error("clone shares amount")
	}
}

func TestBalance_ConservationUnderInterleaving(t *testing.T) {
	acc := &Accreditation{
		ID:        "acc-1",
		ValidFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	b := NewBalance("b1", acc.ID, "org-1", time.Now())
	seq := 0
	params := ReconcileParams{
		Accreditation: acc,
		NewID: func() string {
			seq++
			return fmt.Sprintf("tx-%d", seq)
		},
	}

	reserved := decimal.Zero
	check := func(step string, wantTotal, wantAvailable int64) {
		t.Helper()
		if !b.Amount.Equal(decimal.NewFromInt(wantTotal)) {
			t.Fatalf("%s: total = %s, want %d", step, b.Amount, wantTotal)
		}
		if !b.AvailableAmount.Equal(decimal.NewFromInt(wantAvailable)) {
			t.Fatalf("%s: available = %s, want %d", step, b.AvailableAmount, wantAvailable)
		}
		if !b.ReservedTonnage().Equal(reserved) {
			t.Fatalf("%s: total - available = %s, reserved = %s", step, b.ReservedTonnage(), reserved)
		}
	}
	raise := func(noteID string, tonnage int64) {
		t.Helper()
		if _, err := b.Reserve(testPosting(noteID, noteEntity(noteID, EntityTypePrnCreated)), decimal.NewFromInt(tonnage)); err != nil {
			t.Fatalf("raise %s: %v", noteID, err)
		}
		reserved = reserved.Add(decimal.NewFromInt(tonnage))
	}

	b.Reconcile([]ReconcileRow{
		{Record: receivedRecord("r1", "2025-03-01", 100, "No", "s1"), Outcome: RowOutcomeIncluded},
		{Record: receivedRecord("r2", "2025-03-02", 200, "No", "s1"), Outcome: RowOutcomeIncluded},
	}, params)
	check("credit 300", 300, 300)

	raise("n1", 50)
	check("raise 50", 300, 250)

	b.Reconcile([]ReconcileRow{
		{Record: receivedRecord("r3", "2025-03-03", 150, "No", "s2"), Outcome: RowOutcomeIncluded},
	}, params)
	check("credit 150", 450, 400)

	raise("n2", 75)
	check("raise 75", 450, 325)

	raise("n3", 100)
	check("raise 100", 450, 225)
}
