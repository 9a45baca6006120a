package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/adapter/repository/memory"
	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/usecase"
)

// conflictRetrier re-runs an operation while it reports a version conflict.
type conflictRetrier struct {
	maxAttempts int
	attempts    atomic.Int64
}

func (r *conflictRetrier) Retry(ctx context.Context, op func() error) error {
	var err error
	for i := 0; i < r.maxAttempts; i++ {
		r.attempts.Add(1)
		if err = op(); !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

type sequenceIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *sequenceIDs) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}

func testAccreditation() domain.Accreditation {
	return domain.Accreditation{
		ID:             "acc-1",
		OrganisationID: "org-1",
		RegistrationID: "reg-1",
		Regulator:      domain.RegulatorEA,
		ProcessingType: domain.ProcessingTypeReprocessor,
		ValidFrom:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:        time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func receivedData(tonnage any, prnIssued string) map[string]any {
	return map[string]any{
		domain.FieldProcessingType:            domain.RowProcessingTypeReprocessorInput,
		domain.FieldDateReceivedForReprocess:  "2025-03-01",
		domain.FieldTonnageReceivedForRecycle: tonnage,
		domain.FieldPrnIssued:                 prnIssued,
	}
}

func receivedRecord(rowID string, tonnage any, prnIssued string, sourceIDs ...string) *domain.WasteRecord {
	data := receivedData(tonnage, prnIssued)
	r := &domain.WasteRecord{
		OrganisationID: "org-1",
		RegistrationID: "reg-1",
		Type:           domain.RecordTypeReceived,
		RowID:          rowID,
		Data:           data,
	}
	for _, s := range sourceIDs {
		r.Versions = append(r.Versions, domain.RecordVersion{SourceID: s, Status: domain.VersionStatusCreated, Data: data})
	}
	return r
}

type ledgerFixture struct {
	balances       *memory.BalanceRepository
	accreditations *memory.AccreditationRepository
	retrier        *conflictRetrier
	ledger         *usecase.WasteBalanceUseCase
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		balances:       memory.NewBalanceRepository(),
		accreditations: memory.NewAccreditationRepository(testAccreditation()),
		retrier:        &conflictRetrier{maxAttempts: 1000},
	}
	f.ledger = usecase.NewWasteBalanceUseCase(
		f.balances,
		f.accreditations,
		domain.TableClassifier{},
		f.retrier,
		&sequenceIDs{prefix: "tx"},
		nil,
		zerolog.Nop(),
	)
	return f
}

// seed credits the balance of acc-1 with tonnage from one received row.
func (f *ledgerFixture) seed(ctx context.Context, rowID string, tonnage float64) error {
	return f.ledger.UpdateWasteBalanceTransactions(ctx, []*domain.WasteRecord{receivedRecord(rowID, tonnage, "No", "seed-"+rowID)}, "acc-1")
}

func noteInput(noteID string, tonnage int64) usecase.NoteLedgerInput {
	return usecase.NoteLedgerInput{
		AccreditationID: "acc-1",
		OrganisationID:  "org-1",
		NoteID:          noteID,
		Tonnage:         decimal.NewFromInt(tonnage),
		User:            domain.UserRef{ID: "user-1"},
	}
}

