package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/infrastructure/metrics"
)

// Ledger operation names used in logs and metrics.
const (
	OperationReconcile = "reconcile"
	OperationRaise     = "prn_creation"
	OperationIssue     = "prn_issue"
	OperationRelease   = "prn_cancellation"
)

// NoteLedgerInput identifies the note tonnage a ledger primitive moves.
type NoteLedgerInput struct {
	AccreditationID string
	OrganisationID  string
	NoteID          string
	Tonnage         decimal.Decimal
	User            domain.UserRef
}

func (in NoteLedgerInput) validate() error {
	if in.AccreditationID == "" {
		return domain.ErrInvalidAccreditationID
	}
	if in.NoteID == "" {
		return domain.ErrInvalidNoteID
	}
	if !in.Tonnage.IsPositive() {
		return domain.ErrInvalidTonnage
	}
	return nil
}

// WasteBalanceUseCase owns every mutation of a waste balance. Writes are
// optimistic: each attempt reads the balance, applies the change in memory
// and saves it against the version it read, retrying on conflict.
type WasteBalanceUseCase struct {
	balanceRepo       BalanceRepository
	accreditationRepo AccreditationRepository
	classifier        domain.Classifier
	retrier           Retrier
	idGen             IDGenerator
	metrics           *metrics.Metrics
	logger            zerolog.Logger
	now               func() time.Time
}

func NewWasteBalanceUseCase(
	balanceRepo BalanceRepository,
	accreditationRepo AccreditationRepository,
	classifier domain.Classifier,
	retrier Retrier,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *WasteBalanceUseCase {
	return &WasteBalanceUseCase{
		balanceRepo:       balanceRepo,
		accreditationRepo: accreditationRepo,
		classifier:        classifier,
		retrier:           retrier,
		idGen:             idGen,
		metrics:           metrics,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// FindByAccreditationID returns the balance of an accreditation.
func (uc *WasteBalanceUseCase) FindByAccreditationID(ctx context.Context, accreditationID string) (*domain.Balance, error) {
	if accreditationID == "" {
		return nil, domain.ErrInvalidAccreditationID
	}

	return uc.balanceRepo.FindByAccreditationID(ctx, accreditationID)
}

// FindByAccreditationIDs returns the balances that exist for the given ids.
func (uc *WasteBalanceUseCase) FindByAccreditationIDs(ctx context.Context, accreditationIDs []string) ([]*domain.Balance, error) {
	ids := make([]string, 0, len(accreditationIDs))
	for _, id := range accreditationIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return []*domain.Balance{}, nil
	}

	return uc.balanceRepo.FindByAccreditationIDs(ctx, ids)
}

// UpdateWasteBalanceTransactions reconciles the current state of records
// against the accreditation's balance. All resulting transactions are saved
// in a single write. When nothing changes no write happens and no balance
// is created.
func (uc *WasteBalanceUseCase) UpdateWasteBalanceTransactions(ctx context.Context, records []*domain.WasteRecord, accreditationID string) error {
	if accreditationID == "" {
		return domain.ErrInvalidAccreditationID
	}

	if len(records) == 0 {
		return nil
	}

	start := time.Now()
	defer uc.observeDuration(OperationReconcile, start)

	opCtx, cancel := context.WithTimeout(ctx, DefaultOperationTimeout)
	defer cancel()

	organisationID := records[0].OrganisationID

	accreditation, err := uc.accreditationRepo.FindByID(opCtx, organisationID, accreditationID)
	if err != nil {
		uc.observeFailure(OperationReconcile, err)
		if uc.metrics != nil {
			uc.metrics.ReconciliationRuns.WithLabelValues("error").Inc()
		}
		return err
	}

	rows := make([]domain.ReconcileRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, domain.ReconcileRow{
			Record:  r,
			Outcome: uc.classifier.Classify(r).Outcome,
		})
	}

	user := domain.ActingUser(ctx)

	var appended []domain.Transaction
	err = uc.retrier.Retry(opCtx, func() error {
		balance, err := uc.loadOrCreate(opCtx, accreditationID, organisationID)
		if err != nil {
			return err
		}

		expected := balance.Version
		appended = balance.Reconcile(rows, domain.ReconcileParams{
			Accreditation: accreditation,
			CreatedBy:     user,
			CreatedAt:     uc.now(),
			NewID:         uc.idGen.Generate,
		})

		if len(appended) == 0 {
			return nil
		}

		balance.Version = expected + 1
		return uc.save(opCtx, OperationReconcile, balance, expected, appended)
	})

	if err != nil {
		uc.observeFailure(OperationReconcile, err)
		if uc.metrics != nil {
			uc.metrics.ReconciliationRuns.WithLabelValues("error").Inc()
		}
		return err
	}

	result := "noop"
	if len(appended) > 0 {
		result = "applied"
		uc.observeApplied(OperationReconcile, appended)
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.WithLabelValues(result).Inc()
		uc.metrics.ReconciliationDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Debug().
		Str("accreditation_id", accreditationID).
		Int("records", len(records)).
		Int("transactions", len(appended)).
		Str("net", domain.SumAmounts(appended).String()).
		Msg("waste balance reconciled")

	return nil
}

// DeductAvailableBalanceForPrnCreation reserves note tonnage. A missing
// balance is a no-op.
func (uc *WasteBalanceUseCase) DeductAvailableBalanceForPrnCreation(ctx context.Context, in NoteLedgerInput) error {
	return uc.applyNotePrimitive(ctx, OperationRaise, in, domain.EntityTypePrnCreated, false,
		func(b *domain.Balance, p domain.Posting) (domain.Transaction, error) {
			return b.Reserve(p, in.Tonnage)
		})
}

// DeductTotalBalanceForPrnIssue consumes note tonnage from the total. A
// missing balance is a no-op.
func (uc *WasteBalanceUseCase) DeductTotalBalanceForPrnIssue(ctx context.Context, in NoteLedgerInput) error {
	return uc.applyNotePrimitive(ctx, OperationIssue, in, domain.EntityTypePrnIssued, false,
		func(b *domain.Balance, p domain.Posting) (domain.Transaction, error) {
			return b.Consume(p, in.Tonnage)
		})
}

// CreditAvailableBalanceForPrnCancellation returns reserved note tonnage.
// A missing balance means an earlier reservation was lost and is an error.
func (uc *WasteBalanceUseCase) CreditAvailableBalanceForPrnCancellation(ctx context.Context, in NoteLedgerInput) error {
	return uc.applyNotePrimitive(ctx, OperationRelease, in, domain.EntityTypePrnCancelled, true,
		func(b *domain.Balance, p domain.Posting) (domain.Transaction, error) {
			return b.Release(p, in.Tonnage), nil
		})
}

func (uc *WasteBalanceUseCase) applyNotePrimitive(
	ctx context.Context,
	operation string,
	in NoteLedgerInput,
	entityType domain.EntityType,
	missingIsFatal bool,
	apply func(*domain.Balance, domain.Posting) (domain.Transaction, error),
) error {
	if err := in.validate(); err != nil {
		return err
	}

	defer uc.observeDuration(operation, time.Now())

	opCtx, cancel := context.WithTimeout(ctx, DefaultOperationTimeout)
	defer cancel()

	entity := domain.TransactionEntity{ID: in.NoteID, Type: entityType}

	var applied *domain.Transaction
	err := uc.retrier.Retry(opCtx, func() error {
		applied = nil

		balance, err := uc.balanceRepo.FindByAccreditationID(opCtx, in.AccreditationID)
		if errors.Is(err, domain.ErrBalanceNotFound) {
			if missingIsFatal {
				return err
			}
			uc.logger.Debug().
				Str("operation", operation).
				Str("accreditation_id", in.AccreditationID).
				Str("note_id", in.NoteID).
				Msg("no waste balance, skipping")
			return nil
		}
		if err != nil {
			return err
		}

		if balance.AlreadyApplied(entity) {
			uc.logger.Debug().
				Str("operation", operation).
				Str("note_id", in.NoteID).
				Msg("note ledger step already applied")
			return nil
		}

		expected := balance.Version
		tx, err := apply(balance, domain.Posting{
			ID:        uc.idGen.Generate(),
			Entity:    entity,
			CreatedBy: in.User,
			CreatedAt: uc.now(),
		})
		if err != nil {
			return err
		}

		balance.Version = expected + 1
		if err := uc.save(opCtx, operation, balance, expected, []domain.Transaction{tx}); err != nil {
			return err
		}

		applied = &tx
		return nil
	})

	if err != nil {
		uc.observeFailure(operation, err)
		return err
	}

	if applied != nil {
		uc.observeApplied(operation, []domain.Transaction{*applied})
		uc.logger.Debug().
			Str("operation", operation).
			Str("accreditation_id", in.AccreditationID).
			Str("note_id", in.NoteID).
			Str("tonnage", in.Tonnage.String()).
			Msg("note ledger step applied")
	}

	return nil
}

func (uc *WasteBalanceUseCase) loadOrCreate(ctx context.Context, accreditationID, organisationID string) (*domain.Balance, error) {
	balance, err := uc.balanceRepo.FindByAccreditationID(ctx, accreditationID)
	if errors.Is(err, domain.ErrBalanceNotFound) {
		return domain.NewBalance(uc.idGen.Generate(), accreditationID, organisationID, uc.now()), nil
	}
	return balance, err
}

func (uc *WasteBalanceUseCase) save(ctx context.Context, operation string, balance *domain.Balance, expected int64, appended []domain.Transaction) error {
	err := uc.balanceRepo.Save(ctx, balance, expected, appended)
	if errors.Is(err, domain.ErrVersionConflict) && uc.metrics != nil {
		uc.metrics.LedgerConflicts.WithLabelValues(operation).Inc()
	}
	return err
}

func (uc *WasteBalanceUseCase) observeApplied(operation string, txs []domain.Transaction) {
	if uc.metrics == nil {
		return
	}

	for _, tx := range txs {
		uc.metrics.LedgerTransactions.WithLabelValues(operation, string(tx.Type)).Inc()
		uc.metrics.LedgerTonnage.WithLabelValues(operation).Add(tx.Amount.InexactFloat64())
	}
}

func (uc *WasteBalanceUseCase) observeDuration(operation string, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.LedgerDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func (uc *WasteBalanceUseCase) observeFailure(operation string, err error) {
	if uc.metrics != nil {
		uc.metrics.LedgerErrors.WithLabelValues(operation, domain.KindOf(err)).Inc()
	}

	event := uc.logger.Warn()
	if domain.KindOf(err) == "internal" || domain.KindOf(err) == "transient" {
		event = uc.logger.Error()
	}

	event.Err(err).Str("operation", operation).Msg("waste balance operation failed")
}
