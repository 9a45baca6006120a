package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/infrastructure/metrics"
)

// NoteUseCase drives the recycling note lifecycle. Ledger effects are
// applied before the status write; a failed status write after a
// reservation is compensated by releasing the tonnage again.
type NoteUseCase struct {
	noteRepo          NoteRepository
	accreditationRepo AccreditationRepository
	ledger            BalanceLedger
	idGen             IDGenerator
	metrics           *metrics.Metrics
	logger            zerolog.Logger
	now               func() time.Time
	randomDigits      func() int
}

func NewNoteUseCase(
	noteRepo NoteRepository,
	accreditationRepo AccreditationRepository,
	ledger BalanceLedger,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *NoteUseCase {
	return &NoteUseCase{
		noteRepo:          noteRepo,
		accreditationRepo: accreditationRepo,
		ledger:            ledger,
		idGen:             idGen,
		metrics:           metrics,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
		randomDigits:      func() int { return rand.IntN(100000) },
	}
}

// CreateNoteInput represents input for creating a draft note.
type CreateNoteInput struct {
	OrganisationID  string
	AccreditationID string
	Tonnage         decimal.Decimal
	Notes           string
}

// CreateNote creates a note in draft status. Drafts have no ledger effect.
func (uc *NoteUseCase) CreateNote(ctx context.Context, input CreateNoteInput) (*domain.Note, error) {
	now := uc.now()
	user := domain.ActingUser(ctx)

	note := &domain.Note{
		ID:              uc.idGen.Generate(),
		OrganisationID:  input.OrganisationID,
		AccreditationID: input.AccreditationID,
		Tonnage:         input.Tonnage,
		Notes:           input.Notes,
		Status:          domain.NoteStatusDraft,
		History:         []domain.StatusChange{{Status: domain.NoteStatusDraft, At: now, By: user}},
		CreatedAt:       now,
		CreatedBy:       user,
		UpdatedAt:       now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	accreditation, err := uc.accreditationRepo.FindByID(ctx, input.OrganisationID, input.AccreditationID)
	if err != nil {
		return nil, err
	}
	note.IsExport = accreditation.IsExporter()

	if err := uc.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.NotesCreated.Inc()
	}

	return note, nil
}

// GetNote retrieves a note by ID.
func (uc *NoteUseCase) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	if id == "" {
		return nil, domain.ErrInvalidNoteID
	}
	return uc.noteRepo.GetByID(ctx, id)
}

// ListNotesByAccreditationInput represents input for listing notes.
type ListNotesByAccreditationInput struct {
	AccreditationID string
	Limit           int
	Offset          int
}

// ListNotesByAccreditation lists the notes raised against an accreditation.
func (uc *NoteUseCase) ListNotesByAccreditation(ctx context.Context, input ListNotesByAccreditationInput) ([]*domain.Note, error) {
	if input.AccreditationID == "" {
		return nil, domain.ErrInvalidAccreditationID
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	return uc.noteRepo.ListByAccreditation(ctx, input.AccreditationID, limit, offset)
}

// TransitionInput represents a status change request.
type TransitionInput struct {
	NoteID          string
	OrganisationID  string
	AccreditationID string
	To              domain.NoteStatus
	Actor           domain.ActorRole
}

// TransitionStatus moves a note to a new status, applying the balance
// effect of the transition first.
func (uc *NoteUseCase) TransitionStatus(ctx context.Context, input TransitionInput) (*domain.Note, error) {
	note, err := uc.GetNote(ctx, input.NoteID)
	if err != nil {
		return nil, err
	}

	if (input.OrganisationID != "" && note.OrganisationID != input.OrganisationID) ||
		(input.AccreditationID != "" && note.AccreditationID != input.AccreditationID) {
		return nil, domain.ErrNoteNotFound
	}

	from := note.Status
	transition, err := domain.LookupTransition(from, input.To, input.Actor)
	if err != nil {
		uc.observeTransition(input.To, err)
		return nil, err
	}

	user := domain.ActingUser(ctx)
	ledgerInput := NoteLedgerInput{
		AccreditationID: note.AccreditationID,
		OrganisationID:  note.OrganisationID,
		NoteID:          note.ID,
		Tonnage:         note.Tonnage,
		User:            user,
	}

	if err := uc.applyLedgerEffect(ctx, transition.Effect, ledgerInput); err != nil {
		uc.observeTransition(input.To, err)
		return nil, err
	}

	note.SetStatus(input.To, user, uc.now())

	if transition.Effect == domain.LedgerEffectConsume {
		err = uc.issue(ctx, note, from)
	} else {
		err = uc.noteRepo.UpdateStatus(ctx, note, from)
	}

	if err != nil {
		uc.compensate(ctx, transition, ledgerInput, err)
		uc.observeTransition(input.To, err)
		return nil, err
	}

	uc.observeTransition(input.To, nil)
	uc.logger.Info().
		Str("note_id", note.ID).
		Str("from", string(from)).
		Str("to", string(input.To)).
		Str("actor", string(input.Actor)).
		Msg("note status changed")

	return note, nil
}

func (uc *NoteUseCase) applyLedgerEffect(ctx context.Context, effect domain.LedgerEffect, in NoteLedgerInput) error {
	switch effect {
	case domain.LedgerEffectReserve:
		if err := uc.checkBalance(ctx, in, domain.EntityTypePrnCreated); err != nil {
			return err
		}
		return uc.ledger.DeductAvailableBalanceForPrnCreation(ctx, in)
	case domain.LedgerEffectConsume:
		if err := uc.checkBalance(ctx, in, domain.EntityTypePrnIssued); err != nil {
			return err
		}
		return uc.ledger.DeductTotalBalanceForPrnIssue(ctx, in)
	case domain.LedgerEffectRelease:
		return uc.ledger.CreditAvailableBalanceForPrnCancellation(ctx, in)
	default:
		return nil
	}
}

// checkBalance fails fast when the balance is missing or short. A step the
// ledger already recorded for this note passes, so an interrupted
// transition can be retried. The ledger repeats the sufficiency check
// under its own concurrency control.
func (uc *NoteUseCase) checkBalance(ctx context.Context, in NoteLedgerInput, step domain.EntityType) error {
	insufficient := domain.ErrInsufficientAvailableBalance
	if step == domain.EntityTypePrnIssued {
		insufficient = domain.ErrInsufficientTotalBalance
	}

	balance, err := uc.ledger.FindByAccreditationID(ctx, in.AccreditationID)
	if errors.Is(err, domain.ErrBalanceNotFound) {
		return insufficient
	}
	if err != nil {
		return err
	}

	if balance.AlreadyApplied(domain.TransactionEntity{ID: in.NoteID, Type: step}) {
		return nil
	}

	have := balance.AvailableAmount
	if step == domain.EntityTypePrnIssued {
		have = balance.Amount
	}

	if have.LessThan(in.Tonnage) {
		return insufficient
	}

	return nil
}

// issue writes the awaiting-acceptance status together with a new note
// number, trying suffixed numbers when the base number is taken.
func (uc *NoteUseCase) issue(ctx context.Context, note *domain.Note, from domain.NoteStatus) error {
	accreditation, err := uc.accreditationRepo.FindByID(ctx, note.OrganisationID, note.AccreditationID)
	if err != nil {
		return err
	}

	year := uc.now().Year()
	if !accreditation.ValidFrom.IsZero() {
		year = accreditation.ValidFrom.Year()
	}

	base, err := domain.FormatPrnNumber(accreditation.Regulator, note.IsExport, year, uc.randomDigits())
	if err != nil {
		return err
	}

	candidates := append([]string{base}, prefixed(base, domain.PrnCollisionSuffixes)...)
	for _, number := range candidates {
		note.PrnNumber = number

		err = uc.noteRepo.UpdateStatus(ctx, note, from)
		if !errors.Is(err, domain.ErrPrnNumberTaken) {
			return err
		}
	}

	note.PrnNumber = ""
	return err
}

func prefixed(base string, suffixes []string) []string {
	out := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		out = append(out, base+s)
	}
	return out
}

func (uc *NoteUseCase) compensate(ctx context.Context, transition domain.Transition, in NoteLedgerInput, cause error) {
	if transition.Effect == domain.LedgerEffectNone {
		return
	}

	// A concurrent request may have completed the same transition; its
	// ledger step is the one that stands.
	if current, err := uc.noteRepo.GetByID(ctx, in.NoteID); err == nil && current.Status == transition.To {
		return
	}

	log := uc.logger.With().
		Str("note_id", in.NoteID).
		Str("accreditation_id", in.AccreditationID).
		Str("effect", transition.Effect.String()).
		Logger()

	switch transition.Effect {
	case domain.LedgerEffectReserve:
		err := uc.ledger.CreditAvailableBalanceForPrnCancellation(ctx, in)
		if err == nil {
			log.Warn().Err(cause).Msg("note status write failed, reservation released")
			return
		}
		log.Error().Err(err).AnErr("cause", cause).Msg("failed to release reservation after note status write failure")
	default:
		log.Error().Err(cause).Msg("note status write failed after ledger mutation")
	}

	if uc.metrics != nil {
		uc.metrics.NoteCompensationFailures.Inc()
	}
}

func (uc *NoteUseCase) observeTransition(to domain.NoteStatus, err error) {
	if uc.metrics == nil {
		return
	}

	result := "success"
	if err != nil {
		result = domain.KindOf(err)
	}
	uc.metrics.NoteTransitions.WithLabelValues(string(to), result).Inc()
}
