package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/infrastructure/metrics"
)

// SubmissionUseCase processes summary log commands: validation classifies
// the rows, submission turns them into record versions and reconciles the
// waste balance. Both are safe to redeliver.
type SubmissionUseCase struct {
	summaryLogRepo SummaryLogRepository
	recordRepo     WasteRecordRepository
	reconciler     BalanceReconciler
	classifier     domain.Classifier
	idGen          IDGenerator
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	now            func() time.Time
}

func NewSubmissionUseCase(
	summaryLogRepo SummaryLogRepository,
	recordRepo WasteRecordRepository,
	reconciler BalanceReconciler,
	classifier domain.Classifier,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *SubmissionUseCase {
	return &SubmissionUseCase{
		summaryLogRepo: summaryLogRepo,
		recordRepo:     recordRepo,
		reconciler:     reconciler,
		classifier:     classifier,
		idGen:          idGen,
		metrics:        metrics,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// CreateSummaryLogInput represents an uploaded summary log.
type CreateSummaryLogInput struct {
	OrganisationID  string
	RegistrationID  string
	AccreditationID string
	Rows            []domain.SummaryLogRow
}

// CreateSummaryLog stores a new summary log awaiting validation.
func (uc *SubmissionUseCase) CreateSummaryLog(ctx context.Context, input CreateSummaryLogInput) (*domain.SummaryLog, error) {
	if input.OrganisationID == "" {
		return nil, domain.ErrInvalidOrganisationID
	}
	if input.RegistrationID == "" {
		return nil, domain.ErrInvalidRegistrationID
	}
	for _, row := range input.Rows {
		if !row.Type.IsValid() || row.RowID == "" {
			return nil, domain.ErrInvalidRecordKey
		}
	}

	now := uc.now()
	log := &domain.SummaryLog{
		ID:              uc.idGen.Generate(),
		OrganisationID:  input.OrganisationID,
		RegistrationID:  input.RegistrationID,
		AccreditationID: input.AccreditationID,
		Status:          domain.SummaryLogStatusValidating,
		Rows:            input.Rows,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.summaryLogRepo.Create(ctx, log); err != nil {
		return nil, err
	}

	return log, nil
}

// GetSummaryLog retrieves a summary log by ID.
func (uc *SubmissionUseCase) GetSummaryLog(ctx context.Context, id string) (*domain.SummaryLog, error) {
	return uc.summaryLogRepo.GetByID(ctx, id)
}

// Handle dispatches a command. Failures that redelivery cannot fix are
// returned as domain.PermanentError.
func (uc *SubmissionUseCase) Handle(ctx context.Context, cmd domain.Command) error {
	if cmd.User != nil {
		ctx = domain.ContextWithUser(ctx, &domain.User{UserRef: *cmd.User})
	}

	switch cmd.Name {
	case domain.CommandValidate:
		return uc.Validate(ctx, cmd.SummaryLogID)
	case domain.CommandSubmit:
		return uc.Submit(ctx, cmd.SummaryLogID)
	default:
		return domain.Permanent(fmt.Errorf("%w: unknown command %q", domain.ErrValidation, cmd.Name))
	}
}

// Validate classifies every row of a summary log. Any rejected row fails
// the log; otherwise it becomes ready to submit.
func (uc *SubmissionUseCase) Validate(ctx context.Context, summaryLogID string) error {
	log, err := uc.load(ctx, summaryLogID)
	if err != nil {
		return err
	}

	switch log.Status {
	case domain.SummaryLogStatusValidating:
	case domain.SummaryLogStatusValidated, domain.SummaryLogStatusValidationFailed:
		return nil
	default:
		return domain.Permanent(fmt.Errorf("%w: %s", domain.ErrSummaryLogStatus, log.Status))
	}

	summary := &domain.ValidationSummary{Issues: make(map[string][]string)}
	for _, row := range log.Rows {
		c := uc.classifier.Classify(&domain.WasteRecord{Type: row.Type, RowID: row.RowID, Data: row.Data})

		switch c.Outcome {
		case domain.RowOutcomeIncluded:
			summary.Included++
		case domain.RowOutcomeExcluded:
			summary.Excluded++
		case domain.RowOutcomeRejected:
			summary.Rejected++
		}

		if len(c.Issues) > 0 {
			summary.Issues[string(row.Type)+"/"+row.RowID] = c.Issues
		}
	}

	log.Validation = summary
	log.Status = domain.SummaryLogStatusValidated
	if summary.Rejected > 0 {
		log.Status = domain.SummaryLogStatusValidationFailed
		log.FailureReason = fmt.Sprintf("%d rows rejected", summary.Rejected)
	}
	log.UpdatedAt = uc.now()

	if err := uc.summaryLogRepo.Update(ctx, log); err != nil {
		return err
	}

	uc.logger.Info().
		Str("summary_log_id", log.ID).
		Str("status", string(log.Status)).
		Int("included", summary.Included).
		Int("excluded", summary.Excluded).
		Int("rejected", summary.Rejected).
		Msg("summary log validated")

	return nil
}

// Submit appends the rows of a validated summary log as record versions
// keyed by the log id and reconciles the registration's records into the
// accreditation balance. Re-running a submit changes nothing.
func (uc *SubmissionUseCase) Submit(ctx context.Context, summaryLogID string) error {
	log, err := uc.load(ctx, summaryLogID)
	if err != nil {
		return err
	}

	switch log.Status {
	case domain.SummaryLogStatusValidated, domain.SummaryLogStatusSubmitting:
	case domain.SummaryLogStatusSubmitted:
		return nil
	default:
		return domain.Permanent(fmt.Errorf("%w: %s", domain.ErrSummaryLogStatus, log.Status))
	}

	if log.Status != domain.SummaryLogStatusSubmitting {
		log.Status = domain.SummaryLogStatusSubmitting
		log.UpdatedAt = uc.now()
		if err := uc.summaryLogRepo.Update(ctx, log); err != nil {
			return err
		}
	}

	existing, err := uc.recordRepo.FindByRegistration(ctx, log.OrganisationID, log.RegistrationID)
	if err != nil {
		return classify(err)
	}

	known := make(map[domain.RecordKey]bool, len(existing))
	for _, r := range existing {
		known[r.Key()] = true
	}

	now := uc.now()
	appends := make([]domain.VersionAppend, 0, len(log.Rows))
	for _, row := range log.Rows {
		status := domain.VersionStatusCreated
		if known[domain.RecordKey{Type: row.Type, RowID: row.RowID}] {
			status = domain.VersionStatusUpdated
		}

		appends = append(appends, domain.VersionAppend{
			Type:  row.Type,
			RowID: row.RowID,
			Data:  row.Data,
			Version: domain.RecordVersion{
				CreatedAt: now,
				Status:    status,
				SourceID:  log.ID,
				Data:      row.Data,
			},
		})
	}

	if err := uc.recordRepo.AppendVersions(ctx, log.OrganisationID, log.RegistrationID, appends); err != nil {
		return classify(err)
	}
	if uc.metrics != nil {
		uc.metrics.RecordVersionsSubmitted.Add(float64(len(appends)))
	}

	if log.AccreditationID != "" {
		records, err := uc.recordRepo.FindByRegistration(ctx, log.OrganisationID, log.RegistrationID)
		if err != nil {
			return classify(err)
		}

		if err := uc.reconciler.UpdateWasteBalanceTransactions(ctx, records, log.AccreditationID); err != nil {
			return classify(err)
		}
	}

	submittedAt := uc.now()
	user := domain.ActingUser(ctx)
	log.Status = domain.SummaryLogStatusSubmitted
	log.SubmittedAt = &submittedAt
	log.SubmittedBy = &user
	log.UpdatedAt = submittedAt

	if err := uc.summaryLogRepo.Update(ctx, log); err != nil {
		return err
	}

	uc.logger.Info().
		Str("summary_log_id", log.ID).
		Str("registration_id", log.RegistrationID).
		Int("rows", len(log.Rows)).
		Msg("summary log submitted")

	return nil
}

// MarkFailed moves a summary log to the failure status of its phase. A
// submitted log is left as it is.
func (uc *SubmissionUseCase) MarkFailed(ctx context.Context, summaryLogID, reason string) error {
	log, err := uc.summaryLogRepo.GetByID(ctx, summaryLogID)
	if err != nil {
		return err
	}
	if log.Status == domain.SummaryLogStatusSubmitted {
		return nil
	}

	log.Status = log.FailedStatus()
	log.FailureReason = reason
	log.UpdatedAt = uc.now()

	return uc.summaryLogRepo.Update(ctx, log)
}

func (uc *SubmissionUseCase) load(ctx context.Context, id string) (*domain.SummaryLog, error) {
	log, err := uc.summaryLogRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Permanent(err)
	}
	return log, err
}

// classify marks failures that a redelivery cannot fix as permanent.
func classify(err error) error {
	switch domain.KindOf(err) {
	case "validation", "not_found", "unauthorised":
		return domain.Permanent(err)
	default:
		return err
	}
}
