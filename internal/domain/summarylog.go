package domain

import "time"

// SummaryLogStatus is the processing state of an uploaded summary log.
type SummaryLogStatus string

const (
	SummaryLogStatusValidating       SummaryLogStatus = "validating"
	SummaryLogStatusValidated        SummaryLogStatus = "validated"
	SummaryLogStatusValidationFailed SummaryLogStatus = "validation_failed"
	SummaryLogStatusSubmitting       SummaryLogStatus = "submitting"
	SummaryLogStatusSubmitted        SummaryLogStatus = "submitted"
	SummaryLogStatusSubmissionFailed SummaryLogStatus = "submission_failed"
)

// SummaryLogRow is one extracted spreadsheet row.
type SummaryLogRow struct {
	Type  RecordType
	RowID string
	Data  map[string]any
}

// SummaryLog is an upstream submission of rows for one registration.
// Its id is the source id of every record version it produces.
type SummaryLog struct {
	ID              string
	OrganisationID  string
	RegistrationID  string
	AccreditationID string
	Status          SummaryLogStatus
	Rows            []SummaryLogRow
	Validation      *ValidationSummary
	FailureReason   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	SubmittedAt     *time.Time
	SubmittedBy     *UserRef
}

// ValidationSummary is the result of classifying every row of a log.
type ValidationSummary struct {
	Included int
	Excluded int
	Rejected int
	Issues   map[string][]string
}

// FailedStatus returns the terminal failure status for the phase the
// log is in.
func (l *SummaryLog) FailedStatus() SummaryLogStatus {
	switch l.Status {
	case SummaryLogStatusSubmitting, SummaryLogStatusValidated, SummaryLogStatusSubmissionFailed:
		return SummaryLogStatusSubmissionFailed
	default:
		return SummaryLogStatusValidationFailed
	}
}

// Clone returns a deep copy.
func (l *SummaryLog) Clone() *SummaryLog {
	if l == nil {
		return nil
	}

	out := *l
	out.Rows = make([]SummaryLogRow, len(l.Rows))
	for i, r := range l.Rows {
		r.Data = CloneData(r.Data)
		out.Rows[i] = r
	}

	if l.Validation != nil {
		v := *l.Validation
		v.Issues = make(map[string][]string, len(l.Validation.Issues))
		for k, issues := range l.Validation.Issues {
			v.Issues[k] = cloneStrings(issues)
		}
		out.Validation = &v
	}
	if l.SubmittedAt != nil {
		t := *l.SubmittedAt
		out.SubmittedAt = &t
	}
	if l.SubmittedBy != nil {
		u := *l.SubmittedBy
		out.SubmittedBy = &u
	}

	return &out
}
