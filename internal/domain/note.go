package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoteStatus is a step in the recycling note lifecycle.
type NoteStatus string

const (
	NoteStatusDraft                 NoteStatus = "draft"
	NoteStatusAwaitingAuthorisation NoteStatus = "awaiting_authorisation"
	NoteStatusAwaitingAcceptance    NoteStatus = "awaiting_acceptance"
	NoteStatusAccepted              NoteStatus = "accepted"
	NoteStatusAwaitingCancellation  NoteStatus = "awaiting_cancellation"
	NoteStatusCancelled             NoteStatus = "cancelled"
	NoteStatusDeleted               NoteStatus = "deleted"
	NoteStatusDiscarded             NoteStatus = "discarded"
)

var noteStatuses = map[NoteStatus]bool{
	NoteStatusDraft:                 true,
	NoteStatusAwaitingAuthorisation: true,
	NoteStatusAwaitingAcceptance:    true,
	NoteStatusAccepted:              true,
	NoteStatusAwaitingCancellation:  true,
	NoteStatusCancelled:             true,
	NoteStatusDeleted:               true,
	NoteStatusDiscarded:             true,
}

// IsValid checks if the status is known.
func (s NoteStatus) IsValid() bool {
	return noteStatuses[s]
}

// LedgerEffect is the balance primitive a transition drives.
type LedgerEffect int

const (
	LedgerEffectNone LedgerEffect = iota
	// LedgerEffectReserve removes tonnage from the available amount.
	LedgerEffectReserve
	// LedgerEffectConsume removes tonnage from the total amount.
	LedgerEffectConsume
	// LedgerEffectRelease returns reserved tonnage to the available amount.
	LedgerEffectRelease
)

func (e LedgerEffect) String() string {
	switch e {
	case LedgerEffectReserve:
		return "reserve"
	case LedgerEffectConsume:
		return "consume"
	case LedgerEffectRelease:
		return "release"
	default:
		return "none"
	}
}

// Transition is one legal edge of the note state machine.
type Transition struct {
	From   []NoteStatus
	To     NoteStatus
	Actor  ActorRole
	Effect LedgerEffect
}

var transitions = []Transition{
	{
		From:   []NoteStatus{NoteStatusDraft},
		To:     NoteStatusAwaitingAuthorisation,
		Actor:  ActorRoleOperator,
		Effect: LedgerEffectReserve,
	},
	{
		From:  []NoteStatus{NoteStatusDraft},
		To:    NoteStatusDiscarded,
		Actor: ActorRoleOperator,
	},
	{
		From:   []NoteStatus{NoteStatusAwaitingAuthorisation},
		To:     NoteStatusAwaitingAcceptance,
		Actor:  ActorRoleSignatory,
		Effect: LedgerEffectConsume,
	},
	{
		From:   []NoteStatus{NoteStatusAwaitingAuthorisation},
		To:     NoteStatusDeleted,
		Actor:  ActorRoleSignatory,
		Effect: LedgerEffectRelease,
	},
	{
		From:  []NoteStatus{NoteStatusAwaitingAcceptance},
		To:    NoteStatusAccepted,
		Actor: ActorRoleProducer,
	},
	{
		From:  []NoteStatus{NoteStatusAwaitingAcceptance, NoteStatusAccepted},
		To:    NoteStatusAwaitingCancellation,
		Actor: ActorRoleProducer,
	},
	{
		From:  []NoteStatus{NoteStatusAwaitingCancellation},
		To:    NoteStatusCancelled,
		Actor: ActorRoleSignatory,
	},
}

// LookupTransition returns the transition from one status to another for
// an actor. An unknown edge is a status conflict; a known edge invoked by
// the wrong actor is an unauthorised transition.
func LookupTransition(from, to NoteStatus, actor ActorRole) (Transition, error) {
	if !to.IsValid() {
		return Transition{}, ErrUnknownStatus
	}

	for _, t := range transitions {
		if t.To != to || !t.allows(from) {
			continue
		}
		if t.Actor != actor {
			return Transition{}, ErrUnauthorisedTransition
		}
		return t, nil
	}

	return Transition{}, ErrStatusConflict
}

func (t Transition) allows(from NoteStatus) bool {
	for _, s := range t.From {
		if s == from {
			return true
		}
	}
	return false
}

// LedgerEntityType is the ledger entity type a transition records.
func (t Transition) LedgerEntityType() EntityType {
	switch t.Effect {
	case LedgerEffectReserve:
		return EntityTypePrnCreated
	case LedgerEffectConsume:
		return EntityTypePrnIssued
	case LedgerEffectRelease:
		return EntityTypePrnCancelled
	default:
		return ""
	}
}

// StatusChange is one entry of a note's status history.
type StatusChange struct {
	Status NoteStatus
	At     time.Time
	By     UserRef
}

// Note is a packaging recycling note (PRN, or PERN when exported).
type Note struct {
	ID              string
	PrnNumber       string
	OrganisationID  string
	AccreditationID string
	Tonnage         decimal.Decimal
	IsExport        bool
	Notes           string
	Status          NoteStatus
	History         []StatusChange
	CreatedAt       time.Time
	CreatedBy       UserRef
	UpdatedAt       time.Time
	IssuedAt        *time.Time
	IssuedBy        *UserRef
}

// Validate checks a new note.
func (n *Note) Validate() error {
	if n.OrganisationID == "" {
		return ErrInvalidOrganisationID
	}
	if n.AccreditationID == "" {
		return ErrInvalidAccreditationID
	}
	if !n.Tonnage.IsPositive() {
		return ErrInvalidTonnage
	}
	return nil
}

// SetStatus moves the note to status and appends a history entry.
func (n *Note) SetStatus(status NoteStatus, by UserRef, at time.Time) {
	n.Status = status
	n.UpdatedAt = at
	n.History = append(n.History, StatusChange{Status: status, At: at, By: by})

	if status == NoteStatusAwaitingAcceptance {
		issuedAt := at
		issuer := by
		n.IssuedAt = &issuedAt
		n.IssuedBy = &issuer
	}
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}

	out := *n
	out.History = make([]StatusChange, len(n.History))
	copy(out.History, n.History)

	if n.IssuedAt != nil {
		t := *n.IssuedAt
		out.IssuedAt = &t
	}
	if n.IssuedBy != nil {
		u := *n.IssuedBy
		out.IssuedBy = &u
	}

	return &out
}
