package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the waste balance of a single accreditation.
//
// Amount is the total tonnage credited and not yet consumed by issued notes.
// AvailableAmount additionally excludes tonnage reserved by raised notes.
type Balance struct {
	ID              string
	AccreditationID string
	OrganisationID  string
	Amount          decimal.Decimal
	AvailableAmount decimal.Decimal
	Version         int64
	Transactions    []Transaction
	Lineage         map[string]Lineage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Lineage is the running state of one source entity inside a balance.
type Lineage struct {
	EntityID         string
	LastType         EntityType
	Net              decimal.Decimal
	CurrentVersionID string
	VersionIDs       []string
}

// Posting carries the metadata of a transaction about to be appended.
type Posting struct {
	ID        string
	Entity    TransactionEntity
	CreatedBy UserRef
	CreatedAt time.Time
}

// NewBalance returns a zeroed balance.
func NewBalance(id, accreditationID, organisationID string, now time.Time) *Balance {
	return &Balance{
		ID:              id,
		AccreditationID: accreditationID,
		OrganisationID:  organisationID,
		Amount:          decimal.Zero,
		AvailableAmount: decimal.Zero,
		Lineage:         make(map[string]Lineage),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsNew reports whether the balance has never been persisted.
func (b *Balance) IsNew() bool {
	return b.Version == 0
}

// Credit adds amount to both total and available tonnage.
func (b *Balance) Credit(p Posting, amount decimal.Decimal) Transaction {
	return b.apply(p, TransactionTypeCredit, amount, amount, amount)
}

// Debit removes amount from both total and available tonnage.
func (b *Balance) Debit(p Posting, amount decimal.Decimal) Transaction {
	return b.apply(p, TransactionTypeDebit, amount, amount.Neg(), amount.Neg())
}

// Reserve removes tonnage from the available amount only.
func (b *Balance) Reserve(p Posting, tonnage decimal.Decimal) (Transaction, error) {
	if b.AvailableAmount.LessThan(tonnage) {
		return Transaction{}, ErrInsufficientAvailableBalance
	}

	return b.apply(p, TransactionTypeDebit, tonnage, decimal.Zero, tonnage.Neg()), nil
}

// Consume removes tonnage from the total amount only.
func (b *Balance) Consume(p Posting, tonnage decimal.Decimal) (Transaction, error) {
	if b.Amount.LessThan(tonnage) {
		return Transaction{}, ErrInsufficientTotalBalance
	}

	return b.apply(p, TransactionTypeDebit, tonnage, tonnage.Neg(), decimal.Zero), nil
}

// Release returns reserved tonnage to the available amount.
func (b *Balance) Release(p Posting, tonnage decimal.Decimal) Transaction {
	return b.apply(p, TransactionTypeCredit, tonnage, decimal.Zero, tonnage)
}

// AlreadyApplied reports whether the latest transaction of the entity's
// lineage has the same entity type, i.e. the step was applied before.
func (b *Balance) AlreadyApplied(e TransactionEntity) bool {
	l, ok := b.Lineage[e.LineageKey()]
	return ok && l.LastType == e.Type
}

// Credited returns the net tonnage currently reflected for an entity.
func (b *Balance) Credited(e TransactionEntity) decimal.Decimal {
	if l, ok := b.Lineage[e.LineageKey()]; ok {
		return l.Net
	}

	return decimal.Zero
}

func (b *Balance) apply(p Posting, typ TransactionType, amount, totalDelta, availableDelta decimal.Decimal) Transaction {
	tx := Transaction{
		ID:                     p.ID,
		Type:                   typ,
		Amount:                 amount,
		OpeningAmount:          b.Amount,
		ClosingAmount:          b.Amount.Add(totalDelta),
		OpeningAvailableAmount: b.AvailableAmount,
		ClosingAvailableAmount: b.AvailableAmount.Add(availableDelta),
		CreatedAt:              p.CreatedAt,
		CreatedBy:              p.CreatedBy,
		Entities:               []TransactionEntity{p.Entity},
	}

	b.Amount = tx.ClosingAmount
	b.AvailableAmount = tx.ClosingAvailableAmount
	b.Transactions = append(b.Transactions, tx)
	b.UpdatedAt = p.CreatedAt
	b.track(p.Entity, typ, amount)

	return tx
}

func (b *Balance) track(e TransactionEntity, typ TransactionType, amount decimal.Decimal) {
	if b.Lineage == nil {
		b.Lineage = make(map[string]Lineage)
	}

	key := e.LineageKey()
	l := b.Lineage[key]
	l.EntityID = e.ID
	l.LastType = e.Type

	if !e.Type.IsNote() {
		if typ == TransactionTypeCredit {
			l.Net = l.Net.Add(amount)
		} else {
			l.Net = l.Net.Sub(amount)
		}
	}

	if e.CurrentVersionID != "" {
		l.CurrentVersionID = e.CurrentVersionID
		l.VersionIDs = mergeVersionIDs(l.VersionIDs, e.PreviousVersionIDs, e.CurrentVersionID)
	}

	b.Lineage[key] = l
}

func mergeVersionIDs(existing, previous []string, current string) []string {
	seen := make(map[string]struct{}, len(existing)+len(previous)+1)
	out := make([]string, 0, len(existing)+len(previous)+1)

	for _, group := range [][]string{existing, previous, {current}} {
		for _, id := range group {
			if _, ok := seen[id]; ok || id == "" {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	return out
}

// Clone returns a deep copy of the balance.
func (b *Balance) Clone() *Balance {
	if b == nil {
		return nil
	}

	out := *b

	out.Transactions = make([]Transaction, len(b.Transactions))
	for i, tx := range b.Transactions {
		out.Transactions[i] = tx.Clone()
	}

	out.Lineage = make(map[string]Lineage, len(b.Lineage))
	for k, l := range b.Lineage {
		l.VersionIDs = cloneStrings(l.VersionIDs)
		out.Lineage[k] = l
	}

	return &out
}

// ReservedTonnage is the tonnage held by raised but not yet issued notes.
func (b *Balance) ReservedTonnage() decimal.Decimal {
	return b.Amount.Sub(b.AvailableAmount)
}
