package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CandidateStatus is the lifecycle state of a candidate (trial) entry.
type CandidateStatus string

const (
	CandidateStatusPending  CandidateStatus = "pending"
	CandidateStatusBalanced CandidateStatus = "balanced"
	CandidateStatusError    CandidateStatus = "error"
	// CandidateStatusPosted is terminal; no further mutation is permitted.
	CandidateStatusPosted CandidateStatus = "posted"
)

// TrialSummary counts candidate entries per status within one entity, or
// across all entities when none is given.
type TrialSummary struct {
	Pending  int
	Balanced int
	Errored  int
	Posted   int
}

// CandidateEntry is a mutable double-entry record awaiting validation and
// posting. Exactly one exists per categorized staged transaction.
type CandidateEntry struct {
	ID          string
	EntryDate   time.Time
	Description string
	Entity      string
	StagingID   string
	// MatchedEntryID links the counterpart candidate of an internal
	// transfer pair; nil until the transfer matcher pairs them.
	MatchedEntryID *string
	Status         CandidateStatus
	ErrorDetail    string
	Lines          []CandidateLine
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CandidateLine is one side of a candidate entry. Debit and credit are
// mutually exclusive; the other is always zero.
type CandidateLine struct {
	ID          string
	EntryID     string
	LineNum     int
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Entity      string
	Memo        string
}

// Validate rejects lines where both sides are set or either is negative.
func (l *CandidateLine) Validate() error {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return ErrNegativeLineAmount
	}

	if !l.Debit.IsZero() && !l.Credit.IsZero() {
		return ErrBothSidesSet
	}

	return nil
}

// TotalDebit sums the debit side of all lines.
func (e *CandidateEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}

	return total
}

// TotalCredit sums the credit side of all lines.
func (e *CandidateEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}

	return total
}

// IsBalanced reports whether debits equal credits and the sum is positive.
// A zero sum (no lines, or zero-amount lines) is a balance failure, never
// silently accepted.
func (e *CandidateEntry) IsBalanced() bool {
	debit := e.TotalDebit()

	return debit.Equal(e.TotalCredit()) && debit.IsPositive()
}

// Imbalance returns debit minus credit.
func (e *CandidateEntry) Imbalance() decimal.Decimal {
	return e.TotalDebit().Sub(e.TotalCredit())
}

// IsPosted reports whether the entry reached its terminal state.
func (e *CandidateEntry) IsPosted() bool {
	return e.Status == CandidateStatusPosted
}

// IsMatched reports whether the entry already has a transfer counterpart.
func (e *CandidateEntry) IsMatched() bool {
	return e.MatchedEntryID != nil
}
