package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnassignedCode is the sentinel account code carried by staged
// transactions that have not been categorized yet.
const UnassignedCode = "TODO"

// AssignMethod records how a staged transaction got its account code.
type AssignMethod string

const (
	AssignMethodNone    AssignMethod = "none"
	AssignMethodPattern AssignMethod = "pattern"
	AssignMethodManual  AssignMethod = "manual"
)

// StagedTransaction is one imported bank-statement line. It is single-sided:
// the signed amount is relative to the source bank account, and the assigned
// account code names the other leg once categorized.
type StagedTransaction struct {
	ID                string
	SourceAccountCode string
	TransactionDate   time.Time
	Description       string
	Amount            decimal.Decimal
	Entity            string
	AccountCode       string
	AssignMethod      AssignMethod
	MatchConfidence   decimal.Decimal
	Reconciled        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsAssigned reports whether the row has a real account code.
func (s *StagedTransaction) IsAssigned() bool {
	return s.AccountCode != "" && s.AccountCode != UnassignedCode
}

// IsOutflow reports whether the amount leaves the source bank account.
func (s *StagedTransaction) IsOutflow() bool {
	return s.Amount.IsNegative()
}

// StagingSummary counts staged rows by categorization outcome within one
// entity, or across all entities when none is given.
type StagingSummary struct {
	Total           int
	Unassigned      int
	PatternAssigned int
	ManualAssigned  int
	Reconciled      int
}
