package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a posted, append-only journal record. Once created,
// nothing may change except the ReversedBy back-link, and no line may be
// removed. Correction happens exclusively through a reversal entry.
type LedgerEntry struct {
	ID          string
	EntryDate   time.Time
	Description string
	Entity      string
	// CandidateID links the source candidate entry; empty for reversal
	// entries, which originate in the journal itself.
	CandidateID  string
	PostedAt     time.Time
	PostedBy     string
	ReversalOfID *string
	ReversedByID *string
	Lines        []LedgerLine
}

// LedgerLine is one side of a posted journal entry.
type LedgerLine struct {
	ID          string
	EntryID     string
	LineNum     int
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Entity      string
	Memo        string
}

// TotalDebit sums the debit side of all lines.
func (e *LedgerEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}

	return total
}

// TotalCredit sums the credit side of all lines.
func (e *LedgerEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}

	return total
}

// IsReversed reports whether a reversal entry already points back here.
func (e *LedgerEntry) IsReversed() bool {
	return e.ReversedByID != nil
}

// IsReversal reports whether this entry corrects another one.
func (e *LedgerEntry) IsReversal() bool {
	return e.ReversalOfID != nil
}

// ReversalLines returns the entry's lines with debit and credit swapped,
// ready for the counter-entry.
func (e *LedgerEntry) ReversalLines() []LedgerLine {
	lines := make([]LedgerLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = LedgerLine{
			LineNum:     l.LineNum,
			AccountCode: l.AccountCode,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Entity:      l.Entity,
			Memo:        l.Memo,
		}
	}

	return lines
}

// ReversalDescription builds the description of a reversal entry.
func ReversalDescription(reason, original string) string {
	return "REVERSAL: " + reason + " (of " + original + ")"
}
