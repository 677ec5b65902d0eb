package domain

import "errors"

var (
	// Registry errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is inactive")
	ErrAccountExists   = errors.New("account code already registered")

	// Staging errors
	ErrStagingNotFound   = errors.New("staged transaction not found")
	ErrStagingReconciled = errors.New("staged transaction already reconciled")

	// Candidate errors
	ErrCandidateNotFound = errors.New("candidate entry not found")
	ErrCandidateExists   = errors.New("candidate entry already exists for staged transaction")
	ErrCandidatePosted   = errors.New("candidate entry already posted")
	ErrTransferLinked    = errors.New("transfer candidate already linked or posted")

	// Journal errors
	ErrEntryNotFound   = errors.New("journal entry not found")
	ErrAlreadyReversed = errors.New("journal entry already reversed")
	ErrImmutableEntry  = errors.New("posted journal entries are immutable")

	// Line errors
	ErrBothSidesSet       = errors.New("line cannot carry both debit and credit")
	ErrNegativeLineAmount = errors.New("line amounts must not be negative")

	// Pattern rule errors
	ErrRuleNotFound = errors.New("pattern rule not found")
)
