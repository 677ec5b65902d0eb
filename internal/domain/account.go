package domain

import (
	"time"
)

// AccountType classifies an account code in the flat registry namespace.
// Bank accounts and GL categories share the same namespace.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeEquity    AccountType = "equity"
	// AccountTypeTransfer is the reserved namespace for internal transfer
	// clearing accounts; lines hitting these accounts are eligible for
	// transfer pair matching.
	AccountTypeTransfer AccountType = "transfer"
)

// Valid reports whether the type is one of the known classifications.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeIncome,
		AccountTypeExpense, AccountTypeEquity, AccountTypeTransfer:
		return true
	}

	return false
}

// AccountStatus is the lifecycle state of a registry account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Account is one entry in the account registry.
type Account struct {
	Code      string
	Name      string
	Type      AccountType
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the account can appear on new entry lines.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// IsTransfer reports whether the account belongs to the reserved transfer
// namespace.
func (a *Account) IsTransfer() bool {
	return a.Type == AccountTypeTransfer
}
