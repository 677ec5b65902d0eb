package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// CreateAccountRequest registers an account in the registry.
type CreateAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Code: r.Code,
		Name: r.Name,
		Type: domain.AccountType(r.Type),
	}
}

// SetAccountStatusRequest activates or deactivates an account.
type SetAccountStatusRequest struct {
	Status string `json:"status"`
}

// ImportTransactionRequest stages one bank-statement line.
type ImportTransactionRequest struct {
	SourceAccountCode string          `json:"source_account_code"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Entity            string          `json:"entity"`
}

// ToUseCaseInput converts to use case input.
func (r *ImportTransactionRequest) ToUseCaseInput() usecase.ImportTransactionInput {
	return usecase.ImportTransactionInput{
		SourceAccountCode: r.SourceAccountCode,
		TransactionDate:   r.TransactionDate,
		Description:       r.Description,
		Amount:            r.Amount,
		Entity:            r.Entity,
	}
}

// AssignAccountRequest manually categorizes a staged transaction.
type AssignAccountRequest struct {
	AccountCode string `json:"account_code"`
}

// CreateRuleRequest registers a categorization pattern rule.
type CreateRuleRequest struct {
	MatchText   string          `json:"match_text"`
	AccountCode string          `json:"account_code"`
	Entity      string          `json:"entity,omitempty"`
	Priority    int             `json:"priority,omitempty"`
	Confidence  decimal.Decimal `json:"confidence,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRuleRequest) ToUseCaseInput() usecase.CreateRuleInput {
	return usecase.CreateRuleInput{
		MatchText:   r.MatchText,
		AccountCode: r.AccountCode,
		Entity:      r.Entity,
		Priority:    r.Priority,
		Confidence:  r.Confidence,
	}
}

// BuildTrialRequest scopes a trial build to a working set.
type BuildTrialRequest struct {
	Entity   string     `json:"entity,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}

// ToFilter converts to a staging filter.
func (r *BuildTrialRequest) ToFilter() usecase.StagingFilter {
	return usecase.StagingFilter{
		Entity:   r.Entity,
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
	}
}

// MatchTransfersRequest scopes transfer matching to an entity.
type MatchTransfersRequest struct {
	Entity string `json:"entity,omitempty"`
}

// PostJournalRequest posts the balanced working set to the journal.
type PostJournalRequest struct {
	Entity   string `json:"entity,omitempty"`
	PostedBy string `json:"posted_by"`
}

// ReverseEntryRequest reverses a posted journal entry.
type ReverseEntryRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}
