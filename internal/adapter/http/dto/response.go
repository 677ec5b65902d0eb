package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
)

// AccountResponse represents a registry account in API responses.
type AccountResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// BalanceResponse carries a computed account balance.
type BalanceResponse struct {
	AccountCode string          `json:"account_code"`
	Balance     decimal.Decimal `json:"balance"`
}

// StagedTransactionResponse represents a staged bank transaction.
type StagedTransactionResponse struct {
	ID                string          `json:"id"`
	SourceAccountCode string          `json:"source_account_code"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Entity            string          `json:"entity"`
	AccountCode       string          `json:"account_code"`
	AssignMethod      string          `json:"assign_method"`
	MatchConfidence   decimal.Decimal `json:"match_confidence"`
	Reconciled        bool            `json:"reconciled"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StagedFromDomain converts a staged transaction to a response.
func StagedFromDomain(s *domain.StagedTransaction) *StagedTransactionResponse {
	return &StagedTransactionResponse{
		ID:                s.ID,
		SourceAccountCode: s.SourceAccountCode,
		TransactionDate:   s.TransactionDate,
		Description:       s.Description,
		Amount:            s.Amount,
		Entity:            s.Entity,
		AccountCode:       s.AccountCode,
		AssignMethod:      string(s.AssignMethod),
		MatchConfidence:   s.MatchConfidence,
		Reconciled:        s.Reconciled,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// StagedListFromDomain converts staged transactions to responses.
func StagedListFromDomain(staged []*domain.StagedTransaction) []*StagedTransactionResponse {
	result := make([]*StagedTransactionResponse, len(staged))
	for i, s := range staged {
		result[i] = StagedFromDomain(s)
	}
	return result
}

// StagingSummaryResponse counts staged rows by categorization outcome.
type StagingSummaryResponse struct {
	Total           int `json:"total"`
	Unassigned      int `json:"unassigned"`
	PatternAssigned int `json:"pattern_assigned"`
	ManualAssigned  int `json:"manual_assigned"`
	Reconciled      int `json:"reconciled"`
}

// StagingSummaryFromDomain converts a staging summary to a response.
func StagingSummaryFromDomain(s *domain.StagingSummary) StagingSummaryResponse {
	return StagingSummaryResponse{
		Total:           s.Total,
		Unassigned:      s.Unassigned,
		PatternAssigned: s.PatternAssigned,
		ManualAssigned:  s.ManualAssigned,
		Reconciled:      s.Reconciled,
	}
}

// TrialSummaryResponse counts candidate entries per status.
type TrialSummaryResponse struct {
	Pending  int `json:"pending"`
	Balanced int `json:"balanced"`
	Errored  int `json:"errored"`
	Posted   int `json:"posted"`
}

// TrialSummaryFromDomain converts a trial summary to a response.
func TrialSummaryFromDomain(s *domain.TrialSummary) TrialSummaryResponse {
	return TrialSummaryResponse{
		Pending:  s.Pending,
		Balanced: s.Balanced,
		Errored:  s.Errored,
		Posted:   s.Posted,
	}
}

// EntryLineResponse represents one debit or credit line.
type EntryLineResponse struct {
	ID          string          `json:"id"`
	LineNum     int             `json:"line_num"`
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Entity      string          `json:"entity"`
	Memo        string          `json:"memo,omitempty"`
}

// CandidateEntryResponse represents a trial-stage candidate entry.
type CandidateEntryResponse struct {
	ID             string              `json:"id"`
	EntryDate      time.Time           `json:"entry_date"`
	Description    string              `json:"description"`
	Entity         string              `json:"entity"`
	StagingID      string              `json:"staging_id"`
	MatchedEntryID *string             `json:"matched_entry_id,omitempty"`
	Status         string              `json:"status"`
	ErrorDetail    string              `json:"error_detail,omitempty"`
	Lines          []EntryLineResponse `json:"lines"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// CandidateFromDomain converts a candidate entry to a response.
func CandidateFromDomain(e *domain.CandidateEntry) *CandidateEntryResponse {
	lines := make([]EntryLineResponse, len(e.Lines))
	for i, line := range e.Lines {
		lines[i] = EntryLineResponse{
			ID:          line.ID,
			LineNum:     line.LineNum,
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Entity:      line.Entity,
			Memo:        line.Memo,
		}
	}

	return &CandidateEntryResponse{
		ID:             e.ID,
		EntryDate:      e.EntryDate,
		Description:    e.Description,
		Entity:         e.Entity,
		StagingID:      e.StagingID,
		MatchedEntryID: e.MatchedEntryID,
		Status:         string(e.Status),
		ErrorDetail:    e.ErrorDetail,
		Lines:          lines,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// CandidatesFromDomain converts candidate entries to responses.
func CandidatesFromDomain(entries []*domain.CandidateEntry) []*CandidateEntryResponse {
	result := make([]*CandidateEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = CandidateFromDomain(e)
	}
	return result
}

// LedgerEntryResponse represents a posted journal entry.
type LedgerEntryResponse struct {
	ID           string              `json:"id"`
	EntryDate    time.Time           `json:"entry_date"`
	Description  string              `json:"description"`
	Entity       string              `json:"entity"`
	CandidateID  string              `json:"candidate_id,omitempty"`
	PostedAt     time.Time           `json:"posted_at"`
	PostedBy     string              `json:"posted_by"`
	ReversalOfID *string             `json:"reversal_of_id,omitempty"`
	ReversedByID *string             `json:"reversed_by_id,omitempty"`
	Lines        []EntryLineResponse `json:"lines"`
}

// LedgerFromDomain converts a journal entry to a response.
func LedgerFromDomain(e *domain.LedgerEntry) *LedgerEntryResponse {
	lines := make([]EntryLineResponse, len(e.Lines))
	for i, line := range e.Lines {
		lines[i] = EntryLineResponse{
			ID:          line.ID,
			LineNum:     line.LineNum,
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Entity:      line.Entity,
			Memo:        line.Memo,
		}
	}

	return &LedgerEntryResponse{
		ID:           e.ID,
		EntryDate:    e.EntryDate,
		Description:  e.Description,
		Entity:       e.Entity,
		CandidateID:  e.CandidateID,
		PostedAt:     e.PostedAt,
		PostedBy:     e.PostedBy,
		ReversalOfID: e.ReversalOfID,
		ReversedByID: e.ReversedByID,
		Lines:        lines,
	}
}

// LedgersFromDomain converts journal entries to responses.
func LedgersFromDomain(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = LedgerFromDomain(e)
	}
	return result
}

// PatternRuleResponse represents a categorization rule.
type PatternRuleResponse struct {
	ID          string          `json:"id"`
	MatchText   string          `json:"match_text"`
	AccountCode string          `json:"account_code"`
	Entity      string          `json:"entity,omitempty"`
	Priority    int             `json:"priority"`
	Confidence  decimal.Decimal `json:"confidence"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RuleFromDomain converts a pattern rule to a response.
func RuleFromDomain(r *domain.PatternRule) *PatternRuleResponse {
	entity, _ := r.Scope.Entity()

	return &PatternRuleResponse{
		ID:          r.ID,
		MatchText:   r.MatchText,
		AccountCode: r.AccountCode,
		Entity:      entity,
		Priority:    r.Priority,
		Confidence:  r.Confidence,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
	}
}

// RulesFromDomain converts pattern rules to responses.
func RulesFromDomain(rules []*domain.PatternRule) []*PatternRuleResponse {
	result := make([]*PatternRuleResponse, len(rules))
	for i, r := range rules {
		result[i] = RuleFromDomain(r)
	}
	return result
}

// BuildResultResponse reports a trial build batch.
type BuildResultResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ValidateResultResponse reports a validation batch.
type ValidateResultResponse struct {
	Validated int `json:"validated"`
	Errors    int `json:"errors"`
}

// MatchResultResponse reports a transfer matching batch.
type MatchResultResponse struct {
	MatchedPairs int `json:"matched_pairs"`
}

// PostResultResponse reports a posting batch.
type PostResultResponse struct {
	Posted  int `json:"posted"`
	Skipped int `json:"skipped"`
}

// ReversalResponse reports a completed reversal.
type ReversalResponse struct {
	ReversalID string `json:"reversal_id"`
}

// AuditLogResponse represents one audit trail row.
type AuditLogResponse struct {
	ID           string      `json:"id"`
	Actor        string      `json:"actor"`
	Action       string      `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Detail       domain.JSON `json:"detail,omitempty"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuditLogFromDomain converts an audit log to a response.
func AuditLogFromDomain(l *domain.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           l.ID,
		Actor:        l.Actor,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		Detail:       l.Detail,
		Status:       l.Status,
		ErrorMessage: l.ErrorMessage,
		CreatedAt:    l.CreatedAt,
	}
}

// AuditLogsFromDomain converts audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = AuditLogFromDomain(l)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
