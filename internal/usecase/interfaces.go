package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
)

// AccountRepository defines data access for the account registry.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByCodes(ctx context.Context, codes []string) (map[string]*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	SetStatus(ctx context.Context, code string, status domain.AccountStatus, updatedAt time.Time) error
}

// StagingRepository defines data access for staged transactions.
type StagingRepository interface {
	Create(ctx context.Context, staged *domain.StagedTransaction) error
	GetByID(ctx context.Context, id string) (*domain.StagedTransaction, error)
	List(ctx context.Context, filter StagingFilter) ([]*domain.StagedTransaction, error)
	// ListBuildable returns assigned, unreconciled rows that have no
	// candidate entry yet, plus the count of rows skipped for still
	// carrying the sentinel code.
	ListBuildable(ctx context.Context, filter StagingFilter) ([]*domain.StagedTransaction, int, error)
	UpdateAssignment(ctx context.Context, id, accountCode string, method domain.AssignMethod, confidence decimal.Decimal, updatedAt time.Time) error
	MarkReconciled(ctx context.Context, tx Transaction, id string, updatedAt time.Time) error
	Summarize(ctx context.Context, entity string) (*domain.StagingSummary, error)
}

// StagingFilter narrows staging queries to a working set.
type StagingFilter struct {
	Entity     string
	DateFrom   *time.Time
	DateTo     *time.Time
	Unassigned bool
	Limit      int
	Offset     int
}

// CandidateRepository defines data access for candidate (trial) entries.
type CandidateRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.CandidateEntry) error
	GetByID(ctx context.Context, id string) (*domain.CandidateEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.CandidateEntry, error)
	// ExistsForStaging reports whether a candidate already references the
	// staged row; called inside the same transaction as Create.
	ExistsForStaging(ctx context.Context, tx Transaction, stagingID string) (bool, error)
	ListByStatus(ctx context.Context, status domain.CandidateStatus, entity string, limit, offset int) ([]*domain.CandidateEntry, error)
	// ListUnmatchedTransfers returns unposted transfer-tagged entries
	// without a counterpart link, oldest first.
	ListUnmatchedTransfers(ctx context.Context, entity string) ([]*domain.CandidateEntry, error)
	SetStatus(ctx context.Context, id string, status domain.CandidateStatus, errorDetail string, updatedAt time.Time) error
	SetStatusTx(ctx context.Context, tx Transaction, id string, status domain.CandidateStatus, errorDetail string, updatedAt time.Time) error
	// LinkCounterparts sets both entries' counterpart links symmetrically.
	LinkCounterparts(ctx context.Context, tx Transaction, firstID, secondID string, updatedAt time.Time) error
	CountByStatus(ctx context.Context, entity string) (map[domain.CandidateStatus]int, error)
}

// LedgerRepository defines data access for posted journal entries.
type LedgerRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LedgerEntry, error)
	// ExistsForCandidate reports whether a journal entry already references
	// the candidate; called inside the posting transaction.
	ExistsForCandidate(ctx context.Context, tx Transaction, candidateID string) (bool, error)
	List(ctx context.Context, filter LedgerFilter) ([]*domain.LedgerEntry, error)
	SetReversedBy(ctx context.Context, tx Transaction, id, reversedByID string) error
	// AccountBalance computes sum(debit) - sum(credit) across all journal
	// lines for the account. Reversal pairs cancel out of the sum.
	AccountBalance(ctx context.Context, accountCode string) (decimal.Decimal, error)
}

// LedgerFilter narrows journal queries.
type LedgerFilter struct {
	Entity   string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// PatternRuleRepository defines data access for categorization rules.
type PatternRuleRepository interface {
	Create(ctx context.Context, rule *domain.PatternRule) error
	// ListActiveForEntity returns active rules whose scope covers the
	// entity (specific or wildcard), ordered by priority descending then
	// creation order ascending.
	ListActiveForEntity(ctx context.Context, entity string) ([]*domain.PatternRule, error)
	List(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries operations that fail with transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
