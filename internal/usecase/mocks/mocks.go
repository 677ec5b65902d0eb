package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc     func(ctx context.Context, account *domain.Account) error
	GetByCodeFunc  func(ctx context.Context, code string) (*domain.Account, error)
	GetByCodesFunc func(ctx context.Context, codes []string) (map[string]*domain.Account, error)
	ListFunc       func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	SetStatusFunc  func(ctx context.Context, code string, status domain.AccountStatus, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed registers an account in the in-memory registry.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Code] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Code] = account
	return nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[code]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCodes(ctx context.Context, codes []string) (map[string]*domain.Account, error) {
	if m.GetByCodesFunc != nil {
		return m.GetByCodesFunc(ctx, codes)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]*domain.Account)
	for _, code := range codes {
		if acc, ok := m.accounts[code]; ok {
			result[code] = acc
		}
	}
	return result, nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (m *MockAccountRepository) SetStatus(ctx context.Context, code string, status domain.AccountStatus, updatedAt time.Time) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, code, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[code]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Status = status
	acc.UpdatedAt = updatedAt
	return nil
}

// MockStagingRepository is a mock implementation of StagingRepository.
type MockStagingRepository struct {
	mu   sync.RWMutex
	rows map[string]*domain.StagedTransaction

	CreateFunc           func(ctx context.Context, staged *domain.StagedTransaction) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.StagedTransaction, error)
	ListFunc             func(ctx context.Context, filter usecase.StagingFilter) ([]*domain.StagedTransaction, error)
	ListBuildableFunc    func(ctx context.Context, filter usecase.StagingFilter) ([]*domain.StagedTransaction, int, error)
	UpdateAssignmentFunc func(ctx context.Context, id, accountCode string, method domain.AssignMethod, confidence decimal.Decimal, updatedAt time.Time) error
	MarkReconciledFunc   func(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error
	SummarizeFunc        func(ctx context.Context, entity string) (*domain.StagingSummary, error)
}

func NewMockStagingRepository() *MockStagingRepository {
	return &MockStagingRepository{
		rows: make(map[string]*domain.StagedTransaction),
	}
}

func (m *MockStagingRepository) Create(ctx context.Context, staged *domain.StagedTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, staged)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[staged.ID] = staged
	return nil
}

func (m *MockStagingRepository) GetByID(ctx context.Context, id string) (*domain.StagedTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if row, ok := m.rows[id]; ok {
		return row, nil
	}
	return nil, domain.ErrStagingNotFound
}

func (m *MockStagingRepository) List(ctx context.Context, filter usecase.StagingFilter) ([]*domain.StagedTransaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []*domain.StagedTransaction
	for _, row := range m.rows {
		if filter.Entity != "" && row.Entity != filter.Entity {
			continue
		}
		if filter.Unassigned && row.IsAssigned() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *MockStagingRepository) ListBuildable(ctx context.Context, filter usecase.StagingFilter) ([]*domain.StagedTransaction, int, error) {
	if m.ListBuildableFunc != nil {
		return m.ListBuildableFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []*domain.StagedTransaction
	unassigned := 0
	for _, row := range m.rows {
		if filter.Entity != "" && row.Entity != filter.Entity {
			continue
		}
		if !row.IsAssigned() {
			unassigned++
			continue
		}
		if !row.Reconciled {
			rows = append(rows, row)
		}
	}
	return rows, unassigned, nil
}

func (m *MockStagingRepository) UpdateAssignment(ctx context.Context, id, accountCode string, method domain.AssignMethod, confidence decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateAssignmentFunc != nil {
		return m.UpdateAssignmentFunc(ctx, id, accountCode, method, confidence, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return domain.ErrStagingNotFound
	}
	row.AccountCode = accountCode
	row.AssignMethod = method
	row.MatchConfidence = confidence
	row.UpdatedAt = updatedAt
	return nil
}

func (m *MockStagingRepository) MarkReconciled(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	if m.MarkReconciledFunc != nil {
		return m.MarkReconciledFunc(ctx, tx, id, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return domain.ErrStagingNotFound
	}
	row.Reconciled = true
	row.UpdatedAt = updatedAt
	return nil
}

func (m *MockStagingRepository) Summarize(ctx context.Context, entity string) (*domain.StagingSummary, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, entity)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	summary := &domain.StagingSummary{}
	for _, row := range m.rows {
		if entity != "" && row.Entity != entity {
			continue
		}
		summary.Total++
		if !row.IsAssigned() {
			summary.Unassigned++
		}
		switch row.AssignMethod {
		case domain.AssignMethodPattern:
			summary.PatternAssigned++
		case domain.AssignMethodManual:
			summary.ManualAssigned++
		}
		if row.Reconciled {
			summary.Reconciled++
		}
	}
	return summary, nil
}

// MockCandidateRepository is a mock implementation of CandidateRepository.
type MockCandidateRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.CandidateEntry

	CreateFunc                 func(ctx context.Context, tx usecase.Transaction, entry *domain.CandidateEntry) error
	GetByIDFunc                func(ctx context.Context, id string) (*domain.CandidateEntry, error)
	GetByIDForUpdateFunc       func(ctx context.Context, tx usecase.Transaction, id string) (*domain.CandidateEntry, error)
	ExistsForStagingFunc       func(ctx context.Context, tx usecase.Transaction, stagingID string) (bool, error)
	ListByStatusFunc           func(ctx context.Context, status domain.CandidateStatus, entity string, limit, offset int) ([]*domain.CandidateEntry, error)
	ListUnmatchedTransfersFunc func(ctx context.Context, entity string) ([]*domain.CandidateEntry, error)
	SetStatusFunc              func(ctx context.Context, id string, status domain.CandidateStatus, errorDetail string, updatedAt time.Time) error
	SetStatusTxFunc            func(ctx context.Context, tx usecase.Transaction, id string, status domain.CandidateStatus, errorDetail string, updatedAt time.Time) error
	LinkCounterpartsFunc       func(ctx context.Context, tx usecase.Transaction, firstID, secondID string, updatedAt time.Time) error
	CountByStatusFunc          func(ctx context.Context, entity string) (map[domain.CandidateStatus]int, error)
}

func NewMockCandidateRepository() *MockCandidateRepository {
	return &MockCandidateRepository{
		entries: make(map[string]*domain.CandidateEntry),
	}
}

// Seed registers a candidate entry directly.
func (m *MockCandidateRepository) Seed(entry *domain.CandidateEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
}

// Get returns the stored entry, for assertions.
func (m *MockCandidateRepository) Get(id string) *domain.CandidateEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[id]
}

// Count returns the number of stored entries.
func (m *MockCandidateRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MockCandidateRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.CandidateEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockCandidateRepository) GetByID(ctx context.Context, id string) (*domain.CandidateEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if entry, ok := m.entries[id]; ok {
		return entry, nil
	}
	return nil, domain.ErrCandidateNotFound
}

func (m *MockCandidateRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CandidateEntry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockCandidateRepository) ExistsForStaging(ctx context.Context, tx usecase.Transaction, stagingID string) (bool, error) {
	if m.ExistsForStagingFunc != nil {
		return m.ExistsForStagingFunc(ctx, tx, stagingID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entry := range m.entries {
		if entry.StagingID == stagingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCandidateRepository) ListByStatus(ctx context.Context, status domain.CandidateStatus, entity string, limit, offset int) ([]*domain.CandidateEntry, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status, entity, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.CandidateEntry
	for _, entry := range m.entries {
		if entry.Status != status {
			continue
		}
		if entity != "" && entry.Entity != entity {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *MockCandidateRepository) ListUnmatchedTransfers(ctx context.Context, entity string) ([]*domain.CandidateEntry, error) {
	if m.ListUnmatchedTransfersFunc != nil {
		return m.ListUnmatchedTransfersFunc(ctx, entity)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.CandidateEntry
	for _, entry := range m.entries {
		if entry.IsPosted() || entry.IsMatched() {
			continue
		}
		if entity != "" && entry.Entity != entity {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *MockCandidateRepository) SetStatus(ctx context.Context, id string, status domain.CandidateStatus, errorDetail string, updatedAt time.Time) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status, errorDetail, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return domain.ErrCandidateNotFound
	}
	entry.Status = status
	entry.ErrorDetail = errorDetail
	entry.UpdatedAt = updatedAt
	return nil
}

func (m *MockCandidateRepository) SetStatusTx(ctx context.Context, tx usecase.Transaction, id string, status domain.CandidateStatus, errorDetail string, updatedAt time.Time) error {
	if m.SetStatusTxFunc != nil {
		return m.SetStatusTxFunc(ctx, tx, id, status, errorDetail, updatedAt)
	}
	return m.SetStatus(ctx, id, status, errorDetail, updatedAt)
}

func (m *MockCandidateRepository) LinkCounterparts(ctx context.Context, tx usecase.Transaction, firstID, secondID string, updatedAt time.Time) error {
	if m.LinkCounterpartsFunc != nil {
		return m.LinkCounterpartsFunc(ctx, tx, firstID, secondID, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	first, ok := m.entries[firstID]
	if !ok {
		return domain.ErrCandidateNotFound
	}
	second, ok := m.entries[secondID]
	if !ok {
		return domain.ErrCandidateNotFound
	}
	if first.MatchedEntryID != nil || second.MatchedEntryID != nil ||
		first.Status == domain.CandidateStatusPosted || second.Status == domain.CandidateStatusPosted {
		return domain.ErrTransferLinked
	}
	first.MatchedEntryID = &second.ID
	second.MatchedEntryID = &first.ID
	first.UpdatedAt = updatedAt
	second.UpdatedAt = updatedAt
	return nil
}

func (m *MockCandidateRepository) CountByStatus(ctx context.Context, entity string) (map[domain.CandidateStatus]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, entity)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[domain.CandidateStatus]int)
	for _, entry := range m.entries {
		if entity != "" && entry.Entity != entity {
			continue
		}
		counts[entry.Status]++
	}
	return counts, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.LedgerEntry

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByIDForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error)
	ExistsForCandidateFunc func(ctx context.Context, tx usecase.Transaction, candidateID string) (bool, error)
	ListFunc               func(ctx context.Context, filter usecase.LedgerFilter) ([]*domain.LedgerEntry, error)
	SetReversedByFunc      func(ctx context.Context, tx usecase.Transaction, id, reversedByID string) error
	AccountBalanceFunc     func(ctx context.Context, accountCode string) (decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		entries: make(map[string]*domain.LedgerEntry),
	}
}

// Seed registers a ledger entry directly.
func (m *MockLedgerRepository) Seed(entry *domain.LedgerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
}

// Get returns the stored entry, for assertions.
func (m *MockLedgerRepository) Get(id string) *domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[id]
}

// Count returns the number of stored entries.
func (m *MockLedgerRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MockLedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if entry, ok := m.entries[id]; ok {
		return entry, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockLedgerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockLedgerRepository) ExistsForCandidate(ctx context.Context, tx usecase.Transaction, candidateID string) (bool, error) {
	if m.ExistsForCandidateFunc != nil {
		return m.ExistsForCandidateFunc(ctx, tx, candidateID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entry := range m.entries {
		if entry.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockLedgerRepository) List(ctx context.Context, filter usecase.LedgerFilter) ([]*domain.LedgerEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, entry := range m.entries {
		if filter.Entity != "" && entry.Entity != filter.Entity {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *MockLedgerRepository) SetReversedBy(ctx context.Context, tx usecase.Transaction, id, reversedByID string) error {
	if m.SetReversedByFunc != nil {
		return m.SetReversedByFunc(ctx, tx, id, reversedByID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	if entry.ReversedByID != nil {
		return domain.ErrAlreadyReversed
	}
	entry.ReversedByID = &reversedByID
	return nil
}

func (m *MockLedgerRepository) AccountBalance(ctx context.Context, accountCode string) (decimal.Decimal, error) {
	if m.AccountBalanceFunc != nil {
		return m.AccountBalanceFunc(ctx, accountCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance := decimal.Zero
	for _, entry := range m.entries {
		for _, line := range entry.Lines {
			if line.AccountCode == accountCode {
				balance = balance.Add(line.Debit).Sub(line.Credit)
			}
		}
	}
	return balance, nil
}

// MockPatternRuleRepository is a mock implementation of PatternRuleRepository.
type MockPatternRuleRepository struct {
	mu    sync.RWMutex
	rules []*domain.PatternRule

	CreateFunc              func(ctx context.Context, rule *domain.PatternRule) error
	ListActiveForEntityFunc func(ctx context.Context, entity string) ([]*domain.PatternRule, error)
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error)
	SetActiveFunc           func(ctx context.Context, id string, active bool) error
}

func NewMockPatternRuleRepository() *MockPatternRuleRepository {
	return &MockPatternRuleRepository{}
}

// Seed appends a rule in creation order.
func (m *MockPatternRuleRepository) Seed(rule *domain.PatternRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule)
}

func (m *MockPatternRuleRepository) Create(ctx context.Context, rule *domain.PatternRule) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rule)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule)
	return nil
}

func (m *MockPatternRuleRepository) ListActiveForEntity(ctx context.Context, entity string) ([]*domain.PatternRule, error) {
	if m.ListActiveForEntityFunc != nil {
		return m.ListActiveForEntityFunc(ctx, entity)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Priority descending, creation order ascending, like the SQL ordering.
	var eligible []*domain.PatternRule
	for _, rule := range m.rules {
		if rule.Active && rule.Scope.Covers(entity) {
			eligible = append(eligible, rule)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Priority > eligible[j].Priority
	})
	return eligible, nil
}

func (m *MockPatternRuleRepository) List(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rules, nil
}

func (m *MockPatternRuleRepository) SetActive(ctx context.Context, id string, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rule := range m.rules {
		if rule.ID == id {
			rule.Active = active
			return nil
		}
	}
	return domain.ErrRuleNotFound
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
	ListFunc   func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logs, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + strconv.Itoa(m.counter)
}
