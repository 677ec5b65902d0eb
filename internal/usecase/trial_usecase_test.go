package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
	"github.com/iho/bookledger/internal/usecase/mocks"
)

func activeAccount(code string, accType domain.AccountType) *domain.Account {
	return &domain.Account{
		Code:   code,
		Name:   code,
		Type:   accType,
		Status: domain.AccountStatusActive,
	}
}

func stagedRow(id, source, account, entity string, amount int64) *domain.StagedTransaction {
	method := domain.AssignMethodPattern
	if account == domain.UnassignedCode {
		method = domain.AssignMethodNone
	}

	return &domain.StagedTransaction{
		ID:                id,
		SourceAccountCode: source,
		TransactionDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:       "test transaction",
		Amount:            decimal.NewFromInt(amount),
		Entity:            entity,
		AccountCode:       account,
		AssignMethod:      method,
	}
}

func newTrialUseCase(stagingRepo *mocks.MockStagingRepository, candidateRepo *mocks.MockCandidateRepository, accountRepo *mocks.MockAccountRepository) *usecase.TrialUseCase {
	return usecase.NewTrialUseCase(
		mocks.NewMockTransactionManager(),
		stagingRepo,
		candidateRepo,
		accountRepo,
		mocks.NewMockIDGenerator(),
	)
}

func TestTrialUseCase_BuildTrialEntries_SignConvention(t *testing.T) {
	tests := []struct {
		name          string
		amount        int64
		debitAccount  string
		creditAccount string
	}{
		{
			name:          "outflow debits target credits source",
			amount:        -150,
			debitAccount:  "expense:office",
			creditAccount: "checking",
		},
		{
			name:          "inflow debits source credits target",
			amount:        200,
			debitAccount:  "checking",
			creditAccount: "expense:office",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stagingRepo := mocks.NewMockStagingRepository()
			candidateRepo := mocks.NewMockCandidateRepository()
			accountRepo := mocks.NewMockAccountRepository()

			staged := stagedRow("stg-1", "checking", "expense:office", "biz", tt.amount)
			require.NoError(t, stagingRepo.Create(context.Background(), staged))

			uc := newTrialUseCase(stagingRepo, candidateRepo, accountRepo)

			result, err := uc.BuildTrialEntries(context.Background(), usecase.StagingFilter{})
			require.NoError(t, err)
			assert.Equal(t, 1, result.Created)
			assert.Equal(t, 0, result.Skipped)

			require.Equal(t, 1, candidateRepo.Count())

			entries, err := candidateRepo.ListByStatus(context.Background(), domain.CandidateStatusPending, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, entries, 1)

			entry := entries[0]
			require.Len(t, entry.Lines, 2)

			want := decimal.NewFromInt(tt.amount).Abs()
			assert.Equal(t, tt.debitAccount, entry.Lines[0].AccountCode)
			assert.True(t, entry.Lines[0].Debit.Equal(want), "debit = %s, want %s", entry.Lines[0].Debit, want)
			assert.True(t, entry.Lines[0].Credit.IsZero())

			assert.Equal(t, tt.creditAccount, entry.Lines[1].AccountCode)
			assert.True(t, entry.Lines[1].Credit.Equal(want))
			assert.True(t, entry.Lines[1].Debit.IsZero())

			assert.True(t, entry.IsBalanced())
			assert.Equal(t, staged.ID, entry.StagingID)
		})
	}
}

func TestTrialUseCase_BuildTrialEntries_SkipsUnassigned(t *testing.T) {
	stagingRepo := mocks.NewMockStagingRepository()
	candidateRepo := mocks.NewMockCandidateRepository()
	accountRepo := mocks.NewMockAccountRepository()

	require.NoError(t, stagingRepo.Create(context.Background(), stagedRow("stg-1", "checking", domain.UnassignedCode, "biz", -50)))
	require.NoError(t, stagingRepo.Create(context.Background(), stagedRow("stg-2", "checking", "expense:office", "biz", -75)))

	uc := newTrialUseCase(stagingRepo, candidateRepo, accountRepo)

	result, err := uc.BuildTrialEntries(context.Background(), usecase.StagingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, candidateRepo.Count())
}

func TestTrialUseCase_BuildTrialEntries_Idempotent(t *testing.T) {
	stagingRepo := mocks.NewMockStagingRepository()
	candidateRepo := mocks.NewMockCandidateRepository()
	accountRepo := mocks.NewMockAccountRepository()

	require.NoError(t, stagingRepo.Create(context.Background(), stagedRow("stg-1", "checking", "expense:office", "biz", -150)))

	uc := newTrialUseCase(stagingRepo, candidateRepo, accountRepo)

	first, err := uc.BuildTrialEntries(context.Background(), usecase.StagingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := uc.BuildTrialEntries(context.Background(), usecase.StagingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)

	assert.Equal(t, 1, candidateRepo.Count(), "at most one candidate per staged row")
}

func TestTrialUseCase_BuildTrialEntries_LostInsertRaceCountsSkipped(t *testing.T) {
	stagingRepo := mocks.NewMockStagingRepository()
	candidateRepo := mocks.NewMockCandidateRepository()
	accountRepo := mocks.NewMockAccountRepository()

	require.NoError(t, stagingRepo.Create(context.Background(), stagedRow("stg-1", "checking", "expense:office", "biz", -150)))

	// A concurrent builder inserts the candidate between the existence
	// check and the insert; the unique constraint rejects ours.
	candidateRepo.ExistsForStagingFunc = func(ctx context.Context, tx usecase.Transaction, stagingID string) (bool, error) {
		return false, nil
	}
	candidateRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.CandidateEntry) error {
		return domain.ErrCandidateExists
	}

	uc := newTrialUseCase(stagingRepo, candidateRepo, accountRepo)

	result, err := uc.BuildTrialEntries(context.Background(), usecase.StagingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
}

func TestTrialUseCase_ValidateTrialEntries(t *testing.T) {
	tests := []struct {
		name          string
		entry         *domain.CandidateEntry
		seedAccounts  []*domain.Account
		wantStatus    domain.CandidateStatus
		wantValidated int
		wantErrors    int
		detailHas     string
	}{
		{
			name: "balanced entry with valid accounts",
			entry: &domain.CandidateEntry{
				ID:     "ce-1",
				Status: domain.CandidateStatusPending,
				Lines: []domain.CandidateLine{
					{AccountCode: "expense:office", Debit: decimal.NewFromInt(150)},
					{AccountCode: "checking", Credit: decimal.NewFromInt(150)},
				},
			},
			seedAccounts: []*domain.Account{
				activeAccount("expense:office", domain.AccountTypeExpense),
				activeAccount("checking", domain.AccountTypeAsset),
			},
			wantStatus:    domain.CandidateStatusBalanced,
			wantValidated: 1,
		},
		{
			name: "unknown account code",
			entry: &domain.CandidateEntry{
				ID:     "ce-2",
				Status: domain.CandidateStatusPending,
				Lines: []domain.CandidateLine{
					{AccountCode: "expense:ghost", Debit: decimal.NewFromInt(150)},
					{AccountCode: "checking", Credit: decimal.NewFromInt(150)},
				},
			},
			seedAccounts: []*domain.Account{
				activeAccount("checking", domain.AccountTypeAsset),
			},
			wantStatus: domain.CandidateStatusError,
			wantErrors: 1,
			detailHas:  "expense:ghost",
		},
		{
			name: "unbalanced entry",
			entry: &domain.CandidateEntry{
				ID:     "ce-3",
				Status: domain.CandidateStatusPending,
				Lines: []domain.CandidateLine{
					{AccountCode: "expense:office", Debit: decimal.NewFromInt(150)},
					{AccountCode: "checking", Credit: decimal.NewFromInt(100)},
				},
			},
			seedAccounts: []*domain.Account{
				activeAccount("expense:office", domain.AccountTypeExpense),
				activeAccount("checking", domain.AccountTypeAsset),
			},
			wantStatus: domain.CandidateStatusError,
			wantErrors: 1,
			detailHas:  "50",
		},
		{
			name: "zero sum is a balance failure",
			entry: &domain.CandidateEntry{
				ID:     "ce-4",
				Status: domain.CandidateStatusPending,
				Lines: []domain.CandidateLine{
					{AccountCode: "expense:office"},
					{AccountCode: "checking"},
				},
			},
			seedAccounts: []*domain.Account{
				activeAccount("expense:office", domain.AccountTypeExpense),
				activeAccount("checking", domain.AccountTypeAsset),
			},
			wantStatus: domain.CandidateStatusError,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stagingRepo := mocks.NewMockStagingRepository()
			candidateRepo := mocks.NewMockCandidateRepository()
			accountRepo := mocks.NewMockAccountRepository()

			for _, acc := range tt.seedAccounts {
				accountRepo.Seed(acc)
			}
			candidateRepo.Seed(tt.entry)

			uc := newTrialUseCase(stagingRepo, candidateRepo, accountRepo)

			result, err := uc.ValidateTrialEntries(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantValidated, result.Validated)
			assert.Equal(t, tt.wantErrors, result.Errors)

			stored := candidateRepo.Get(tt.entry.ID)
			assert.Equal(t, tt.wantStatus, stored.Status)
			if tt.detailHas != "" {
				assert.Contains(t, stored.ErrorDetail, tt.detailHas)
			}
		})
	}
}

func TestTrialUseCase_ValidateTrialEntries_DowngradesBalanced(t *testing.T) {
	stagingRepo := mocks.NewMockStagingRepository()
	candidateRepo := mocks.NewMockCandidateRepository()
	accountRepo := mocks.NewMockAccountRepository()

	// Account deactivated after the entry first validated.
	inactive := activeAccount("expense:office", domain.AccountTypeExpense)
	inactive.Status = domain.AccountStatusInactive
	accountRepo.Seed(inactive)
	accountRepo.Seed(activeAccount("checking", domain.AccountTypeAsset))

	candidateRepo.Seed(&domain.CandidateEntry{
		ID:     "ce-1",
		Status: domain.CandidateStatusBalanced,
		Lines: []domain.CandidateLine{
			{AccountCode: "expense:office", Debit: decimal.NewFromInt(150), Credit: decimal.Zero},
			{AccountCode: "checking", Debit: decimal.Zero, Credit: decimal.NewFromInt(150)},
		},
	})

	uc := newTrialUseCase(stagingRepo, candidateRepo, accountRepo)

	result, err := uc.ValidateTrialEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Validated)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, domain.CandidateStatusError, candidateRepo.Get("ce-1").Status)
	assert.Contains(t, candidateRepo.Get("ce-1").ErrorDetail, "inactive")
}

func TestTrialUseCase_ValidateTrialEntries_LookupFailurePropagates(t *testing.T) {
	stagingRepo := mocks.NewMockStagingRepository()
	candidateRepo := mocks.NewMockCandidateRepository()
	accountRepo := mocks.NewMockAccountRepository()

	accountRepo.GetByCodesFunc = func(ctx context.Context, codes []string) (map[string]*domain.Account, error) {
		return nil, errors.New("connection refused")
	}

	candidateRepo.Seed(&domain.CandidateEntry{
		ID:     "ce-1",
		Status: domain.CandidateStatusPending,
		Lines: []domain.CandidateLine{
			{AccountCode: "expense:office", Debit: decimal.NewFromInt(150), Credit: decimal.Zero},
			{AccountCode: "checking", Debit: decimal.Zero, Credit: decimal.NewFromInt(150)},
		},
	})

	uc := newTrialUseCase(stagingRepo, candidateRepo, accountRepo)

	_, err := uc.ValidateTrialEntries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account lookup")
	assert.Equal(t, domain.CandidateStatusPending, candidateRepo.Get("ce-1").Status,
		"an infrastructure failure must not mark the entry as a data error")
}

func TestTrialUseCase_Summarize(t *testing.T) {
	stagingRepo := mocks.NewMockStagingRepository()
	candidateRepo := mocks.NewMockCandidateRepository()
	accountRepo := mocks.NewMockAccountRepository()

	candidateRepo.Seed(&domain.CandidateEntry{ID: "ce-1", Entity: "biz", Status: domain.CandidateStatusPending})
	candidateRepo.Seed(&domain.CandidateEntry{ID: "ce-2", Entity: "biz", Status: domain.CandidateStatusBalanced})
	candidateRepo.Seed(&domain.CandidateEntry{ID: "ce-3", Entity: "biz", Status: domain.CandidateStatusPosted})
	candidateRepo.Seed(&domain.CandidateEntry{ID: "ce-4", Entity: "other", Status: domain.CandidateStatusError})

	uc := newTrialUseCase(stagingRepo, candidateRepo, accountRepo)

	summary, err := uc.Summarize(context.Background(), "biz")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 1, summary.Balanced)
	assert.Equal(t, 0, summary.Errored)
	assert.Equal(t, 1, summary.Posted)

	all, err := uc.Summarize(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, all.Errored)
}
