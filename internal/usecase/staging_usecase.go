package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
)

// StagingUseCase handles imported bank transactions before expansion.
type StagingUseCase struct {
	stagingRepo StagingRepository
	accountRepo AccountRepository
	categorizer *CategorizeUseCase
	idGen       IDGenerator
}

// NewStagingUseCase creates a new StagingUseCase.
func NewStagingUseCase(
	stagingRepo StagingRepository,
	accountRepo AccountRepository,
	categorizer *CategorizeUseCase,
	idGen IDGenerator,
) *StagingUseCase {
	return &StagingUseCase{
		stagingRepo: stagingRepo,
		accountRepo: accountRepo,
		categorizer: categorizer,
		idGen:       idGen,
	}
}

// ImportTransactionInput is one bank-statement line from the import
// collaborator. Format parsing happens upstream.
type ImportTransactionInput struct {
	SourceAccountCode string
	TransactionDate   time.Time
	Description       string
	Amount            decimal.Decimal
	Entity            string
}

// ImportTransaction stages a transaction and runs pattern categorization
// on it.
func (uc *StagingUseCase) ImportTransaction(ctx context.Context, input ImportTransactionInput) (*domain.StagedTransaction, error) {
	if err := domain.ValidateAccountCode(input.SourceAccountCode); err != nil {
		return nil, err
	}

	if err := domain.ValidateEntity(input.Entity); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if err := domain.ValidateStagedAmount(input.Amount); err != nil {
		return nil, err
	}

	source, err := uc.accountRepo.GetByCode(ctx, input.SourceAccountCode)
	if err != nil {
		return nil, err
	}

	if !source.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	match, err := uc.categorizer.Match(ctx, input.Description, input.Entity)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	staged := &domain.StagedTransaction{
		ID:                uc.idGen.Generate(),
		SourceAccountCode: input.SourceAccountCode,
		TransactionDate:   input.TransactionDate,
		Description:       input.Description,
		Amount:            input.Amount,
		Entity:            input.Entity,
		AccountCode:       match.AccountCode,
		AssignMethod:      match.Method,
		MatchConfidence:   match.Confidence,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.stagingRepo.Create(ctx, staged); err != nil {
		return nil, err
	}

	return staged, nil
}

// AssignAccount manually categorizes a staged transaction. Reconciled rows
// are frozen.
func (uc *StagingUseCase) AssignAccount(ctx context.Context, stagingID, accountCode string) (*domain.StagedTransaction, error) {
	if err := domain.ValidateAccountCode(accountCode); err != nil {
		return nil, err
	}

	staged, err := uc.stagingRepo.GetByID(ctx, stagingID)
	if err != nil {
		return nil, err
	}

	if staged.Reconciled {
		return nil, domain.ErrStagingReconciled
	}

	account, err := uc.accountRepo.GetByCode(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	if !account.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	now := time.Now().UTC()
	confidence := decimal.NewFromInt(1)

	err = uc.stagingRepo.UpdateAssignment(ctx, stagingID, accountCode, domain.AssignMethodManual, confidence, now)
	if err != nil {
		return nil, err
	}

	staged.AccountCode = accountCode
	staged.AssignMethod = domain.AssignMethodManual
	staged.MatchConfidence = confidence
	staged.UpdatedAt = now

	return staged, nil
}

// ListStaged lists staged transactions.
func (uc *StagingUseCase) ListStaged(ctx context.Context, filter StagingFilter) ([]*domain.StagedTransaction, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.stagingRepo.List(ctx, filter)
}

// ListUnassigned lists rows still carrying the sentinel code.
func (uc *StagingUseCase) ListUnassigned(ctx context.Context, entity string) ([]*domain.StagedTransaction, error) {
	filter := StagingFilter{Entity: entity, Unassigned: true}
	filter.Limit, filter.Offset = domain.ValidatePagination(0, 0)

	return uc.stagingRepo.List(ctx, filter)
}

// Summarize counts staged rows by categorization outcome, scoped to the
// entity when one is given.
func (uc *StagingUseCase) Summarize(ctx context.Context, entity string) (*domain.StagingSummary, error) {
	return uc.stagingRepo.Summarize(ctx, entity)
}
