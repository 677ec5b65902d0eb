package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/bookledger/internal/domain"
)

// AccountUseCase manages the account registry.
type AccountUseCase struct {
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository) *AccountUseCase {
	return &AccountUseCase{accountRepo: accountRepo}
}

// CreateAccountInput represents input for registering an account.
type CreateAccountInput struct {
	Code string
	Name string
	Type domain.AccountType
}

// CreateAccount registers a new account in active status.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountCode(input.Code); err != nil {
		return nil, err
	}

	if input.Code == domain.UnassignedCode {
		return nil, fmt.Errorf("%w: %q is reserved", domain.ErrInvalidAccountCode, domain.UnassignedCode)
	}

	if input.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidAccountCode)
	}

	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", domain.ErrInvalidAccountCode, input.Type)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Code:      input.Code,
		Name:      input.Name,
		Type:      input.Type,
		Status:    domain.AccountStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by code.
func (uc *AccountUseCase) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.accountRepo.List(ctx, limit, offset)
}

// SetAccountStatus activates or deactivates an account. Deactivation does
// not touch history; the validator catches entries that still reference
// the account.
func (uc *AccountUseCase) SetAccountStatus(ctx context.Context, code string, status domain.AccountStatus) (*domain.Account, error) {
	if status != domain.AccountStatusActive && status != domain.AccountStatusInactive {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidAccountCode, status)
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.SetStatus(ctx, code, status, now); err != nil {
		return nil, err
	}

	return uc.accountRepo.GetByCode(ctx, code)
}
