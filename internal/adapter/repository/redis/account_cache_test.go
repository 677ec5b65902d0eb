package redis

import (
	"context"
	"testing"
	"time"

	"github.com/iho/bookledger/internal/domain"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
	getCalls int
}

func newStubAccountRepo(accounts ...*domain.Account) *stubAccountRepo {
	s := &stubAccountRepo{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		s.accounts[a.Code] = a
	}
	return s
}

func (s *stubAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	s.accounts[account.Code] = account
	return nil
}

func (s *stubAccountRepo) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.getCalls++
	if a, ok := s.accounts[code]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccountRepo) GetByCodes(ctx context.Context, codes []string) (map[string]*domain.Account, error) {
	s.getCalls++
	out := make(map[string]*domain.Account)
	for _, code := range codes {
		if a, ok := s.accounts[code]; ok {
			out[code] = a
		}
	}
	return out, nil
}

func (s *stubAccountRepo) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	return nil, nil
}

func (s *stubAccountRepo) SetStatus(ctx context.Context, code string, status domain.AccountStatus, updatedAt time.Time) error {
	if a, ok := s.accounts[code]; ok {
		a.Status = status
		return nil
	}
	return domain.ErrAccountNotFound
}

func TestCachedAccountRepositoryReadThrough(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	inner := newStubAccountRepo(&domain.Account{
		Code:   "checking",
		Name:   "Checking",
		Type:   domain.AccountTypeAsset,
		Status: domain.AccountStatusActive,
	})
	repo := NewCachedAccountRepository(inner, NewCache(client), time.Minute)
	ctx := context.Background()

	first, err := repo.GetByCode(ctx, "checking")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	second, err := repo.GetByCode(ctx, "checking")
	if err != nil {
		t.Fatalf("cached get failed: %v", err)
	}

	if first.Code != second.Code || second.Type != domain.AccountTypeAsset {
		t.Fatalf("cached account mismatch: %+v vs %+v", first, second)
	}

	if inner.getCalls != 1 {
		t.Fatalf("expected 1 storage hit, got %d", inner.getCalls)
	}
}

func TestCachedAccountRepositorySetStatusInvalidates(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	inner := newStubAccountRepo(&domain.Account{
		Code:   "checking",
		Status: domain.AccountStatusActive,
	})
	repo := NewCachedAccountRepository(inner, NewCache(client), time.Minute)
	ctx := context.Background()

	if _, err := repo.GetByCode(ctx, "checking"); err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if err := repo.SetStatus(ctx, "checking", domain.AccountStatusInactive, time.Now()); err != nil {
		t.Fatalf("set status failed: %v", err)
	}

	account, err := repo.GetByCode(ctx, "checking")
	if err != nil {
		t.Fatalf("get after invalidate failed: %v", err)
	}

	if account.Status != domain.AccountStatusInactive {
		t.Fatalf("expected inactive status, got %s", account.Status)
	}
}

func TestCachedAccountRepositoryGetByCodesMixedHits(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	inner := newStubAccountRepo(
		&domain.Account{Code: "checking", Status: domain.AccountStatusActive},
		&domain.Account{Code: "savings", Status: domain.AccountStatusActive},
	)
	repo := NewCachedAccountRepository(inner, NewCache(client), time.Minute)
	ctx := context.Background()

	// Prime one of the two.
	if _, err := repo.GetByCode(ctx, "checking"); err != nil {
		t.Fatalf("prime failed: %v", err)
	}

	accounts, err := repo.GetByCodes(ctx, []string{"checking", "savings", "ghost"})
	if err != nil {
		t.Fatalf("get by codes failed: %v", err)
	}

	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}

	if _, ok := accounts["ghost"]; ok {
		t.Fatalf("missing code must stay absent")
	}
}
