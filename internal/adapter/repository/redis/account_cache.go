package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// CachedAccountRepository is a read-through cache over an account
// repository. The registry is small and nearly static, so single-code
// lookups from the validator and transfer matcher are served from cache;
// every write invalidates the code it touches.
type CachedAccountRepository struct {
	inner usecase.AccountRepository
	cache usecase.Cache
	ttl   time.Duration
}

// NewCachedAccountRepository wraps an account repository with a cache.
func NewCachedAccountRepository(inner usecase.AccountRepository, cache usecase.Cache, ttl time.Duration) *CachedAccountRepository {
	return &CachedAccountRepository{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func accountKey(code string) string {
	return "account:" + code
}

// Create registers an account and primes the cache.
func (r *CachedAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := r.inner.Create(ctx, account); err != nil {
		return err
	}

	r.store(ctx, account)

	return nil
}

// GetByCode retrieves an account, from cache when possible.
func (r *CachedAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if data, err := r.cache.Get(ctx, accountKey(code)); err == nil {
		var account domain.Account
		if err := json.Unmarshal(data, &account); err == nil {
			return &account, nil
		}
	}

	account, err := r.inner.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.store(ctx, account)

	return account, nil
}

// GetByCodes retrieves multiple accounts keyed by code. Hits come from
// cache, misses fall through to storage in one query.
func (r *CachedAccountRepository) GetByCodes(ctx context.Context, codes []string) (map[string]*domain.Account, error) {
	accounts := make(map[string]*domain.Account, len(codes))
	var missing []string

	for _, code := range codes {
		data, err := r.cache.Get(ctx, accountKey(code))
		if err != nil {
			missing = append(missing, code)
			continue
		}

		var account domain.Account
		if err := json.Unmarshal(data, &account); err != nil {
			missing = append(missing, code)
			continue
		}

		accounts[code] = &account
	}

	if len(missing) == 0 {
		return accounts, nil
	}

	fetched, err := r.inner.GetByCodes(ctx, missing)
	if err != nil {
		return nil, err
	}

	for code, account := range fetched {
		accounts[code] = account
		r.store(ctx, account)
	}

	return accounts, nil
}

// List always reads from storage.
func (r *CachedAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	return r.inner.List(ctx, limit, offset)
}

// SetStatus updates the account and drops it from cache. A stale active
// flag would let the validator bless entries on a closed account.
func (r *CachedAccountRepository) SetStatus(ctx context.Context, code string, status domain.AccountStatus, updatedAt time.Time) error {
	if err := r.inner.SetStatus(ctx, code, status, updatedAt); err != nil {
		return err
	}

	_ = r.cache.Delete(ctx, accountKey(code))

	return nil
}

func (r *CachedAccountRepository) store(ctx context.Context, account *domain.Account) {
	data, err := json.Marshal(account)
	if err != nil {
		return
	}

	_ = r.cache.Set(ctx, accountKey(account.Code), data, r.ttl)
}
