package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/bookledger/internal/domain"
)

// TrialUseCase expands staged transactions into candidate entries and
// validates them.
type TrialUseCase struct {
	txManager     TransactionManager
	stagingRepo   StagingRepository
	candidateRepo CandidateRepository
	accountRepo   AccountRepository
	idGen         IDGenerator
	retrier       Retrier
}

// NewTrialUseCase creates a new TrialUseCase.
func NewTrialUseCase(
	txManager TransactionManager,
	stagingRepo StagingRepository,
	candidateRepo CandidateRepository,
	accountRepo AccountRepository,
	idGen IDGenerator,
) *TrialUseCase {
	return &TrialUseCase{
		txManager:     txManager,
		stagingRepo:   stagingRepo,
		candidateRepo: candidateRepo,
		accountRepo:   accountRepo,
		idGen:         idGen,
	}
}

// WithRetrier enables transient-error retries on the build loop.
func (uc *TrialUseCase) WithRetrier(retrier Retrier) *TrialUseCase {
	uc.retrier = retrier
	return uc
}

// BuildResult reports a trial build batch.
type BuildResult struct {
	Created int
	Skipped int
}

// BuildTrialEntries expands each categorized staged transaction in the
// window into one balanced two-line candidate entry. Rows still carrying
// the sentinel code are counted as skipped, never built. Re-running is
// safe: the existence check and insert run inside one transaction, with a
// unique constraint on the staging link as the race backstop.
func (uc *TrialUseCase) BuildTrialEntries(ctx context.Context, filter StagingFilter) (BuildResult, error) {
	staged, unassigned, err := uc.stagingRepo.ListBuildable(ctx, filter)
	if err != nil {
		return BuildResult{}, err
	}

	result := BuildResult{Skipped: unassigned}

	for _, row := range staged {
		created, err := uc.buildOne(ctx, row)
		if err != nil {
			return result, fmt.Errorf("staged transaction %s: %w", row.ID, err)
		}

		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

func (uc *TrialUseCase) buildOne(ctx context.Context, staged *domain.StagedTransaction) (bool, error) {
	var created bool

	op := func() error {
		created = false

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// At-most-one candidate per staged row.
		exists, err := uc.candidateRepo.ExistsForStaging(ctx, tx, staged.ID)
		if err != nil {
			return err
		}

		if exists {
			return tx.Commit(ctx)
		}

		entry := uc.expand(staged)

		if err := uc.candidateRepo.Create(ctx, tx, entry); err != nil {
			// A concurrent builder won the race after the existence
			// check; the row already has its candidate.
			if errors.Is(err, domain.ErrCandidateExists) {
				return nil
			}

			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		created = true

		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}

	return created, err
}

// expand applies the sign convention: outflows debit the assigned account
// and credit the source bank account; inflows debit the source bank
// account and credit the assigned account.
func (uc *TrialUseCase) expand(staged *domain.StagedTransaction) *domain.CandidateEntry {
	now := time.Now().UTC()
	amount := staged.Amount.Abs()

	entry := &domain.CandidateEntry{
		ID:          uc.idGen.Generate(),
		EntryDate:   staged.TransactionDate,
		Description: staged.Description,
		Entity:      staged.Entity,
		StagingID:   staged.ID,
		Status:      domain.CandidateStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	debitAccount := staged.AccountCode
	creditAccount := staged.SourceAccountCode
	if !staged.IsOutflow() {
		debitAccount = staged.SourceAccountCode
		creditAccount = staged.AccountCode
	}

	entry.Lines = []domain.CandidateLine{
		{
			ID:          uc.idGen.Generate(),
			EntryID:     entry.ID,
			LineNum:     1,
			AccountCode: debitAccount,
			Debit:       amount,
			Entity:      staged.Entity,
			Memo:        staged.Description,
		},
		{
			ID:          uc.idGen.Generate(),
			EntryID:     entry.ID,
			LineNum:     2,
			AccountCode: creditAccount,
			Credit:      amount,
			Entity:      staged.Entity,
			Memo:        staged.Description,
		},
	}

	return entry
}

// ValidateResult reports a validation batch.
type ValidateResult struct {
	Validated int
	Errors    int
}

// ValidateTrialEntries recomputes balance and account validity for every
// pending candidate, and re-checks balanced ones so that account codes
// deactivated since the last run downgrade them. Posted entries are never
// touched.
func (uc *TrialUseCase) ValidateTrialEntries(ctx context.Context) (ValidateResult, error) {
	var result ValidateResult

	var entries []*domain.CandidateEntry
	for _, status := range []domain.CandidateStatus{domain.CandidateStatusPending, domain.CandidateStatusBalanced} {
		batch, err := uc.candidateRepo.ListByStatus(ctx, status, "", 0, 0)
		if err != nil {
			return result, err
		}
		entries = append(entries, batch...)
	}

	for _, entry := range entries {
		validated, err := uc.validateOne(ctx, entry)
		if err != nil {
			return result, fmt.Errorf("candidate entry %s: %w", entry.ID, err)
		}

		if validated {
			result.Validated++
		} else {
			result.Errors++
		}
	}

	return result, nil
}

func (uc *TrialUseCase) validateOne(ctx context.Context, entry *domain.CandidateEntry) (bool, error) {
	if entry.IsPosted() {
		return false, domain.ErrCandidatePosted
	}

	now := time.Now().UTC()

	detail, err := uc.checkAccounts(ctx, entry)
	if err != nil {
		return false, err
	}

	if detail != "" {
		err := uc.candidateRepo.SetStatus(ctx, entry.ID, domain.CandidateStatusError, detail, now)
		return false, err
	}

	if !entry.IsBalanced() {
		detail := fmt.Sprintf("entry is out of balance by %s (debit %s, credit %s)",
			entry.Imbalance(), entry.TotalDebit(), entry.TotalCredit())
		err := uc.candidateRepo.SetStatus(ctx, entry.ID, domain.CandidateStatusError, detail, now)
		return false, err
	}

	if err := uc.candidateRepo.SetStatus(ctx, entry.ID, domain.CandidateStatusBalanced, "", now); err != nil {
		return false, err
	}

	return true, nil
}

// Summarize counts candidate entries per status, scoped to the entity
// when one is given.
func (uc *TrialUseCase) Summarize(ctx context.Context, entity string) (*domain.TrialSummary, error) {
	counts, err := uc.candidateRepo.CountByStatus(ctx, entity)
	if err != nil {
		return nil, err
	}

	return &domain.TrialSummary{
		Pending:  counts[domain.CandidateStatusPending],
		Balanced: counts[domain.CandidateStatusBalanced],
		Errored:  counts[domain.CandidateStatusError],
		Posted:   counts[domain.CandidateStatusPosted],
	}, nil
}

// checkAccounts returns a human-readable detail naming the first invalid
// account code, or empty when all line accounts exist and are active. A
// failed lookup is an infrastructure error, not a data-quality finding.
func (uc *TrialUseCase) checkAccounts(ctx context.Context, entry *domain.CandidateEntry) (string, error) {
	codes := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		codes = append(codes, line.AccountCode)
	}

	accounts, err := uc.accountRepo.GetByCodes(ctx, codes)
	if err != nil {
		return "", fmt.Errorf("account lookup: %w", err)
	}

	for _, line := range entry.Lines {
		account, ok := accounts[line.AccountCode]
		if !ok {
			return fmt.Sprintf("account code %q does not exist", line.AccountCode), nil
		}

		if !account.IsActive() {
			return fmt.Sprintf("account code %q is inactive", line.AccountCode), nil
		}
	}

	return "", nil
}
