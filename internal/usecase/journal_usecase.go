package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
)

// JournalUseCase posts balanced candidate entries into the permanent
// ledger and handles reversals, the only correction path for posted data.
type JournalUseCase struct {
	txManager     TransactionManager
	candidateRepo CandidateRepository
	stagingRepo   StagingRepository
	ledgerRepo    LedgerRepository
	auditRepo     AuditRepository
	idGen         IDGenerator
	retrier       Retrier
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(
	txManager TransactionManager,
	candidateRepo CandidateRepository,
	stagingRepo StagingRepository,
	ledgerRepo LedgerRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *JournalUseCase {
	return &JournalUseCase{
		txManager:     txManager,
		candidateRepo: candidateRepo,
		stagingRepo:   stagingRepo,
		ledgerRepo:    ledgerRepo,
		auditRepo:     auditRepo,
		idGen:         idGen,
	}
}

// WithRetrier enables transient-error retries on posting.
func (uc *JournalUseCase) WithRetrier(retrier Retrier) *JournalUseCase {
	uc.retrier = retrier
	return uc
}

// PostResult reports a posting batch.
type PostResult struct {
	Posted  int
	Skipped int
}

// PostToJournal posts every balanced candidate in the entity's working set
// exactly once. Each entry runs in its own transaction: balance is
// re-verified (validation may be stale), the header and lines are copied
// verbatim, the candidate becomes posted, and the staged row is marked
// reconciled. Candidates that fail re-verification or already have a
// journal counterpart are skipped and counted, never fatal.
func (uc *JournalUseCase) PostToJournal(ctx context.Context, entity, postedBy string) (PostResult, error) {
	candidates, err := uc.candidateRepo.ListByStatus(ctx, domain.CandidateStatusBalanced, entity, 0, 0)
	if err != nil {
		return PostResult{}, err
	}

	var result PostResult

	for _, candidate := range candidates {
		posted, err := uc.postOne(ctx, candidate.ID, postedBy)
		if err != nil {
			return result, fmt.Errorf("candidate entry %s: %w", candidate.ID, err)
		}

		if posted {
			result.Posted++
		} else {
			result.Skipped++
		}
	}

	uc.audit(ctx, postedBy, domain.AuditActionJournalPost, "batch", "", domain.JSON{
		"entity":  entity,
		"posted":  result.Posted,
		"skipped": result.Skipped,
	})

	return result, nil
}

func (uc *JournalUseCase) postOne(ctx context.Context, candidateID, postedBy string) (bool, error) {
	var posted bool

	op := func() error {
		posted = false

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		candidate, err := uc.candidateRepo.GetByIDForUpdate(ctx, tx, candidateID)
		if err != nil {
			return err
		}

		// At-most-once: skip when a journal entry already references this
		// candidate or its status moved on since listing.
		if candidate.Status != domain.CandidateStatusBalanced {
			return tx.Commit(ctx)
		}

		exists, err := uc.ledgerRepo.ExistsForCandidate(ctx, tx, candidate.ID)
		if err != nil {
			return err
		}

		if exists {
			return tx.Commit(ctx)
		}

		// Balance may have gone stale since validation; skip for
		// re-validation to catch, not an error.
		if !candidate.IsBalanced() {
			return tx.Commit(ctx)
		}

		now := time.Now().UTC()
		entry := &domain.LedgerEntry{
			ID:          uc.idGen.Generate(),
			EntryDate:   candidate.EntryDate,
			Description: candidate.Description,
			Entity:      candidate.Entity,
			CandidateID: candidate.ID,
			PostedAt:    now,
			PostedBy:    postedBy,
		}

		for _, line := range candidate.Lines {
			entry.Lines = append(entry.Lines, domain.LedgerLine{
				ID:          uc.idGen.Generate(),
				EntryID:     entry.ID,
				LineNum:     line.LineNum,
				AccountCode: line.AccountCode,
				Debit:       line.Debit,
				Credit:      line.Credit,
				Entity:      line.Entity,
				Memo:        line.Memo,
			})
		}

		if err := uc.ledgerRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		err = uc.candidateRepo.SetStatusTx(ctx, tx, candidate.ID, domain.CandidateStatusPosted, "", now)
		if err != nil {
			return err
		}

		if err := uc.stagingRepo.MarkReconciled(ctx, tx, candidate.StagingID, now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		posted = true

		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}

	return posted, err
}

// ReverseEntry creates the debit/credit-swapped counter-entry for a posted
// journal entry and links both ways. An entry may be reversed at most
// once; a second attempt is an error, not a no-op.
func (uc *JournalUseCase) ReverseEntry(ctx context.Context, entryID, reason, actor string) (string, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	original, err := uc.ledgerRepo.GetByIDForUpdate(ctx, tx, entryID)
	if err != nil {
		uc.audit(ctx, actor, domain.AuditActionJournalReverse, "journal_entry", entryID, domain.JSON{
			"reason": reason,
			"error":  err.Error(),
		})

		return "", err
	}

	if original.IsReversed() {
		uc.audit(ctx, actor, domain.AuditActionJournalReverse, "journal_entry", entryID, domain.JSON{
			"reason": reason,
			"error":  domain.ErrAlreadyReversed.Error(),
		})

		return "", domain.ErrAlreadyReversed
	}

	now := time.Now().UTC()
	reversal := &domain.LedgerEntry{
		ID:           uc.idGen.Generate(),
		EntryDate:    now,
		Description:  domain.ReversalDescription(reason, original.Description),
		Entity:       original.Entity,
		PostedAt:     now,
		PostedBy:     actor,
		ReversalOfID: &original.ID,
	}

	for _, line := range original.ReversalLines() {
		line.ID = uc.idGen.Generate()
		line.EntryID = reversal.ID
		reversal.Lines = append(reversal.Lines, line)
	}

	if err := uc.ledgerRepo.Create(ctx, tx, reversal); err != nil {
		return "", err
	}

	if err := uc.ledgerRepo.SetReversedBy(ctx, tx, original.ID, reversal.ID); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	uc.audit(ctx, actor, domain.AuditActionJournalReverse, "journal_entry", entryID, domain.JSON{
		"reason":      reason,
		"reversal_id": reversal.ID,
	})

	return reversal.ID, nil
}

// GetEntry retrieves a journal entry with its lines.
func (uc *JournalUseCase) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return uc.ledgerRepo.GetByID(ctx, id)
}

// ListEntries lists journal entries.
func (uc *JournalUseCase) ListEntries(ctx context.Context, filter LedgerFilter) ([]*domain.LedgerEntry, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.ledgerRepo.List(ctx, filter)
}

// AccountBalance returns sum(debit) - sum(credit) across all journal
// lines for the account. Reversal pairs cancel out of the sum.
func (uc *JournalUseCase) AccountBalance(ctx context.Context, accountCode string) (decimal.Decimal, error) {
	if err := domain.ValidateAccountCode(accountCode); err != nil {
		return decimal.Zero, err
	}

	return uc.ledgerRepo.AccountBalance(ctx, accountCode)
}

// audit records an audit row; audit failures never fail the operation.
func (uc *JournalUseCase) audit(ctx context.Context, actor, action, resourceType, resourceID string, detail domain.JSON) {
	if uc.auditRepo == nil {
		return
	}

	status := string(domain.AuditStatusSuccess)
	errMsg := ""
	if e, ok := detail["error"].(string); ok {
		status = string(domain.AuditStatusError)
		errMsg = e
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
		Status:       status,
		ErrorMessage: errMsg,
		CreatedAt:    time.Now().UTC(),
	})
}
