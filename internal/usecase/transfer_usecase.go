package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
)

// TransferMatchUseCase links candidate entry pairs that record the same
// physical transfer from both sides.
type TransferMatchUseCase struct {
	txManager     TransactionManager
	candidateRepo CandidateRepository
	accountRepo   AccountRepository
}

// NewTransferMatchUseCase creates a new TransferMatchUseCase.
func NewTransferMatchUseCase(
	txManager TransactionManager,
	candidateRepo CandidateRepository,
	accountRepo AccountRepository,
) *TransferMatchUseCase {
	return &TransferMatchUseCase{
		txManager:     txManager,
		candidateRepo: candidateRepo,
		accountRepo:   accountRepo,
	}
}

// MatchPairsResult reports a transfer matching batch.
type MatchPairsResult struct {
	MatchedPairs int
}

// transferLeg is the side of a candidate entry that hits a transfer
// account: positive for a debit leg, negative for a credit leg.
type transferLeg struct {
	entry       *domain.CandidateEntry
	amount      decimal.Decimal
	bankAccount string
}

// MatchTransferPairs pairs unposted transfer-tagged candidates in the same
// entity whose dates lie within the tolerance window and whose transfer-leg
// amounts negate each other. Each pair is linked symmetrically inside one
// transaction; candidates are consumed oldest first, and ambiguous matches
// resolve to the earliest-created counterpart.
func (uc *TransferMatchUseCase) MatchTransferPairs(ctx context.Context, entity string) (MatchPairsResult, error) {
	entries, err := uc.candidateRepo.ListUnmatchedTransfers(ctx, entity)
	if err != nil {
		return MatchPairsResult{}, err
	}

	legs := make([]*transferLeg, 0, len(entries))

	for _, entry := range entries {
		leg, err := uc.transferLegOf(ctx, entry)
		if err != nil {
			return MatchPairsResult{}, fmt.Errorf("candidate entry %s: %w", entry.ID, err)
		}

		if leg != nil {
			legs = append(legs, leg)
		}
	}

	var result MatchPairsResult
	paired := make(map[string]bool)

	for i, leg := range legs {
		if paired[leg.entry.ID] {
			continue
		}

		counterpart := uc.findCounterpart(legs[i+1:], leg, paired)
		if counterpart == nil {
			continue
		}

		err := uc.link(ctx, leg.entry.ID, counterpart.entry.ID)
		if err != nil {
			// A concurrent matcher claimed one of the legs between
			// listing and linking; leave the pair for the next run.
			if errors.Is(err, domain.ErrTransferLinked) {
				paired[leg.entry.ID] = true
				paired[counterpart.entry.ID] = true
				continue
			}

			return result, err
		}

		paired[leg.entry.ID] = true
		paired[counterpart.entry.ID] = true
		result.MatchedPairs++
	}

	return result, nil
}

// transferLegOf extracts the transfer-account line of an entry, or nil when
// the entry is not transfer-tagged.
func (uc *TransferMatchUseCase) transferLegOf(ctx context.Context, entry *domain.CandidateEntry) (*transferLeg, error) {
	codes := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		codes = append(codes, line.AccountCode)
	}

	accounts, err := uc.accountRepo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	leg := &transferLeg{entry: entry}
	tagged := false

	for _, line := range entry.Lines {
		account, ok := accounts[line.AccountCode]
		if ok && account.IsTransfer() {
			tagged = true
			leg.amount = line.Debit.Sub(line.Credit)
		} else {
			leg.bankAccount = line.AccountCode
		}
	}

	if !tagged {
		return nil, nil
	}

	return leg, nil
}

// findCounterpart picks the earliest-created unpaired leg in the same
// entity whose transfer amount is the exact negation, dated within the
// tolerance window, on a different bank account.
func (uc *TransferMatchUseCase) findCounterpart(candidates []*transferLeg, leg *transferLeg, paired map[string]bool) *transferLeg {
	for _, other := range candidates {
		if paired[other.entry.ID] || other.entry.ID == leg.entry.ID {
			continue
		}

		if other.entry.Entity != leg.entry.Entity {
			continue
		}

		// Same-account transfers must not self-match.
		if other.bankAccount == leg.bankAccount {
			continue
		}

		if !other.amount.Equal(leg.amount.Neg()) {
			continue
		}

		if !withinTolerance(leg.entry.EntryDate, other.entry.EntryDate) {
			continue
		}

		return other
	}

	return nil
}

func withinTolerance(a, b time.Time) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}

	return diff <= TransferDateTolerance
}

// link sets both counterpart links in a single atomic step.
func (uc *TransferMatchUseCase) link(ctx context.Context, firstID, secondID string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	if err := uc.candidateRepo.LinkCounterparts(ctx, tx, firstID, secondID, now); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
