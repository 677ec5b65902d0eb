package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
	"github.com/iho/bookledger/tests/testutil"
)

func TestReverseEntry(t *testing.T) {
	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	testDB.CreateTestAccount(ctx, "1000", "Business Checking", domain.AccountTypeAsset)
	testDB.CreateTestAccount(ctx, "6200", "Office Supplies", domain.AccountTypeExpense)

	p := newPipeline(testDB)

	staged := p.stage(t, ctx, "1000", "STAPLES STORE 114", "-50.00", "acme")
	if _, err := p.stagingUC.AssignAccount(ctx, staged.ID, "6200"); err != nil {
		t.Fatalf("failed to assign account: %v", err)
	}

	if _, err := p.trialUC.BuildTrialEntries(ctx, usecase.StagingFilter{Entity: "acme"}); err != nil {
		t.Fatalf("failed to build trial entries: %v", err)
	}
	if _, err := p.trialUC.ValidateTrialEntries(ctx); err != nil {
		t.Fatalf("failed to validate trial entries: %v", err)
	}
	if _, err := p.journalUC.PostToJournal(ctx, "acme", "jane"); err != nil {
		t.Fatalf("failed to post to journal: %v", err)
	}

	entries, err := p.journalUC.ListEntries(ctx, usecase.LedgerFilter{Entity: "acme"})
	if err != nil {
		t.Fatalf("failed to list journal entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	originalID := entries[0].ID

	reversalID, err := p.journalUC.ReverseEntry(ctx, originalID, "wrong account", "jane")
	if err != nil {
		t.Fatalf("failed to reverse entry: %v", err)
	}

	original, err := p.journalUC.GetEntry(ctx, originalID)
	if err != nil {
		t.Fatalf("failed to load original entry: %v", err)
	}
	if original.ReversedByID == nil || *original.ReversedByID != reversalID {
		t.Errorf("expected original to link reversal %s, got %v", reversalID, original.ReversedByID)
	}

	reversal, err := p.journalUC.GetEntry(ctx, reversalID)
	if err != nil {
		t.Fatalf("failed to load reversal entry: %v", err)
	}
	if reversal.ReversalOfID == nil || *reversal.ReversalOfID != originalID {
		t.Errorf("expected reversal to link original %s, got %v", originalID, reversal.ReversalOfID)
	}
	if reversal.CandidateID != "" {
		t.Errorf("expected reversal to have no candidate link, got %s", reversal.CandidateID)
	}
	if len(reversal.Lines) != len(original.Lines) {
		t.Fatalf("expected %d reversal lines, got %d", len(original.Lines), len(reversal.Lines))
	}

	// Debit and credit must be swapped line for line.
	for i, line := range reversal.Lines {
		orig := original.Lines[i]
		if line.AccountCode != orig.AccountCode {
			t.Errorf("line %d: expected account %s, got %s", i, orig.AccountCode, line.AccountCode)
		}
		if !line.Debit.Equal(orig.Credit) || !line.Credit.Equal(orig.Debit) {
			t.Errorf("line %d: expected swapped sides, got debit=%s credit=%s", i, line.Debit, line.Credit)
		}
	}

	for _, code := range []string{"1000", "6200"} {
		balance, err := p.journalUC.AccountBalance(ctx, code)
		if err != nil {
			t.Fatalf("failed to compute balance: %v", err)
		}
		if !balance.Equal(decimal.Zero) {
			t.Errorf("expected account %s to net to zero after reversal, got %s", code, balance)
		}
	}
}

func TestReverseEntryTwiceFails(t *testing.T) {
	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	testDB.CreateTestAccount(ctx, "1000", "Business Checking", domain.AccountTypeAsset)
	testDB.CreateTestAccount(ctx, "6200", "Office Supplies", domain.AccountTypeExpense)

	p := newPipeline(testDB)

	staged := p.stage(t, ctx, "1000", "STAPLES STORE 114", "-50.00", "acme")
	if _, err := p.stagingUC.AssignAccount(ctx, staged.ID, "6200"); err != nil {
		t.Fatalf("failed to assign account: %v", err)
	}
	if _, err := p.trialUC.BuildTrialEntries(ctx, usecase.StagingFilter{Entity: "acme"}); err != nil {
		t.Fatalf("failed to build trial entries: %v", err)
	}
	if _, err := p.trialUC.ValidateTrialEntries(ctx); err != nil {
		t.Fatalf("failed to validate trial entries: %v", err)
	}
	if _, err := p.journalUC.PostToJournal(ctx, "acme", "jane"); err != nil {
		t.Fatalf("failed to post to journal: %v", err)
	}

	entries, err := p.journalUC.ListEntries(ctx, usecase.LedgerFilter{Entity: "acme"})
	if err != nil {
		t.Fatalf("failed to list journal entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}

	if _, err := p.journalUC.ReverseEntry(ctx, entries[0].ID, "wrong account", "jane"); err != nil {
		t.Fatalf("failed to reverse entry: %v", err)
	}

	_, err = p.journalUC.ReverseEntry(ctx, entries[0].ID, "second attempt", "jane")
	if !errors.Is(err, domain.ErrAlreadyReversed) {
		t.Errorf("expected ErrAlreadyReversed on second reversal, got %v", err)
	}
}
