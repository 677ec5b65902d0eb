package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline collectors. Staging, trial, and journal handlers record the
// outcome of each batch here.
var (
	TransactionsStaged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookledger_transactions_staged_total",
		Help: "Total number of bank transactions staged",
	})

	AccountsAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookledger_accounts_assigned_total",
			Help: "Total account assignments on staged transactions by method",
		},
		[]string{"method"},
	)

	TrialEntriesBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookledger_trial_entries_built_total",
		Help: "Total candidate entries built from staging",
	})

	TrialEntriesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookledger_trial_entries_skipped_total",
		Help: "Total staged rows skipped during trial builds",
	})

	TrialValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookledger_trial_validation_errors_total",
		Help: "Total candidate entries demoted to error during validation",
	})

	TransferPairsMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookledger_transfer_pairs_matched_total",
		Help: "Total transfer candidate pairs matched",
	})

	JournalEntriesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookledger_journal_entries_posted_total",
		Help: "Total entries posted to the journal",
	})

	JournalEntriesReversed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookledger_journal_entries_reversed_total",
		Help: "Total journal entries reversed",
	})
)
