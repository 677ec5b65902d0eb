package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// StagingRepository implements usecase.StagingRepository.
type StagingRepository struct {
	pool *pgxpool.Pool
}

// NewStagingRepository creates a new StagingRepository.
func NewStagingRepository(pool *pgxpool.Pool) *StagingRepository {
	return &StagingRepository{pool: pool}
}

const stagingColumns = `id, source_account_code, transaction_date, description, amount,
	entity, account_code, assign_method, match_confidence, reconciled, created_at, updated_at`

// Create stages an imported bank transaction.
func (r *StagingRepository) Create(ctx context.Context, staged *domain.StagedTransaction) error {
	query := `
		INSERT INTO bank_staging (` + stagingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		staged.ID,
		staged.SourceAccountCode,
		timeToPgTimestamptz(staged.TransactionDate),
		staged.Description,
		decimalToNumeric(staged.Amount),
		staged.Entity,
		staged.AccountCode,
		staged.AssignMethod,
		decimalToNumeric(staged.MatchConfidence),
		staged.Reconciled,
		timeToPgTimestamptz(staged.CreatedAt),
		timeToPgTimestamptz(staged.UpdatedAt),
	)

	return err
}

// GetByID retrieves a staged transaction by ID.
func (r *StagingRepository) GetByID(ctx context.Context, id string) (*domain.StagedTransaction, error) {
	query := `SELECT ` + stagingColumns + ` FROM bank_staging WHERE id = $1`

	staged, err := scanStaged(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStagingNotFound
		}

		return nil, err
	}

	return staged, nil
}

// List retrieves staged transactions matching the filter, newest first.
func (r *StagingRepository) List(ctx context.Context, filter usecase.StagingFilter) ([]*domain.StagedTransaction, error) {
	query := `SELECT ` + stagingColumns + ` FROM bank_staging`
	where, args := stagingWhere(filter)
	query += where + ` ORDER BY transaction_date DESC, id DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStaged(rows)
}

// ListBuildable retrieves assigned, unreconciled rows without a candidate
// entry, oldest first, plus the count of rows the sentinel code excludes
// from the same window.
func (r *StagingRepository) ListBuildable(ctx context.Context, filter usecase.StagingFilter) ([]*domain.StagedTransaction, int, error) {
	where, args := stagingWhere(filter)

	countQuery := `SELECT COUNT(*) FROM bank_staging` + andWhere(where, `account_code = $%d`)
	countArgs := append(append([]any{}, args...), domain.UnassignedCode)

	var unassigned int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(countQuery, len(countArgs)), countArgs...).Scan(&unassigned); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + stagingColumns + ` FROM bank_staging` +
		andWhere(where, `account_code != $%d AND NOT reconciled
			AND NOT EXISTS (SELECT 1 FROM trial_entry WHERE trial_entry.staging_id = bank_staging.id)`) +
		` ORDER BY transaction_date, id`
	listArgs := append(append([]any{}, args...), domain.UnassignedCode)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(listQuery, len(listArgs)), listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	staged, err := collectStaged(rows)

	return staged, unassigned, err
}

// UpdateAssignment records a categorization decision on a staged row.
func (r *StagingRepository) UpdateAssignment(ctx context.Context, id, accountCode string, method domain.AssignMethod, confidence decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE bank_staging
		SET account_code = $2, assign_method = $3, match_confidence = $4, updated_at = $5
		WHERE id = $1 AND NOT reconciled
	`

	tag, err := r.pool.Exec(ctx, query,
		id, accountCode, method, decimalToNumeric(confidence), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrStagingNotFound
	}

	return nil
}

// MarkReconciled freezes a staged row once its entry reaches the journal.
func (r *StagingRepository) MarkReconciled(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE bank_staging SET reconciled = TRUE, updated_at = $2 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrStagingNotFound
	}

	return nil
}

// Summarize counts staged rows by categorization outcome, optionally
// scoped to one entity.
func (r *StagingRepository) Summarize(ctx context.Context, entity string) (*domain.StagingSummary, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE account_code = $1),
			COUNT(*) FILTER (WHERE assign_method = $2),
			COUNT(*) FILTER (WHERE assign_method = $3),
			COUNT(*) FILTER (WHERE reconciled)
		FROM bank_staging
	`
	args := []any{domain.UnassignedCode, domain.AssignMethodPattern, domain.AssignMethodManual}

	if entity != "" {
		args = append(args, entity)
		query += fmt.Sprintf(` WHERE entity = $%d`, len(args))
	}

	var summary domain.StagingSummary
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&summary.Total,
		&summary.Unassigned,
		&summary.PatternAssigned,
		&summary.ManualAssigned,
		&summary.Reconciled,
	)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// stagingWhere renders the shared filter conditions with positional args.
func stagingWhere(filter usecase.StagingFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Entity != "" {
		args = append(args, filter.Entity)
		conds = append(conds, fmt.Sprintf("entity = $%d", len(args)))
	}

	if filter.DateFrom != nil {
		args = append(args, timeToPgTimestamptz(*filter.DateFrom))
		conds = append(conds, fmt.Sprintf("transaction_date >= $%d", len(args)))
	}

	if filter.DateTo != nil {
		args = append(args, timeToPgTimestamptz(*filter.DateTo))
		conds = append(conds, fmt.Sprintf("transaction_date <= $%d", len(args)))
	}

	if filter.Unassigned {
		args = append(args, domain.UnassignedCode)
		conds = append(conds, fmt.Sprintf("account_code = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}

	where := " WHERE " + conds[0]
	for _, cond := range conds[1:] {
		where += " AND " + cond
	}

	return where, args
}

// andWhere appends a condition to an optional WHERE clause.
func andWhere(where, cond string) string {
	if where == "" {
		return " WHERE " + cond
	}

	return where + " AND " + cond
}

func scanStaged(row pgx.Row) (*domain.StagedTransaction, error) {
	var staged domain.StagedTransaction
	var transactionDate, createdAt, updatedAt pgtype.Timestamptz
	var amount, confidence pgtype.Numeric

	err := row.Scan(
		&staged.ID,
		&staged.SourceAccountCode,
		&transactionDate,
		&staged.Description,
		&amount,
		&staged.Entity,
		&staged.AccountCode,
		&staged.AssignMethod,
		&confidence,
		&staged.Reconciled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	staged.TransactionDate = transactionDate.Time
	staged.Amount = numericToDecimal(amount)
	staged.MatchConfidence = numericToDecimal(confidence)
	staged.CreatedAt = createdAt.Time
	staged.UpdatedAt = updatedAt.Time

	return &staged, nil
}

func collectStaged(rows pgx.Rows) ([]*domain.StagedTransaction, error) {
	var staged []*domain.StagedTransaction
	for rows.Next() {
		row, err := scanStaged(rows)
		if err != nil {
			return nil, err
		}

		staged = append(staged, row)
	}

	return staged, rows.Err()
}
