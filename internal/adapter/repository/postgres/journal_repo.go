package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. Journal rows are
// append-only; the only UPDATE allowed is setting the reversal back-link.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

const journalColumns = `id, entry_date, description, entity, candidate_id,
	posted_at, posted_by, reversal_of_id, reversed_by_id`

const journalLineColumns = `id, entry_id, line_num, account_code, debit, credit, entity, memo`

// Create inserts a journal entry with its lines. candidate_id is NULL for
// reversal entries; its unique constraint backs at-most-once posting.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO journal_entry (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		timeToPgTimestamptz(entry.EntryDate),
		entry.Description,
		entry.Entity,
		nullString(entry.CandidateID),
		timeToPgTimestamptz(entry.PostedAt),
		entry.PostedBy,
		entry.ReversalOfID,
		entry.ReversedByID,
	)
	if err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO journal_line (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, line := range entry.Lines {
		_, err := pgxTx.Exec(ctx, lineQuery,
			line.ID,
			line.EntryID,
			line.LineNum,
			line.AccountCode,
			decimalToNumeric(line.Debit),
			decimalToNumeric(line.Credit),
			line.Entity,
			line.Memo,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a journal entry with its lines.
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entry WHERE id = $1`

	entry, err := scanJournal(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	if err := r.loadLines(ctx, r.pool, []*domain.LedgerEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetByIDForUpdate retrieves a journal entry with a FOR UPDATE lock on its
// header row, serializing concurrent reversal attempts.
func (r *LedgerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + journalColumns + ` FROM journal_entry WHERE id = $1 FOR UPDATE`

	entry, err := scanJournal(pgxTx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	if err := r.loadLines(ctx, pgxTx, []*domain.LedgerEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// ExistsForCandidate reports whether any journal entry references the
// candidate.
func (r *LedgerRepository) ExistsForCandidate(ctx context.Context, tx usecase.Transaction, candidateID string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var exists bool
	err := pgxTx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM journal_entry WHERE candidate_id = $1)`, candidateID,
	).Scan(&exists)

	return exists, err
}

// List retrieves journal entries matching the filter, newest first.
func (r *LedgerRepository) List(ctx context.Context, filter usecase.LedgerFilter) ([]*domain.LedgerEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entry`
	var args []any
	var conds []string

	if filter.Entity != "" {
		args = append(args, filter.Entity)
		conds = append(conds, fmt.Sprintf("entity = $%d", len(args)))
	}

	if filter.DateFrom != nil {
		args = append(args, timeToPgTimestamptz(*filter.DateFrom))
		conds = append(conds, fmt.Sprintf("entry_date >= $%d", len(args)))
	}

	if filter.DateTo != nil {
		args = append(args, timeToPgTimestamptz(*filter.DateTo))
		conds = append(conds, fmt.Sprintf("entry_date <= $%d", len(args)))
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += ` ORDER BY entry_date DESC, id DESC`

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

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, r.pool, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// SetReversedBy links an entry to its reversal. A row that already
// carries a link is left untouched and reported as already reversed.
func (r *LedgerRepository) SetReversedBy(ctx context.Context, tx usecase.Transaction, id, reversedByID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE journal_entry
		SET reversed_by_id = $2
		WHERE id = $1 AND reversed_by_id IS NULL
	`

	tag, err := pgxTx.Exec(ctx, query, id, reversedByID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyReversed
	}

	return nil
}

// AccountBalance computes sum(debit) - sum(credit) over the account's
// journal lines.
func (r *LedgerRepository) AccountBalance(ctx context.Context, accountCode string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit - credit), 0)
		FROM journal_line
		WHERE account_code = $1
	`

	var balance pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, accountCode).Scan(&balance); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

func scanJournal(row pgx.Row) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	var entryDate, postedAt pgtype.Timestamptz
	var candidateID *string

	err := row.Scan(
		&entry.ID,
		&entryDate,
		&entry.Description,
		&entry.Entity,
		&candidateID,
		&postedAt,
		&entry.PostedBy,
		&entry.ReversalOfID,
		&entry.ReversedByID,
	)
	if err != nil {
		return nil, err
	}

	if candidateID != nil {
		entry.CandidateID = *candidateID
	}

	entry.EntryDate = entryDate.Time
	entry.PostedAt = postedAt.Time

	return &entry, nil
}

// loadLines attaches lines to entries in one query per batch.
func (r *LedgerRepository) loadLines(ctx context.Context, q pgxQueryRunner, entries []*domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, 0, len(entries))
	byID := make(map[string]*domain.LedgerEntry, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
		byID[entry.ID] = entry
	}

	query := `
		SELECT ` + journalLineColumns + `
		FROM journal_line
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_num
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.LedgerLine
		var debit, credit pgtype.Numeric

		err := rows.Scan(
			&line.ID,
			&line.EntryID,
			&line.LineNum,
			&line.AccountCode,
			&debit,
			&credit,
			&line.Entity,
			&line.Memo,
		)
		if err != nil {
			return err
		}

		line.Debit = numericToDecimal(debit)
		line.Credit = numericToDecimal(credit)

		if entry, ok := byID[line.EntryID]; ok {
			entry.Lines = append(entry.Lines, line)
		}
	}

	return rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
