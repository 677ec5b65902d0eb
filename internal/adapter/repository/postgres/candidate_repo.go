package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// CandidateRepository implements usecase.CandidateRepository.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

const candidateColumns = `id, entry_date, description, entity, staging_id,
	matched_entry_id, status, error_detail, created_at, updated_at`

const candidateLineColumns = `id, entry_id, line_num, account_code, debit, credit, entity, memo`

// Create inserts a candidate entry with its lines. The unique constraint
// on staging_id backs the at-most-one-candidate-per-row rule.
func (r *CandidateRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.CandidateEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO trial_entry (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		timeToPgTimestamptz(entry.EntryDate),
		entry.Description,
		entry.Entity,
		entry.StagingID,
		entry.MatchedEntryID,
		entry.Status,
		entry.ErrorDetail,
		timeToPgTimestamptz(entry.CreatedAt),
		timeToPgTimestamptz(entry.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCandidateExists
		}

		return err
	}

	lineQuery := `
		INSERT INTO trial_line (` + candidateLineColumns + `)
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

// GetByID retrieves a candidate entry with its lines.
func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*domain.CandidateEntry, error) {
	query := `SELECT ` + candidateColumns + ` FROM trial_entry WHERE id = $1`

	entry, err := scanCandidate(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}

		return nil, err
	}

	if err := r.loadLines(ctx, r.pool, []*domain.CandidateEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetByIDForUpdate retrieves a candidate entry with a FOR UPDATE lock on
// its header row.
func (r *CandidateRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CandidateEntry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + candidateColumns + ` FROM trial_entry WHERE id = $1 FOR UPDATE`

	entry, err := scanCandidate(pgxTx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}

		return nil, err
	}

	if err := r.loadLines(ctx, pgxTx, []*domain.CandidateEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// ExistsForStaging reports whether any candidate references the staged row.
func (r *CandidateRepository) ExistsForStaging(ctx context.Context, tx usecase.Transaction, stagingID string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var exists bool
	err := pgxTx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trial_entry WHERE staging_id = $1)`, stagingID,
	).Scan(&exists)

	return exists, err
}

// ListByStatus retrieves candidates in a status, oldest first.
func (r *CandidateRepository) ListByStatus(ctx context.Context, status domain.CandidateStatus, entity string, limit, offset int) ([]*domain.CandidateEntry, error) {
	query := `SELECT ` + candidateColumns + ` FROM trial_entry WHERE status = $1`
	args := []any{status}

	if entity != "" {
		args = append(args, entity)
		query += fmt.Sprintf(` AND entity = $%d`, len(args))
	}

	query += ` ORDER BY created_at, id`

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	return r.queryEntries(ctx, query, args)
}

// ListUnmatchedTransfers retrieves unposted candidates without a
// counterpart link that touch a transfer-typed account, oldest first.
func (r *CandidateRepository) ListUnmatchedTransfers(ctx context.Context, entity string) ([]*domain.CandidateEntry, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM trial_entry
		WHERE matched_entry_id IS NULL
		  AND status != $1
		  AND EXISTS (
			SELECT 1
			FROM trial_line
			JOIN account ON account.code = trial_line.account_code
			WHERE trial_line.entry_id = trial_entry.id
			  AND account.type = $2
		  )
	`
	args := []any{domain.CandidateStatusPosted, domain.AccountTypeTransfer}

	if entity != "" {
		args = append(args, entity)
		query += fmt.Sprintf(` AND entity = $%d`, len(args))
	}

	query += ` ORDER BY created_at, id`

	return r.queryEntries(ctx, query, args)
}

// SetStatus updates status and error detail outside a transaction.
func (r *CandidateRepository) SetStatus(ctx context.Context, id string, status domain.CandidateStatus, errorDetail string, updatedAt time.Time) error {
	return r.setStatus(ctx, r.pool, id, status, errorDetail, updatedAt)
}

// SetStatusTx updates status and error detail inside a transaction.
func (r *CandidateRepository) SetStatusTx(ctx context.Context, tx usecase.Transaction, id string, status domain.CandidateStatus, errorDetail string, updatedAt time.Time) error {
	return r.setStatus(ctx, tx.(*Tx).PgxTx(), id, status, errorDetail, updatedAt)
}

// LinkCounterparts sets both transfer links symmetrically. Rows already
// linked or posted are not eligible; touching fewer than two rows means a
// concurrent matcher won, and the link must not half-apply.
func (r *CandidateRepository) LinkCounterparts(ctx context.Context, tx usecase.Transaction, firstID, secondID string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE trial_entry
		SET matched_entry_id = CASE id WHEN $1 THEN $2 ELSE $1 END,
		    updated_at = $3
		WHERE id IN ($1, $2)
		  AND matched_entry_id IS NULL
		  AND status != $4
	`

	tag, err := pgxTx.Exec(ctx, query, firstID, secondID, timeToPgTimestamptz(updatedAt), domain.CandidateStatusPosted)
	if err != nil {
		return err
	}

	if tag.RowsAffected() != 2 {
		return domain.ErrTransferLinked
	}

	return nil
}

// CountByStatus counts candidate entries per status, optionally scoped to
// one entity.
func (r *CandidateRepository) CountByStatus(ctx context.Context, entity string) (map[domain.CandidateStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM trial_entry`
	var args []any

	if entity != "" {
		args = append(args, entity)
		query += ` WHERE entity = $1`
	}

	query += ` GROUP BY status`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.CandidateStatus]int)
	for rows.Next() {
		var status domain.CandidateStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		counts[status] = count
	}

	return counts, rows.Err()
}

func (r *CandidateRepository) setStatus(ctx context.Context, q pgxExecutor, id string, status domain.CandidateStatus, errorDetail string, updatedAt time.Time) error {
	query := `
		UPDATE trial_entry
		SET status = $2, error_detail = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, status, errorDetail, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCandidateNotFound
	}

	return nil
}

func (r *CandidateRepository) queryEntries(ctx context.Context, query string, args []any) ([]*domain.CandidateEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CandidateEntry
	for rows.Next() {
		entry, err := scanCandidate(rows)
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

func scanCandidate(row pgx.Row) (*domain.CandidateEntry, error) {
	var entry domain.CandidateEntry
	var entryDate, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&entry.ID,
		&entryDate,
		&entry.Description,
		&entry.Entity,
		&entry.StagingID,
		&entry.MatchedEntryID,
		&entry.Status,
		&entry.ErrorDetail,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.EntryDate = entryDate.Time
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}

// pgxExecutor and pgxQueryRunner are satisfied by both *pgxpool.Pool and
// pgx.Tx, so repository internals run inside or outside a transaction.
type pgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type pgxQueryRunner interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// loadLines attaches lines to entries in one query per batch.
func (r *CandidateRepository) loadLines(ctx context.Context, q pgxQueryRunner, entries []*domain.CandidateEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, 0, len(entries))
	byID := make(map[string]*domain.CandidateEntry, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
		byID[entry.ID] = entry
	}

	query := `
		SELECT ` + candidateLineColumns + `
		FROM trial_line
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_num
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CandidateLine
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
