package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookledger/internal/domain"
)

// PatternRuleRepository implements usecase.PatternRuleRepository. A NULL
// entity column is the wildcard scope.
type PatternRuleRepository struct {
	pool *pgxpool.Pool
}

// NewPatternRuleRepository creates a new PatternRuleRepository.
func NewPatternRuleRepository(pool *pgxpool.Pool) *PatternRuleRepository {
	return &PatternRuleRepository{pool: pool}
}

const patternColumns = `id, match_text, account_code, entity, priority, confidence, active, created_at`

// Create inserts a new pattern rule.
func (r *PatternRuleRepository) Create(ctx context.Context, rule *domain.PatternRule) error {
	query := `
		INSERT INTO pattern_rule (` + patternColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var entity *string
	if e, specific := rule.Scope.Entity(); specific {
		entity = &e
	}

	_, err := r.pool.Exec(ctx, query,
		rule.ID,
		rule.MatchText,
		rule.AccountCode,
		entity,
		rule.Priority,
		decimalToNumeric(rule.Confidence),
		rule.Active,
		timeToPgTimestamptz(rule.CreatedAt),
	)

	return err
}

// ListActiveForEntity retrieves active rules eligible for the entity,
// ordered by priority descending then creation order ascending. The
// matcher relies on this ordering for first-match-wins.
func (r *PatternRuleRepository) ListActiveForEntity(ctx context.Context, entity string) ([]*domain.PatternRule, error) {
	query := `
		SELECT ` + patternColumns + `
		FROM pattern_rule
		WHERE active AND (entity IS NULL OR entity = $1)
		ORDER BY priority DESC, created_at, id
	`

	rows, err := r.pool.Query(ctx, query, entity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRules(rows)
}

// List retrieves rules with pagination, newest first.
func (r *PatternRuleRepository) List(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error) {
	query := `
		SELECT ` + patternColumns + `
		FROM pattern_rule
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRules(rows)
}

// SetActive flips a rule's active flag.
func (r *PatternRuleRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE pattern_rule SET active = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, active)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

func collectRules(rows pgx.Rows) ([]*domain.PatternRule, error) {
	var rules []*domain.PatternRule
	for rows.Next() {
		var rule domain.PatternRule
		var entity *string
		var confidence pgtype.Numeric
		var createdAt pgtype.Timestamptz

		err := rows.Scan(
			&rule.ID,
			&rule.MatchText,
			&rule.AccountCode,
			&entity,
			&rule.Priority,
			&confidence,
			&rule.Active,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		if entity != nil {
			rule.Scope = domain.ScopeFor(*entity)
		} else {
			rule.Scope = domain.ScopeAny()
		}

		rule.Confidence = numericToDecimal(confidence)
		rule.CreatedAt = createdAt.Time

		rules = append(rules, &rule)
	}

	return rules, rows.Err()
}
