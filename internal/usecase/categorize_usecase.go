package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
)

// CategorizeUseCase maps transaction descriptions to account codes using
// prioritized pattern rules.
type CategorizeUseCase struct {
	ruleRepo PatternRuleRepository
	idGen    IDGenerator
}

// NewCategorizeUseCase creates a new CategorizeUseCase.
func NewCategorizeUseCase(ruleRepo PatternRuleRepository, idGen IDGenerator) *CategorizeUseCase {
	return &CategorizeUseCase{
		ruleRepo: ruleRepo,
		idGen:    idGen,
	}
}

// MatchResult is the outcome of matching one description.
type MatchResult struct {
	AccountCode string
	Confidence  decimal.Decimal
	Method      domain.AssignMethod
	RuleID      string
}

// NoMatch is the result for descriptions no rule covers: the sentinel
// code with zero confidence.
func NoMatch() MatchResult {
	return MatchResult{
		AccountCode: domain.UnassignedCode,
		Confidence:  decimal.Zero,
		Method:      domain.AssignMethodNone,
	}
}

// Match finds the best rule for (description, entity). Eligible rules are
// active ones whose scope covers the entity (specific or wildcard);
// precedence is priority alone, ties broken by creation order, so an
// entity-specific rule does not outrank a wildcard of equal priority.
// Pure read: callers persist the result.
func (uc *CategorizeUseCase) Match(ctx context.Context, description, entity string) (MatchResult, error) {
	rules, err := uc.ruleRepo.ListActiveForEntity(ctx, entity)
	if err != nil {
		return MatchResult{}, err
	}

	// Rules arrive ordered by priority desc, creation order asc; the
	// first textual match wins.
	for _, rule := range rules {
		if rule.Matches(description) {
			return MatchResult{
				AccountCode: rule.AccountCode,
				Confidence:  rule.Confidence,
				Method:      domain.AssignMethodPattern,
				RuleID:      rule.ID,
			}, nil
		}
	}

	return NoMatch(), nil
}

// CreateRuleInput represents input for creating a pattern rule.
type CreateRuleInput struct {
	MatchText   string
	AccountCode string
	Entity      string // empty means any entity
	Priority    int
	Confidence  decimal.Decimal
}

// CreateRule registers a new pattern rule.
func (uc *CategorizeUseCase) CreateRule(ctx context.Context, input CreateRuleInput) (*domain.PatternRule, error) {
	if input.MatchText == "" {
		return nil, domain.ErrInvalidDescription
	}

	if err := domain.ValidateAccountCode(input.AccountCode); err != nil {
		return nil, err
	}

	if input.Entity != "" {
		if err := domain.ValidateEntity(input.Entity); err != nil {
			return nil, err
		}
	}

	confidence := input.Confidence
	if confidence.IsZero() {
		confidence = decimal.NewFromFloat(0.9)
	}

	rule := &domain.PatternRule{
		ID:          uc.idGen.Generate(),
		MatchText:   input.MatchText,
		AccountCode: input.AccountCode,
		Scope:       domain.ScopeFor(input.Entity),
		Priority:    input.Priority,
		Confidence:  confidence,
		Active:      true,
	}

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// ListRules lists pattern rules.
func (uc *CategorizeUseCase) ListRules(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.ruleRepo.List(ctx, limit, offset)
}

// DeactivateRule retires a rule without deleting it.
func (uc *CategorizeUseCase) DeactivateRule(ctx context.Context, id string) error {
	return uc.ruleRepo.SetActive(ctx, id, false)
}
