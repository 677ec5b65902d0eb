package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntityScope says which entities a pattern rule applies to: one specific
// entity, or any entity. The zero value is the any-entity scope.
type EntityScope struct {
	entity   string
	specific bool
}

// ScopeAny returns the wildcard scope.
func ScopeAny() EntityScope {
	return EntityScope{}
}

// ScopeFor returns a scope bound to one entity. An empty entity collapses
// to the wildcard.
func ScopeFor(entity string) EntityScope {
	if entity == "" {
		return ScopeAny()
	}

	return EntityScope{entity: entity, specific: true}
}

// IsAny reports whether the scope is the wildcard.
func (s EntityScope) IsAny() bool {
	return !s.specific
}

// Entity returns the bound entity and whether the scope is specific.
func (s EntityScope) Entity() (string, bool) {
	return s.entity, s.specific
}

// Covers reports whether the scope makes a rule eligible for the entity.
func (s EntityScope) Covers(entity string) bool {
	return !s.specific || s.entity == entity
}

// PatternRule maps a description substring to an account code. Rules are
// read-only input to the matcher; precedence is priority descending with
// creation order breaking ties.
type PatternRule struct {
	ID          string
	MatchText   string
	AccountCode string
	Scope       EntityScope
	Priority    int
	Confidence  decimal.Decimal
	Active      bool
	CreatedAt   time.Time
}

// Matches reports whether the rule's text occurs in the description,
// case-insensitively.
func (r *PatternRule) Matches(description string) bool {
	if r.MatchText == "" {
		return false
	}

	return strings.Contains(strings.ToLower(description), strings.ToLower(r.MatchText))
}
