package domain

import (
	"testing"
)

func TestEntityScope_Covers(t *testing.T) {
	tests := []struct {
		name   string
		scope  EntityScope
		entity string
		covers bool
	}{
		{"wildcard covers anything", ScopeAny(), "biz", true},
		{"specific covers its entity", ScopeFor("biz"), "biz", true},
		{"specific rejects other entity", ScopeFor("biz"), "per", false},
		{"empty entity collapses to wildcard", ScopeFor(""), "per", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Covers(tt.entity); got != tt.covers {
				t.Errorf("Covers(%q) = %v, want %v", tt.entity, got, tt.covers)
			}
		})
	}
}

func TestPatternRule_Matches(t *testing.T) {
	tests := []struct {
		name        string
		matchText   string
		description string
		matches     bool
	}{
		{"exact substring", "SAFEWAY", "SAFEWAY #1234 SEATTLE", true},
		{"case insensitive", "safeway", "POS DEBIT Safeway Store", true},
		{"no occurrence", "COSTCO", "SAFEWAY #1234", false},
		{"empty match text never matches", "", "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &PatternRule{MatchText: tt.matchText}

			if got := rule.Matches(tt.description); got != tt.matches {
				t.Errorf("Matches(%q) = %v, want %v", tt.description, got, tt.matches)
			}
		})
	}
}
