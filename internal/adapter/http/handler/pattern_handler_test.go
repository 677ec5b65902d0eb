package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

type patternServiceStub struct {
	createFn     func(ctx context.Context, input usecase.CreateRuleInput) (*domain.PatternRule, error)
	listFn       func(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error)
	deactivateFn func(ctx context.Context, id string) error
}

func (s *patternServiceStub) CreateRule(ctx context.Context, input usecase.CreateRuleInput) (*domain.PatternRule, error) {
	return s.createFn(ctx, input)
}

func (s *patternServiceStub) ListRules(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *patternServiceStub) DeactivateRule(ctx context.Context, id string) error {
	return s.deactivateFn(ctx, id)
}

func newPatternServiceStub() *patternServiceStub {
	return &patternServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateRuleInput) (*domain.PatternRule, error) {
			return nil, nil
		},
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error) {
			return nil, nil
		},
		deactivateFn: func(ctx context.Context, id string) error { return nil },
	}
}

func TestPatternHandler_Create_Success(t *testing.T) {
	rule := &domain.PatternRule{
		ID:          "rule-1",
		MatchText:   "aws",
		AccountCode: "6400:acme",
		Scope:       domain.ScopeFor("acme"),
		Priority:    10,
		Confidence:  decimal.NewFromFloat(0.9),
		Active:      true,
	}

	var captured usecase.CreateRuleInput
	svc := newPatternServiceStub()
	svc.createFn = func(ctx context.Context, input usecase.CreateRuleInput) (*domain.PatternRule, error) {
		captured = input
		return rule, nil
	}
	handler := NewPatternHandler(svc)

	body, _ := json.Marshal(dto.CreateRuleRequest{
		MatchText:   "aws",
		AccountCode: "6400:acme",
		Entity:      "acme",
		Priority:    10,
	})

	req := httptest.NewRequest(http.MethodPost, "/rules", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.MatchText != "aws" || captured.Entity != "acme" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.PatternRuleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "rule-1" || resp.Entity != "acme" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPatternHandler_Create_EmptyMatchText(t *testing.T) {
	svc := newPatternServiceStub()
	svc.createFn = func(ctx context.Context, input usecase.CreateRuleInput) (*domain.PatternRule, error) {
		return nil, domain.ErrInvalidDescription
	}
	handler := NewPatternHandler(svc)

	body, _ := json.Marshal(dto.CreateRuleRequest{AccountCode: "6400:acme"})
	req := httptest.NewRequest(http.MethodPost, "/rules", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPatternHandler_List(t *testing.T) {
	svc := newPatternServiceStub()
	svc.listFn = func(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error) {
		return []*domain.PatternRule{
			{ID: "rule-1", Scope: domain.ScopeAny()},
			{ID: "rule-2", Scope: domain.ScopeFor("acme")},
		}, nil
	}
	handler := NewPatternHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/rules", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.PatternRuleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(resp))
	}
	if resp[0].Entity != "" || resp[1].Entity != "acme" {
		t.Fatalf("expected wildcard then scoped rule, got %+v", resp)
	}
}

func TestPatternHandler_Deactivate(t *testing.T) {
	svc := newPatternServiceStub()
	svc.deactivateFn = func(ctx context.Context, id string) error {
		if id != "rule-1" {
			t.Fatalf("expected id rule-1, got %s", id)
		}
		return nil
	}
	handler := NewPatternHandler(svc)

	req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/rules/rule-1", nil), "id", "rule-1")
	rec := httptest.NewRecorder()

	handler.Deactivate(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestPatternHandler_Deactivate_NotFound(t *testing.T) {
	svc := newPatternServiceStub()
	svc.deactivateFn = func(ctx context.Context, id string) error {
		return domain.ErrRuleNotFound
	}
	handler := NewPatternHandler(svc)

	req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/rules/rule-9", nil), "id", "rule-9")
	rec := httptest.NewRecorder()

	handler.Deactivate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
