package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// PatternService defines the behavior needed by PatternHandler.
type PatternService interface {
	CreateRule(ctx context.Context, input usecase.CreateRuleInput) (*domain.PatternRule, error)
	ListRules(ctx context.Context, limit, offset int) ([]*domain.PatternRule, error)
	DeactivateRule(ctx context.Context, id string) error
}

// PatternHandler handles categorization rule HTTP requests.
type PatternHandler struct {
	patternUC PatternService
}

// NewPatternHandler creates a new PatternHandler.
func NewPatternHandler(patternUC PatternService) *PatternHandler {
	return &PatternHandler{patternUC: patternUC}
}

// Create registers a new pattern rule.
func (h *PatternHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rule, err := h.patternUC.CreateRule(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create rule", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RuleFromDomain(rule))
}

// List lists pattern rules.
func (h *PatternHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.patternUC.ListRules(
		r.Context(),
		parseIntQuery(r, "limit", 50),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rules", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RulesFromDomain(rules))
}

// Deactivate retires a rule without deleting it.
func (h *PatternHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.patternUC.DeactivateRule(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to deactivate rule", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
