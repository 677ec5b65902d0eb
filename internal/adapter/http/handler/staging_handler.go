package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/infrastructure/metrics"
	"github.com/iho/bookledger/internal/usecase"
)

// StagingService defines the behavior needed by StagingHandler.
type StagingService interface {
	ImportTransaction(ctx context.Context, input usecase.ImportTransactionInput) (*domain.StagedTransaction, error)
	AssignAccount(ctx context.Context, stagingID, accountCode string) (*domain.StagedTransaction, error)
	ListStaged(ctx context.Context, filter usecase.StagingFilter) ([]*domain.StagedTransaction, error)
	Summarize(ctx context.Context, entity string) (*domain.StagingSummary, error)
}

// StagingHandler handles staged-transaction HTTP requests.
type StagingHandler struct {
	stagingUC StagingService
}

// NewStagingHandler creates a new StagingHandler.
func NewStagingHandler(stagingUC StagingService) *StagingHandler {
	return &StagingHandler{stagingUC: stagingUC}
}

// Import stages one bank transaction.
func (h *StagingHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	staged, err := h.stagingUC.ImportTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to import transaction", err.Error())
		return
	}

	metrics.TransactionsStaged.Inc()
	if staged.AssignMethod != domain.AssignMethodNone {
		metrics.AccountsAssigned.WithLabelValues(string(staged.AssignMethod)).Inc()
	}

	writeJSON(w, http.StatusCreated, dto.StagedFromDomain(staged))
}

// Assign manually categorizes a staged transaction.
func (h *StagingHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AssignAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	staged, err := h.stagingUC.AssignAccount(r.Context(), id, req.AccountCode)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to assign account", err.Error())
		return
	}

	metrics.AccountsAssigned.WithLabelValues(string(domain.AssignMethodManual)).Inc()

	writeJSON(w, http.StatusOK, dto.StagedFromDomain(staged))
}

// List lists staged transactions. The unassigned flag restricts the
// result to rows still carrying the sentinel code.
func (h *StagingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.StagingFilter{
		Entity:     r.URL.Query().Get("entity"),
		Unassigned: r.URL.Query().Get("unassigned") == "true",
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	staged, err := h.stagingUC.ListStaged(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list staged transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StagedListFromDomain(staged))
}

// Summary reports staged-row counts by categorization outcome.
func (h *StagingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stagingUC.Summarize(r.Context(), r.URL.Query().Get("entity"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize staged transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StagingSummaryFromDomain(summary))
}
