package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/infrastructure/metrics"
	"github.com/iho/bookledger/internal/usecase"
)

// TrialService defines the behavior needed by TrialHandler.
type TrialService interface {
	BuildTrialEntries(ctx context.Context, filter usecase.StagingFilter) (usecase.BuildResult, error)
	ValidateTrialEntries(ctx context.Context) (usecase.ValidateResult, error)
	Summarize(ctx context.Context, entity string) (*domain.TrialSummary, error)
}

// TransferMatchService pairs transfer-tagged candidates.
type TransferMatchService interface {
	MatchTransferPairs(ctx context.Context, entity string) (usecase.MatchPairsResult, error)
}

// CandidateReader lists candidate entries for inspection.
type CandidateReader interface {
	ListByStatus(ctx context.Context, status domain.CandidateStatus, entity string, limit, offset int) ([]*domain.CandidateEntry, error)
}

// TrialHandler handles trial-stage HTTP requests.
type TrialHandler struct {
	trialUC    TrialService
	transferUC TransferMatchService
	candidates CandidateReader
}

// NewTrialHandler creates a new TrialHandler.
func NewTrialHandler(trialUC TrialService, transferUC TransferMatchService, candidates CandidateReader) *TrialHandler {
	return &TrialHandler{
		trialUC:    trialUC,
		transferUC: transferUC,
		candidates: candidates,
	}
}

// Build expands staged transactions into candidate entries.
func (h *TrialHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req dto.BuildTrialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.trialUC.BuildTrialEntries(r.Context(), req.ToFilter())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build trial entries", err.Error())
		return
	}

	metrics.TrialEntriesBuilt.Add(float64(result.Created))
	metrics.TrialEntriesSkipped.Add(float64(result.Skipped))

	writeJSON(w, http.StatusOK, dto.BuildResultResponse{
		Created: result.Created,
		Skipped: result.Skipped,
	})
}

// Validate re-checks balance and account validity on the working set.
func (h *TrialHandler) Validate(w http.ResponseWriter, r *http.Request) {
	result, err := h.trialUC.ValidateTrialEntries(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to validate trial entries", err.Error())
		return
	}

	metrics.TrialValidationErrors.Add(float64(result.Errors))

	writeJSON(w, http.StatusOK, dto.ValidateResultResponse{
		Validated: result.Validated,
		Errors:    result.Errors,
	})
}

// MatchTransfers pairs both sides of internal transfers.
func (h *TrialHandler) MatchTransfers(w http.ResponseWriter, r *http.Request) {
	var req dto.MatchTransfersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transferUC.MatchTransferPairs(r.Context(), req.Entity)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to match transfers", err.Error())
		return
	}

	metrics.TransferPairsMatched.Add(float64(result.MatchedPairs))

	writeJSON(w, http.StatusOK, dto.MatchResultResponse{
		MatchedPairs: result.MatchedPairs,
	})
}

// List lists candidate entries by status.
func (h *TrialHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.CandidateStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.CandidateStatusPending
	}

	entries, err := h.candidates.ListByStatus(
		r.Context(),
		status,
		r.URL.Query().Get("entity"),
		parseIntQuery(r, "limit", 50),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list trial entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CandidatesFromDomain(entries))
}

// Summary reports candidate-entry counts per status.
func (h *TrialHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.trialUC.Summarize(r.Context(), r.URL.Query().Get("entity"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize trial entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialSummaryFromDomain(summary))
}
