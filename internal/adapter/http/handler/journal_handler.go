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

// JournalService defines the behavior needed by JournalHandler.
type JournalService interface {
	PostToJournal(ctx context.Context, entity, postedBy string) (usecase.PostResult, error)
	ReverseEntry(ctx context.Context, entryID, reason, actor string) (string, error)
	GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, filter usecase.LedgerFilter) ([]*domain.LedgerEntry, error)
}

// JournalHandler handles journal HTTP requests.
type JournalHandler struct {
	journalUC JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC JournalService) *JournalHandler {
	return &JournalHandler{journalUC: journalUC}
}

// Post posts the balanced working set to the journal.
func (h *JournalHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.PostedBy == "" {
		writeError(w, http.StatusBadRequest, "posted_by is required", "")
		return
	}

	result, err := h.journalUC.PostToJournal(r.Context(), req.Entity, req.PostedBy)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post to journal", err.Error())
		return
	}

	metrics.JournalEntriesPosted.Add(float64(result.Posted))

	writeJSON(w, http.StatusOK, dto.PostResultResponse{
		Posted:  result.Posted,
		Skipped: result.Skipped,
	})
}

// Reverse creates the counter-entry for a posted journal entry.
func (h *JournalHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ReverseEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Reason == "" || req.Actor == "" {
		writeError(w, http.StatusBadRequest, "reason and actor are required", "")
		return
	}

	reversalID, err := h.journalUC.ReverseEntry(r.Context(), id, req.Reason, req.Actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse entry", err.Error())
		return
	}

	metrics.JournalEntriesReversed.Inc()

	writeJSON(w, http.StatusCreated, dto.ReversalResponse{ReversalID: reversalID})
}

// Get retrieves a journal entry with its lines.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.journalUC.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get journal entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromDomain(entry))
}

// List lists journal entries.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.LedgerFilter{
		Entity: r.URL.Query().Get("entity"),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}

	entries, err := h.journalUC.ListEntries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list journal entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgersFromDomain(entries))
}
