package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
)

type auditReaderStub struct {
	listFn func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func (s *auditReaderStub) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	return s.listFn(ctx, filter)
}

func TestAuditHandler_List(t *testing.T) {
	var gotFilter domain.AuditFilter
	stub := &auditReaderStub{
		listFn: func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
			gotFilter = filter
			return []*domain.AuditLog{
				{
					ID:        "a1",
					Actor:     "jane",
					Action:    domain.AuditActionJournalPost,
					Status:    string(domain.AuditStatusSuccess),
					CreatedAt: time.Now().UTC(),
				},
			}, nil
		},
	}
	h := NewAuditHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit?actor=jane&action=journal.post&limit=10", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotFilter.Actor != "jane" || gotFilter.Action != domain.AuditActionJournalPost || gotFilter.Limit != 10 {
		t.Errorf("unexpected filter: %+v", gotFilter)
	}

	var resp []*dto.AuditLogResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Actor != "jane" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAuditHandler_List_Error(t *testing.T) {
	stub := &auditReaderStub{
		listFn: func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewAuditHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
