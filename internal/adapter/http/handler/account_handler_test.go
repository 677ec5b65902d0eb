package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

type accountServiceStub struct {
	createFn    func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn       func(ctx context.Context, code string) (*domain.Account, error)
	listFn      func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	setStatusFn func(ctx context.Context, code string, status domain.AccountStatus) (*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return s.getFn(ctx, code)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *accountServiceStub) SetAccountStatus(ctx context.Context, code string, status domain.AccountStatus) (*domain.Account, error) {
	return s.setStatusFn(ctx, code, status)
}

type balanceServiceStub struct {
	balanceFn func(ctx context.Context, accountCode string) (decimal.Decimal, error)
}

func (s *balanceServiceStub) AccountBalance(ctx context.Context, accountCode string) (decimal.Decimal, error) {
	return s.balanceFn(ctx, accountCode)
}

func newAccountServiceStub() *accountServiceStub {
	return &accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, nil
		},
		getFn: func(ctx context.Context, code string) (*domain.Account, error) { return nil, nil },
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
			return nil, nil
		},
		setStatusFn: func(ctx context.Context, code string, status domain.AccountStatus) (*domain.Account, error) {
			return nil, nil
		},
	}
}

func newBalanceServiceStub() *balanceServiceStub {
	return &balanceServiceStub{
		balanceFn: func(ctx context.Context, accountCode string) (decimal.Decimal, error) {
			return decimal.Zero, nil
		},
	}
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		Code:   "6200:acme",
		Name:   "Office Supplies",
		Type:   domain.AccountTypeExpense,
		Status: domain.AccountStatusActive,
	}

	var captured usecase.CreateAccountInput
	svc := newAccountServiceStub()
	svc.createFn = func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
		captured = input
		return account, nil
	}
	handler := NewAccountHandler(svc, newBalanceServiceStub())

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Code: "6200:acme",
		Name: "Office Supplies",
		Type: "expense",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Code != "6200:acme" || captured.Type != domain.AccountTypeExpense {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "6200:acme" {
		t.Fatalf("expected account code 6200:acme, got %s", resp.Code)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	svc := newAccountServiceStub()
	svc.createFn = func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
		t.Fatal("CreateAccount should not be called for invalid payload")
		return nil, nil
	}
	handler := NewAccountHandler(svc, newBalanceServiceStub())

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_Conflict(t *testing.T) {
	svc := newAccountServiceStub()
	svc.createFn = func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
		return nil, domain.ErrAccountExists
	}
	handler := NewAccountHandler(svc, newBalanceServiceStub())

	body, _ := json.Marshal(dto.CreateAccountRequest{Code: "6200", Name: "dup", Type: "expense"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ServiceError(t *testing.T) {
	svc := newAccountServiceStub()
	svc.createFn = func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
		return nil, errors.New("db error")
	}
	handler := NewAccountHandler(svc, newBalanceServiceStub())

	body, _ := json.Marshal(dto.CreateAccountRequest{Code: "6200", Name: "test", Type: "expense"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	svc := newAccountServiceStub()
	svc.getFn = func(ctx context.Context, code string) (*domain.Account, error) {
		return nil, domain.ErrAccountNotFound
	}
	handler := NewAccountHandler(svc, newBalanceServiceStub())

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/9999", nil), "code", "9999")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_SetStatus(t *testing.T) {
	svc := newAccountServiceStub()
	svc.setStatusFn = func(ctx context.Context, code string, status domain.AccountStatus) (*domain.Account, error) {
		if code != "6200:acme" || status != domain.AccountStatusInactive {
			t.Fatalf("unexpected arguments: %s %s", code, status)
		}
		return &domain.Account{Code: code, Status: status}, nil
	}
	handler := NewAccountHandler(svc, newBalanceServiceStub())

	body, _ := json.Marshal(dto.SetAccountStatusRequest{Status: "inactive"})
	req := setChiURLParam(
		httptest.NewRequest(http.MethodPatch, "/accounts/6200:acme/status", bytes.NewReader(body)),
		"code", "6200:acme",
	)
	rec := httptest.NewRecorder()

	handler.SetStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "inactive" {
		t.Fatalf("expected status inactive, got %s", resp.Status)
	}
}

func TestAccountHandler_Balance(t *testing.T) {
	balance := newBalanceServiceStub()
	balance.balanceFn = func(ctx context.Context, accountCode string) (decimal.Decimal, error) {
		if accountCode != "1000:acme" {
			t.Fatalf("expected code 1000:acme, got %s", accountCode)
		}
		return decimal.NewFromFloat(123.45), nil
	}
	handler := NewAccountHandler(newAccountServiceStub(), balance)

	req := setChiURLParam(
		httptest.NewRequest(http.MethodGet, "/accounts/1000:acme/balance", nil),
		"code", "1000:acme",
	)
	rec := httptest.NewRecorder()

	handler.Balance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(decimal.NewFromFloat(123.45)) {
		t.Fatalf("expected balance 123.45, got %s", resp.Balance)
	}
}

func TestAccountHandler_List(t *testing.T) {
	svc := newAccountServiceStub()
	svc.listFn = func(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
		if limit != 5 || offset != 2 {
			t.Fatalf("expected limit=5 offset=2, got limit=%d offset=%d", limit, offset)
		}
		return []*domain.Account{{Code: "1000"}, {Code: "6200"}}, nil
	}
	handler := NewAccountHandler(svc, newBalanceServiceStub())

	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=5&offset=2", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp))
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
