package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/adapter/http/dto"
	"github.com/iho/wasteledger/internal/domain"
)

type balanceServiceStub struct {
	findFn     func(ctx context.Context, id string) (*domain.Balance, error)
	findManyFn func(ctx context.Context, ids []string) ([]*domain.Balance, error)
}

func (s *balanceServiceStub) FindByAccreditationID(ctx context.Context, id string) (*domain.Balance, error) {
	return s.findFn(ctx, id)
}

func (s *balanceServiceStub) FindByAccreditationIDs(ctx context.Context, ids []string) ([]*domain.Balance, error) {
	return s.findManyFn(ctx, ids)
}

func TestBalanceHandler_Get(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		findFn: func(ctx context.Context, id string) (*domain.Balance, error) {
			if id != "acc-1" {
				t.Fatalf("expected acc-1, got %s", id)
			}
			return &domain.Balance{
				ID:              "bal-1",
				AccreditationID: "acc-1",
				Amount:          decimal.NewFromInt(10),
				AvailableAmount: decimal.NewFromInt(6),
			}, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/balances/acc-1", nil),
		map[string]string{"accreditationId": "acc-1"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.AvailableAmount.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("expected available 6, got %s", resp.AvailableAmount)
	}
}

func TestBalanceHandler_GetNotFound(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		findFn: func(ctx context.Context, id string) (*domain.Balance, error) {
			return nil, domain.ErrBalanceNotFound
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/balances/acc-9", nil),
		map[string]string{"accreditationId": "acc-9"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBalanceHandler_List(t *testing.T) {
	var captured []string
	handler := NewBalanceHandler(&balanceServiceStub{
		findManyFn: func(ctx context.Context, ids []string) ([]*domain.Balance, error) {
			captured = ids
			return []*domain.Balance{{ID: "bal-1", AccreditationID: "acc-1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/balances?accreditationIds=acc-1,%20acc-2,,", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !reflect.DeepEqual(captured, []string{"acc-1", "acc-2"}) {
		t.Fatalf("unexpected ids: %v", captured)
	}
}

func TestBalanceHandler_ListRequiresIDs(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/balances", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
