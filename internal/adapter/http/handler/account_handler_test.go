package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

type fakeAccountService struct {
	getFunc           func(ctx context.Context, ident domain.Identity) (*domain.Account, error)
	getOrCreateFunc   func(ctx context.Context, ident domain.Identity) (*domain.Account, bool, error)
	getDailyLimitFunc func(ctx context.Context, ident domain.Identity, childEmail string) (decimal.Decimal, error)
	setDailyLimitFunc func(ctx context.Context, ident domain.Identity, childEmail string, limit decimal.Decimal) (*domain.Account, error)
}

func (f *fakeAccountService) Get(ctx context.Context, ident domain.Identity) (*domain.Account, error) {
	return f.getFunc(ctx, ident)
}

func (f *fakeAccountService) GetOrCreate(ctx context.Context, ident domain.Identity) (*domain.Account, bool, error) {
	return f.getOrCreateFunc(ctx, ident)
}

func (f *fakeAccountService) GetDailyLimit(ctx context.Context, ident domain.Identity, childEmail string) (decimal.Decimal, error) {
	return f.getDailyLimitFunc(ctx, ident, childEmail)
}

func (f *fakeAccountService) SetDailyLimit(ctx context.Context, ident domain.Identity, childEmail string, limit decimal.Decimal) (*domain.Account, error) {
	return f.setDailyLimitFunc(ctx, ident, childEmail, limit)
}

func TestAccountHandlerGet(t *testing.T) {
	svc := &fakeAccountService{
		getFunc: func(_ context.Context, ident domain.Identity) (*domain.Account, error) {
			return &domain.Account{
				Title:   ident.Email,
				Balance: decimal.NewFromFloat(42.5),
			}, nil
		},
	}
	h := NewAccountHandler(svc, testMetrics)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/acc", nil), &domain.Identity{Email: "kid@example.com"})
	rr := httptest.NewRecorder()
	h.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["title"] != "kid@example.com" || resp["balance"] != "42.50" {
		t.Errorf("resp = %v", resp)
	}
}

func TestAccountHandlerGetNotFound(t *testing.T) {
	svc := &fakeAccountService{
		getFunc: func(context.Context, domain.Identity) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	}
	h := NewAccountHandler(svc, testMetrics)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/acc", nil), &domain.Identity{Email: "new@example.com"})
	rr := httptest.NewRecorder()
	h.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAccountHandlerCreate(t *testing.T) {
	tests := []struct {
		name       string
		created    bool
		wantStatus int
	}{
		{"first touch", true, http.StatusCreated},
		{"already exists", false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{
				getOrCreateFunc: func(_ context.Context, ident domain.Identity) (*domain.Account, bool, error) {
					return &domain.Account{Title: ident.Email}, tt.created, nil
				},
			}
			h := NewAccountHandler(svc, testMetrics)

			req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/acc", nil), &domain.Identity{Email: "kid@example.com"})
			rr := httptest.NewRecorder()
			h.Create(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestAccountHandlerGetDailyLimit(t *testing.T) {
	svc := &fakeAccountService{
		getDailyLimitFunc: func(_ context.Context, _ domain.Identity, childEmail string) (decimal.Decimal, error) {
			if childEmail != "kid@example.com" {
				t.Errorf("childEmail = %q", childEmail)
			}
			return decimal.NewFromInt(20), nil
		},
	}
	h := NewAccountHandler(svc, testMetrics)

	req := withIdentity(
		httptest.NewRequest(http.MethodGet, "/api/v1/acc/daily-limit-for?child_email=kid@example.com", nil),
		&domain.Identity{Email: "dad@example.com", IsParent: true},
	)
	rr := httptest.NewRecorder()
	h.GetDailyLimit(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["daily_limit"] != "20.00" {
		t.Errorf("daily_limit = %q", resp["daily_limit"])
	}
}

func TestAccountHandlerGetDailyLimitMissingChild(t *testing.T) {
	h := NewAccountHandler(&fakeAccountService{}, testMetrics)

	req := withIdentity(
		httptest.NewRequest(http.MethodGet, "/api/v1/acc/daily-limit-for", nil),
		&domain.Identity{Email: "dad@example.com", IsParent: true},
	)
	rr := httptest.NewRecorder()
	h.GetDailyLimit(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAccountHandlerSetDailyLimit(t *testing.T) {
	svc := &fakeAccountService{
		setDailyLimitFunc: func(_ context.Context, _ domain.Identity, childEmail string, limit decimal.Decimal) (*domain.Account, error) {
			return &domain.Account{Title: childEmail, DailyLimit: limit}, nil
		},
	}
	h := NewAccountHandler(svc, testMetrics)

	body, _ := json.Marshal(map[string]string{
		"child_email": "kid@example.com",
		"daily_limit": "15.00",
	})
	req := withIdentity(
		httptest.NewRequest(http.MethodPut, "/api/v1/acc/daily-limit-for", bytes.NewReader(body)),
		&domain.Identity{Email: "dad@example.com", IsParent: true},
	)
	rr := httptest.NewRecorder()
	h.SetDailyLimit(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["daily_limit"] != "15.00" {
		t.Errorf("daily_limit = %q", resp["daily_limit"])
	}
}

func TestAccountHandlerSetDailyLimitInvalid(t *testing.T) {
	h := NewAccountHandler(&fakeAccountService{}, testMetrics)

	for _, limit := range []string{"-5", "abc", "1.234"} {
		body, _ := json.Marshal(map[string]string{
			"child_email": "kid@example.com",
			"daily_limit": limit,
		})
		req := withIdentity(
			httptest.NewRequest(http.MethodPut, "/api/v1/acc/daily-limit-for", bytes.NewReader(body)),
			&domain.Identity{Email: "dad@example.com", IsParent: true},
		)
		rr := httptest.NewRecorder()
		h.SetDailyLimit(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("limit %q: status = %d", limit, rr.Code)
		}
	}
}

func TestAccountHandlerSetDailyLimitForbidden(t *testing.T) {
	svc := &fakeAccountService{
		setDailyLimitFunc: func(context.Context, domain.Identity, string, decimal.Decimal) (*domain.Account, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewAccountHandler(svc, testMetrics)

	body, _ := json.Marshal(map[string]string{
		"child_email": "stranger@example.com",
		"daily_limit": "15.00",
	})
	req := withIdentity(
		httptest.NewRequest(http.MethodPut, "/api/v1/acc/daily-limit-for", bytes.NewReader(body)),
		&domain.Identity{Email: "dad@example.com", IsParent: true},
	)
	rr := httptest.NewRecorder()
	h.SetDailyLimit(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rr.Code)
	}
}
