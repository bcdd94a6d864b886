package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/handler"
	apimiddleware "github.com/badralotaibi/CS604-SHU/internal/adapter/http/middleware"
	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/auth"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/metrics"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

// Registered once; prometheus collectors cannot be registered twice in a
// single test binary.
var routerTestMetrics = metrics.New()

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_AuthRequiredOnAccountRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/acc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected unauthenticated request to get 401, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.JWTManager = jwtManager
	}))

	token, err := jwtManager.Generate(&domain.Identity{Email: "kid@example.com", IsStudent: true})
	if err != nil {
		t.Fatal(err)
	}

	body := `{"memo":"lunch","amount":"5.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/acc/spend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/login",
		"GET /api/v1/acc/",
		"POST /api/v1/acc/",
		"GET /api/v1/acc/daily-limit-for",
		"PUT /api/v1/acc/daily-limit-for",
		"POST /api/v1/acc/deposit",
		"POST /api/v1/acc/send-money-to",
		"POST /api/v1/acc/spend",
		"GET /api/v1/acc/transactions",
		"GET /api/v1/acc/transactions-for",
		"GET /api/v1/acc/reconciliation",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		AuthHandler:           handler.NewAuthHandler(stubAuthenticator{}, stubIssuer{}, routerTestMetrics),
		AccountHandler:        handler.NewAccountHandler(stubAccountService{}, routerTestMetrics),
		LedgerHandler:         handler.NewLedgerHandler(stubLedgerService{}, routerTestMetrics),
		StatementHandler:      handler.NewStatementHandler(stubStatementService{}),
		ReconciliationHandler: handler.NewReconciliationHandler(stubReconciliationService{}, routerTestMetrics),
		HealthHandler:         &handler.HealthHandler{},
		JWTManager:            auth.NewJWTManager("router-test-secret", time.Hour),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubAuthenticator struct{}

func (stubAuthenticator) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	return &domain.Identity{Email: username}, nil
}

type stubIssuer struct{}

func (stubIssuer) Generate(*domain.Identity) (string, error) {
	return "token", nil
}

type stubAccountService struct{}

func (stubAccountService) Get(ctx context.Context, ident domain.Identity) (*domain.Account, error) {
	return &domain.Account{Title: ident.Email}, nil
}

func (stubAccountService) GetOrCreate(ctx context.Context, ident domain.Identity) (*domain.Account, bool, error) {
	return &domain.Account{Title: ident.Email}, false, nil
}

func (stubAccountService) GetDailyLimit(ctx context.Context, ident domain.Identity, childEmail string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubAccountService) SetDailyLimit(ctx context.Context, ident domain.Identity, childEmail string, limit decimal.Decimal) (*domain.Account, error) {
	return &domain.Account{Title: childEmail, DailyLimit: limit}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) Deposit(ctx context.Context, ident domain.Identity, card domain.Card, amount decimal.Decimal) (*domain.Transaction, error) {
	return &domain.Transaction{Amount: amount}, nil
}

func (stubLedgerService) Transfer(ctx context.Context, ident domain.Identity, childEmail string, amount decimal.Decimal) (*domain.Transaction, error) {
	return &domain.Transaction{Amount: amount}, nil
}

func (stubLedgerService) Spend(ctx context.Context, ident domain.Identity, memo string, amount decimal.Decimal) (*domain.Transaction, error) {
	return &domain.Transaction{Amount: amount, Memo: memo}, nil
}

type stubStatementService struct{}

func (stubStatementService) OwnStatement(ctx context.Context, ident domain.Identity, input usecase.StatementInput) (*usecase.Statement, error) {
	return &usecase.Statement{}, nil
}

func (stubStatementService) ChildStatement(ctx context.Context, ident domain.Identity, childEmail string, input usecase.StatementInput) (*usecase.Statement, error) {
	return &usecase.Statement{}, nil
}

type stubReconciliationService struct{}

func (stubReconciliationService) ReconcileAccount(ctx context.Context, title string) (*usecase.ReconciliationResult, error) {
	return &usecase.ReconciliationResult{Title: title, IsReconciled: true}, nil
}

func (stubReconciliationService) ReconcileAll(ctx context.Context) ([]*usecase.ReconciliationResult, error) {
	return []*usecase.ReconciliationResult{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
