package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/dto"
	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/middleware"
	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/metrics"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Get(ctx context.Context, ident domain.Identity) (*domain.Account, error)
	GetOrCreate(ctx context.Context, ident domain.Identity) (*domain.Account, bool, error)
	GetDailyLimit(ctx context.Context, ident domain.Identity, childEmail string) (decimal.Decimal, error)
	SetDailyLimit(ctx context.Context, ident domain.Identity, childEmail string, limit decimal.Decimal) (*domain.Account, error)
}

// AccountHandler handles account and daily limit requests.
type AccountHandler struct {
	accountUC AccountService
	m         *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, m: m}
}

// Get returns the caller's own account, 404 if it has never been touched.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	account, err := h.accountUC.Get(r.Context(), *ident)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Create lazily creates the caller's account. Returns 201 when a new account
// row came into existence, 200 when it already existed.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	account, created, err := h.accountUC.GetOrCreate(r.Context(), *ident)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.m.AccountsCreated.Inc()
	}

	writeJSON(w, status, dto.AccountFromDomain(account))
}

// GetDailyLimit returns a child's daily cap to a verified parent.
func (h *AccountHandler) GetDailyLimit(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	childEmail := r.URL.Query().Get("child_email")
	if childEmail == "" {
		writeError(w, http.StatusBadRequest, "child_email is required", "")
		return
	}

	limit, err := h.accountUC.GetDailyLimit(r.Context(), *ident, childEmail)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DailyLimitResponse{DailyLimit: limit.StringFixed(2)})
}

// SetDailyLimit upserts a child's daily cap for a verified parent.
func (h *AccountHandler) SetDailyLimit(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.DailyLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.ChildEmail == "" {
		writeError(w, http.StatusBadRequest, "child_email is required", "")
		return
	}

	limit, err := domain.ParseLimitAmount(req.DailyLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	account, err := h.accountUC.SetDailyLimit(r.Context(), *ident, req.ChildEmail, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.m.LimitsUpdated.Inc()
	writeJSON(w, http.StatusOK, dto.DailyLimitResponse{DailyLimit: account.DailyLimit.StringFixed(2)})
}
