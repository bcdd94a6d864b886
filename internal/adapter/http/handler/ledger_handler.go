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

// LedgerService defines the posting operations needed by LedgerHandler.
type LedgerService interface {
	Deposit(ctx context.Context, ident domain.Identity, card domain.Card, amount decimal.Decimal) (*domain.Transaction, error)
	Transfer(ctx context.Context, ident domain.Identity, childEmail string, amount decimal.Decimal) (*domain.Transaction, error)
	Spend(ctx context.Context, ident domain.Identity, memo string, amount decimal.Decimal) (*domain.Transaction, error)
}

// LedgerHandler handles the three money movement endpoints.
type LedgerHandler struct {
	ledgerUC LedgerService
	m        *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, m: m}
}

// Deposit funds the caller's account by card.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	card, err := req.Card()
	if err != nil {
		h.reject("deposit", err)
		writeDomainError(w, err)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		h.reject("deposit", err)
		writeDomainError(w, err)
		return
	}

	trn, err := h.ledgerUC.Deposit(r.Context(), *ident, card, amount)
	if err != nil {
		h.reject("deposit", err)
		writeDomainError(w, err)
		return
	}

	h.posted("deposit", trn.Amount)
	writeJSON(w, http.StatusOK, dto.DepositResponse{Deposited: trn.Amount.StringFixed(2)})
}

// SendMoney moves money from the parent to a child.
func (h *LedgerHandler) SendMoney(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.SendMoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.ChildEmail == "" {
		writeError(w, http.StatusBadRequest, "child_email is required", "")
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		h.reject("transfer", err)
		writeDomainError(w, err)
		return
	}

	trn, err := h.ledgerUC.Transfer(r.Context(), *ident, req.ChildEmail, amount)
	if err != nil {
		h.reject("transfer", err)
		writeDomainError(w, err)
		return
	}

	h.posted("transfer", trn.Amount)
	writeJSON(w, http.StatusOK, dto.SendMoneyResponse{Sent: trn.Amount.StringFixed(2)})
}

// Spend records a student purchase against the spending sink.
func (h *LedgerHandler) Spend(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.SpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		h.reject("spend", err)
		writeDomainError(w, err)
		return
	}

	trn, err := h.ledgerUC.Spend(r.Context(), *ident, req.Memo, amount)
	if err != nil {
		h.reject("spend", err)
		writeDomainError(w, err)
		return
	}

	h.posted("spend", trn.Amount)
	writeJSON(w, http.StatusOK, dto.SpendResponse{Spent: trn.Amount.StringFixed(2)})
}

func (h *LedgerHandler) posted(kind string, amount decimal.Decimal) {
	h.m.PostingsCreated.WithLabelValues(kind).Inc()
	amt, _ := amount.Float64()
	h.m.PostingAmount.WithLabelValues(kind).Observe(amt)
}

func (h *LedgerHandler) reject(kind string, err error) {
	h.m.PostingsRejected.WithLabelValues(kind, rejectionReason(err)).Inc()
}

func rejectionReason(err error) string {
	switch mapDomainError(err) {
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusBadGateway:
		return "upstream"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "validation"
	default:
		return "internal"
	}
}
