package handler

import (
	"context"
	"net/http"

	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/dto"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/metrics"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, title string) (*usecase.ReconciliationResult, error)
	ReconcileAll(ctx context.Context) ([]*usecase.ReconciliationResult, error)
}

// ReconciliationHandler exposes balance-vs-history checks for operators.
type ReconciliationHandler struct {
	reconUC ReconciliationService
	m       *metrics.Metrics
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC ReconciliationService, m *metrics.Metrics) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC, m: m}
}

// Reconcile checks one account when the title parameter is set, otherwise
// every account.
func (h *ReconciliationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	h.m.ReconciliationRuns.Inc()

	if title := r.URL.Query().Get("title"); title != "" {
		result, err := h.reconUC.ReconcileAccount(r.Context(), title)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if !result.IsReconciled {
			h.m.ReconciliationDrifts.Inc()
		}

		writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
		return
	}

	results, err := h.reconUC.ReconcileAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	for _, result := range results {
		if !result.IsReconciled {
			h.m.ReconciliationDrifts.Inc()
		}
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationsFromUseCase(results))
}
