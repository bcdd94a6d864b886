package handler

import (
	"context"
	"net/http"

	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/dto"
	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/middleware"
	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	OwnStatement(ctx context.Context, ident domain.Identity, input usecase.StatementInput) (*usecase.Statement, error)
	ChildStatement(ctx context.Context, ident domain.Identity, childEmail string, input usecase.StatementInput) (*usecase.Statement, error)
}

// StatementHandler renders transaction statements.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Own renders the caller's statement. date_start and date_end are optional
// YYYY-MM-DD parameters; the window defaults to today.
func (h *StatementHandler) Own(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	input, err := statementInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	stmt, err := h.statementUC.OwnStatement(r.Context(), *ident, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(stmt))
}

// Child renders a child's statement for a verified parent.
func (h *StatementHandler) Child(w http.ResponseWriter, r *http.Request) {
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

	input, err := statementInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	stmt, err := h.statementUC.ChildStatement(r.Context(), *ident, childEmail, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(stmt))
}

func statementInput(r *http.Request) (usecase.StatementInput, error) {
	start, err := parseDateQuery(r, "date_start")
	if err != nil {
		return usecase.StatementInput{}, err
	}

	end, err := parseDateQuery(r, "date_end")
	if err != nil {
		return usecase.StatementInput{}, err
	}

	return usecase.StatementInput{DateStart: start, DateEnd: end}, nil
}
