package dto

import (
	"time"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

// AccountResponse represents an account in API responses. Money fields render
// with two decimal places.
type AccountResponse struct {
	Title      string `json:"title"`
	Balance    string `json:"balance"`
	DailyLimit string `json:"daily_limit"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Title:      a.Title,
		Balance:    a.Balance.StringFixed(2),
		DailyLimit: a.DailyLimit.StringFixed(2),
	}
}

// TokenResponse carries a freshly issued API token.
type TokenResponse struct {
	Token string `json:"token"`
}

// DepositResponse acknowledges a card deposit.
type DepositResponse struct {
	Deposited string `json:"deposited"`
}

// SendMoneyResponse acknowledges a parent-to-child transfer.
type SendMoneyResponse struct {
	Sent string `json:"sent"`
}

// SpendResponse acknowledges a student purchase.
type SpendResponse struct {
	Spent string `json:"spent"`
}

// DailyLimitResponse reports a child's daily cap.
type DailyLimitResponse struct {
	DailyLimit string `json:"daily_limit"`
}

// StatementEntryResponse is one statement line. Exactly one of Debit and
// Credit is non-empty: Debit when the account paid, Credit when it received.
type StatementEntryResponse struct {
	Created time.Time `json:"created"`
	Account string    `json:"account"`
	Memo    string    `json:"memo"`
	Debit   string    `json:"debit"`
	Credit  string    `json:"credit"`
	Balance string    `json:"balance"`
}

// StatementResponse is a rendered statement window.
type StatementResponse struct {
	BalanceStart string                   `json:"balanceStart"`
	Transactions []StatementEntryResponse `json:"transactions"`
}

// StatementFromUseCase converts a statement to its wire form.
func StatementFromUseCase(s *usecase.Statement) *StatementResponse {
	resp := &StatementResponse{
		BalanceStart: s.BalanceStart.StringFixed(2),
		Transactions: make([]StatementEntryResponse, 0, len(s.Entries)),
	}

	for _, e := range s.Entries {
		entry := StatementEntryResponse{
			Created: e.Created,
			Account: e.Account,
			Memo:    e.Memo,
			Balance: e.Balance.StringFixed(2),
		}

		if e.Debit.IsPositive() {
			entry.Debit = e.Debit.StringFixed(2)
		} else {
			entry.Credit = e.Credit.StringFixed(2)
		}

		resp.Transactions = append(resp.Transactions, entry)
	}

	return resp
}

// ReconciliationResponse reports one account reconciliation outcome.
type ReconciliationResponse struct {
	Title             string    `json:"title"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		Title:             r.Title,
		RecordedBalance:   r.RecordedBalance.StringFixed(2),
		CalculatedBalance: r.CalculatedBalance.StringFixed(2),
		Difference:        r.Difference.StringFixed(2),
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationsFromUseCase converts a batch of reconciliation results.
func ReconciliationsFromUseCase(results []*usecase.ReconciliationResult) []*ReconciliationResponse {
	out := make([]*ReconciliationResponse, len(results))
	for i, r := range results {
		out[i] = ReconciliationFromUseCase(r)
	}
	return out
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
