package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one immutable row of the ledger log. CreditID is the paying
// account (balance decreased), DebitID the receiving account (balance
// increased). Amount is always strictly positive.
type Transaction struct {
	ID       string
	Created  time.Time
	Amount   decimal.Decimal
	Memo     string
	CreditID string
	DebitID  string

	// Titles of the two accounts, populated only by queries that join the
	// accounts table (statement rendering).
	CreditTitle string
	DebitTitle  string
}

// Validate checks the invariants every stored transaction must satisfy.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.CreditID == t.DebitID {
		return ErrSameAccount
	}
	return nil
}

// Counterparty returns the title of the other side of the posting as seen
// from accountID.
func (t *Transaction) Counterparty(accountID string) string {
	if t.CreditID == accountID {
		return t.DebitTitle
	}
	return t.CreditTitle
}
