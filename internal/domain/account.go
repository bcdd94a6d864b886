package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a ledger account keyed by its title (the owner's email, or one of
// the configured system sink names). Balance is the mutable "current" value;
// the transaction history is the authoritative record.
type Account struct {
	ID         string
	Title      string
	Balance    decimal.Decimal
	DailyLimit decimal.Decimal
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateCredit checks that the account can pay amount out of its balance.
// The credit side of a posting is the paying account; sink accounts skip this
// check entirely and are allowed to go negative.
func (a *Account) ValidateCredit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyCredit returns the balance after paying amount.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyDebit returns the balance after receiving amount.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Unlimited reports whether the account has no daily spending cap.
func (a *Account) Unlimited() bool {
	return a.DailyLimit.IsZero()
}
