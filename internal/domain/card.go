package domain

import (
	"fmt"
	"time"
)

// Card is a payment card proof attached to a deposit. Number is stored
// normalized to 16 digits, ExpYear as the two-digit 20YY form.
type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

// Expired reports whether the card expiry is not strictly in the future.
// The comparison point is the first day of the expiry month: a card whose
// expiry month is the current month is already expired.
func (c Card) Expired(today time.Time) bool {
	expiry := time.Date(2000+c.ExpYear, time.Month(c.ExpMonth), 1, 0, 0, 0, 0, time.UTC)
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	return !expiry.After(midnight)
}

// MaskedNumber returns the card number with all but the last four digits
// replaced, safe for memos and logs.
func (c Card) MaskedNumber() string {
	if len(c.Number) < 4 {
		return "****"
	}
	return "************" + c.Number[len(c.Number)-4:]
}

// DepositMemo renders the memo recorded on a deposit posting. It references
// only masked card fields; the CVC is never persisted.
func (c Card) DepositMemo() string {
	return fmt.Sprintf("Deposit from card number %s, expires %02d/%02d",
		c.MaskedNumber(), c.ExpMonth, c.ExpYear)
}
