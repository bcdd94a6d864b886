package dto

import (
	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

// LoginRequest carries credentials forwarded to the auth service.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DepositRequest funds the caller's account by card. Amounts arrive as
// strings so trailing zeros and precision survive the wire.
type DepositRequest struct {
	CardNumber string `json:"card_number"`
	ExpYear    string `json:"exp_year"`
	ExpMonth   string `json:"exp_month"`
	CVC        string `json:"cvc"`
	Amount     string `json:"amount"`
}

// Card validates and normalizes the card fields.
func (r *DepositRequest) Card() (domain.Card, error) {
	return domain.ParseCard(r.CardNumber, r.ExpMonth, r.ExpYear, r.CVC)
}

// SendMoneyRequest moves money from the parent to a child.
type SendMoneyRequest struct {
	ChildEmail string `json:"child_email"`
	Amount     string `json:"amount"`
}

// SpendRequest records a student purchase.
type SpendRequest struct {
	Memo   string `json:"memo"`
	Amount string `json:"amount"`
}

// DailyLimitRequest sets a child's daily spending cap. "0" removes the cap.
type DailyLimitRequest struct {
	ChildEmail string `json:"child_email"`
	DailyLimit string `json:"daily_limit"`
}
