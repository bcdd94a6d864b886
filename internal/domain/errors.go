package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLimitExceeded     = errors.New("daily spending limit exceeded")

	// Posting errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrSameAccount   = errors.New("credit and debit account must differ")
	ErrEmptyMemo     = errors.New("memo must not be empty")

	// Statement errors
	ErrInvalidDateRange = errors.New("date_end must be after date_start")

	// Card errors
	ErrCardExpired = errors.New("card is expired")

	// Authorization errors
	ErrForbidden           = errors.New("operation not permitted for this role")
	ErrUpstreamUnavailable = errors.New("auth service unavailable")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
)
