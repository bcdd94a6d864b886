package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCardNumber = errors.New("invalid card number")
	ErrInvalidExpMonth   = errors.New("invalid expiration month")
	ErrInvalidExpYear    = errors.New("invalid expiration year")
	ErrInvalidCVC        = errors.New("invalid cvc")
	ErrInvalidMemo       = errors.New("invalid memo")
	ErrInvalidTitle      = errors.New("invalid account title")
)

// Validation constants
const (
	MaxMemoLength  = 256
	MaxTitleLength = 120
)

var (
	cardNumberRe = regexp.MustCompile(`^([0-9]{4})[ -]?([0-9]{4})[ -]?([0-9]{4})[ -]?([0-9]{4})$`)
	cvcRe        = regexp.MustCompile(`^[0-9]{3}$`)
	amountRe     = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// ParseCard validates the raw card fields and returns a normalized Card.
// The number accepts four groups of four digits with optional space or dash
// separators and is normalized to bare digits.
func ParseCard(number string, expMonth, expYear, cvc string) (Card, error) {
	match := cardNumberRe.FindStringSubmatch(strings.TrimSpace(number))
	if match == nil {
		return Card{}, ErrInvalidCardNumber
	}

	month, err := strconv.Atoi(strings.TrimSpace(expMonth))
	if err != nil || month < 1 || month > 12 {
		return Card{}, ErrInvalidExpMonth
	}

	year, err := strconv.Atoi(strings.TrimSpace(expYear))
	if err != nil || year < 0 || year > 99 {
		return Card{}, ErrInvalidExpYear
	}

	if !cvcRe.MatchString(strings.TrimSpace(cvc)) {
		return Card{}, ErrInvalidCVC
	}

	return Card{
		Number:   strings.Join(match[1:], ""),
		ExpMonth: month,
		ExpYear:  year,
		CVC:      strings.TrimSpace(cvc),
	}, nil
}

// ParseAmount parses a posting amount: digits with at most two decimal
// places, strictly positive.
func ParseAmount(val string) (decimal.Decimal, error) {
	val = strings.TrimSpace(val)
	if !amountRe.MatchString(val) {
		return decimal.Zero, fmt.Errorf("%w: %q is not a valid amount", ErrInvalidAmount, val)
	}

	amount, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a valid amount", ErrInvalidAmount, val)
	}

	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	return amount, nil
}

// ParseLimitAmount parses a daily limit: same format as ParseAmount but zero
// is allowed (zero means unlimited).
func ParseLimitAmount(val string) (decimal.Decimal, error) {
	val = strings.TrimSpace(val)
	if !amountRe.MatchString(val) {
		return decimal.Zero, fmt.Errorf("%w: %q is not a valid amount", ErrInvalidAmount, val)
	}

	return decimal.NewFromString(val)
}

// ValidateMemo checks a spend memo: required, bounded length.
func ValidateMemo(memo string) error {
	memo = strings.TrimSpace(memo)

	if memo == "" {
		return ErrEmptyMemo
	}

	if len(memo) > MaxMemoLength {
		return fmt.Errorf("%w: memo exceeds %d characters", ErrInvalidMemo, MaxMemoLength)
	}

	return nil
}

// ValidateTitle checks an account title (an email or a sink name).
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)

	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidTitle)
	}

	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidTitle, MaxTitleLength)
	}

	return nil
}
