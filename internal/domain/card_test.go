package domain

import (
	"testing"
	"time"
)

func TestCard_Expired(t *testing.T) {
	today := time.Date(2026, time.August, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		expMonth int
		expYear  int
		expired  bool
	}{
		{
			name:     "expires next year",
			expMonth: 8,
			expYear:  27,
			expired:  false,
		},
		{
			name:     "expires next month",
			expMonth: 9,
			expYear:  26,
			expired:  false,
		},
		{
			name:     "expires current month",
			expMonth: 8,
			expYear:  26,
			expired:  true,
		},
		{
			name:     "expired last month",
			expMonth: 7,
			expYear:  26,
			expired:  true,
		},
		{
			name:     "expired last year",
			expMonth: 12,
			expYear:  25,
			expired:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Card{Number: "4111111111111111", ExpMonth: tt.expMonth, ExpYear: tt.expYear, CVC: "123"}

			if got := card.Expired(today); got != tt.expired {
				t.Errorf("Expired() = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestCard_MaskedNumber(t *testing.T) {
	card := Card{Number: "4111111111111234"}

	if got := card.MaskedNumber(); got != "************1234" {
		t.Errorf("MaskedNumber() = %q", got)
	}
}

func TestCard_DepositMemo(t *testing.T) {
	card := Card{Number: "4111111111111234", ExpMonth: 5, ExpYear: 27, CVC: "123"}

	memo := card.DepositMemo()
	want := "Deposit from card number ************1234, expires 05/27"
	if memo != want {
		t.Errorf("DepositMemo() = %q, want %q", memo, want)
	}
}
