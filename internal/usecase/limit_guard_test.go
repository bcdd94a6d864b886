package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
	"github.com/badralotaibi/CS604-SHU/internal/usecase/mocks"
)

func TestLimitGuard_DayStartUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	guard := usecase.NewLimitGuard(mocks.NewMockTransactionRepository(), est)

	// 03:00 UTC is still the previous local day in EST.
	ref := time.Date(2026, time.March, 10, 3, 0, 0, 0, time.UTC)
	got := guard.DayStartUTC(ref)
	want := time.Date(2026, time.March, 9, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayStartUTC = %s, want %s", got, want)
	}

	// Midday UTC is the same local day; midnight is five hours into UTC.
	ref = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	got = guard.DayStartUTC(ref)
	want = time.Date(2026, time.March, 10, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayStartUTC = %s, want %s", got, want)
	}
}

func TestLimitGuard_SpentTodayCountsCreditSideOnly(t *testing.T) {
	trns := mocks.NewMockTransactionRepository()
	guard := usecase.NewLimitGuard(trns, time.UTC)

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	guard.Now = func() time.Time { return now }

	ctx := context.Background()
	seed := []*domain.Transaction{
		// Spent today.
		{ID: "t1", Created: now.Add(-time.Hour), Amount: decimal.NewFromInt(15), CreditID: "acc-kid", DebitID: "acc-sink"},
		// Received today: never counts toward the cap.
		{ID: "t2", Created: now.Add(-time.Hour), Amount: decimal.NewFromInt(100), CreditID: "acc-dad", DebitID: "acc-kid"},
		// Spent yesterday.
		{ID: "t3", Created: now.AddDate(0, 0, -1), Amount: decimal.NewFromInt(40), CreditID: "acc-kid", DebitID: "acc-sink"},
	}
	for _, trn := range seed {
		if err := trns.Create(ctx, nil, trn); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	spent, err := guard.SpentToday(ctx, "acc-kid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !spent.Equal(decimal.NewFromInt(15)) {
		t.Errorf("SpentToday = %s, want 15", spent)
	}
}

func TestLimitGuard_Check(t *testing.T) {
	tests := []struct {
		name    string
		limit   decimal.Decimal
		spent   decimal.Decimal
		amount  decimal.Decimal
		wantErr error
	}{
		{
			name:   "zero limit is unlimited",
			limit:  decimal.Zero,
			spent:  decimal.NewFromInt(100000),
			amount: decimal.NewFromInt(100000),
		},
		{
			name:   "under the cap",
			limit:  decimal.NewFromInt(50),
			spent:  decimal.NewFromInt(20),
			amount: decimal.NewFromInt(30),
		},
		{
			name:    "over the cap",
			limit:   decimal.NewFromInt(50),
			spent:   decimal.NewFromInt(40),
			amount:  decimal.NewFromInt(20),
			wantErr: domain.ErrLimitExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trns := mocks.NewMockTransactionRepository()
			trns.SumSpentSinceFunc = func(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error) {
				return tt.spent, nil
			}

			guard := usecase.NewLimitGuard(trns, time.UTC)
			account := &domain.Account{ID: "acc-kid", DailyLimit: tt.limit}

			err := guard.Check(context.Background(), account, tt.amount)

			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
