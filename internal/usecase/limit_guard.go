package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

// LimitGuard computes same-day spend and enforces the per-account daily cap.
// Only credit-side transactions count toward the cap; received funds never do.
// The day boundary is local midnight in the ledger timezone, converted to UTC.
type LimitGuard struct {
	trnRepo TransactionRepository
	loc     *time.Location

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewLimitGuard creates a new LimitGuard.
func NewLimitGuard(trnRepo TransactionRepository, loc *time.Location) *LimitGuard {
	return &LimitGuard{
		trnRepo: trnRepo,
		loc:     loc,
		Now:     time.Now,
	}
}

// DayStartUTC returns local midnight of ref's day in the guard timezone,
// converted to UTC.
func (g *LimitGuard) DayStartUTC(ref time.Time) time.Time {
	local := ref.In(g.loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, g.loc)

	return midnight.UTC()
}

// SpentToday returns the account's cumulative spend since local midnight.
func (g *LimitGuard) SpentToday(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return g.trnRepo.SumSpentSince(ctx, accountID, g.DayStartUTC(g.Now()))
}

// Check fails with domain.ErrLimitExceeded when spending amount would push
// the account past its daily cap. A zero cap means unlimited.
func (g *LimitGuard) Check(ctx context.Context, account *domain.Account, amount decimal.Decimal) error {
	if account.Unlimited() {
		return nil
	}

	spent, err := g.SpentToday(ctx, account.ID)
	if err != nil {
		return err
	}

	if spent.Add(amount).GreaterThan(account.DailyLimit) {
		return domain.ErrLimitExceeded
	}

	return nil
}

// CheckTx is Check evaluated inside an open store transaction, after the
// account row has been locked, so two concurrent spends cannot both pass on a
// stale same-day sum.
func (g *LimitGuard) CheckTx(ctx context.Context, tx Transaction, account *domain.Account, amount decimal.Decimal) error {
	if account.Unlimited() {
		return nil
	}

	spent, err := g.trnRepo.SumSpentSinceTx(ctx, tx, account.ID, g.DayStartUTC(g.Now()))
	if err != nil {
		return err
	}

	if spent.Add(amount).GreaterThan(account.DailyLimit) {
		return domain.ErrLimitExceeded
	}

	return nil
}
