package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

// ReconciliationUseCase verifies the reconciliation invariant: for any
// account, the stored balance equals the transaction history folded to now.
// The engine checks funds against the stored balance but reconstructs history
// from the log, so this is the watchdog for the two views diverging.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	trnRepo     TransactionRepository

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(accountRepo AccountRepository, trnRepo TransactionRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		trnRepo:     trnRepo,
		Now:         time.Now,
	}
}

// ReconciliationResult reports one account's stored balance against its
// history-derived balance.
type ReconciliationResult struct {
	Title             string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount checks a single account by title.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, title string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	return uc.reconcile(ctx, account)
}

// ReconcileAll checks every account in the system.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) ([]*ReconciliationResult, error) {
	const pageSize = 1000

	var results []*ReconciliationResult
	for offset := 0; ; offset += pageSize {
		accounts, err := uc.accountRepo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.reconcile(ctx, account)
			if err != nil {
				return nil, fmt.Errorf("reconcile %s: %w", account.ID, err)
			}
			results = append(results, result)
		}

		if len(accounts) < pageSize {
			return results, nil
		}
	}
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, account *domain.Account) (*ReconciliationResult, error) {
	now := uc.Now().UTC()

	calculated, err := uc.trnRepo.BalanceAsOf(ctx, account.ID, now)
	if err != nil {
		return nil, err
	}

	diff := account.Balance.Sub(calculated)

	return &ReconciliationResult{
		Title:             account.Title,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       now,
	}, nil
}
