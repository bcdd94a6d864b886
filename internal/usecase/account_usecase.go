package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

// AccountUseCase handles account lookup, lazy creation and daily limits.
// Parent-scoped operations consult the auth gateway before acting.
type AccountUseCase struct {
	accountRepo AccountRepository
	gateway     ParentChecker
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, gateway ParentChecker) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		gateway:     gateway,
	}
}

// Get returns the caller's own account.
func (uc *AccountUseCase) Get(ctx context.Context, ident domain.Identity) (*domain.Account, error) {
	return uc.accountRepo.GetByTitle(ctx, ident.Email)
}

// GetOrCreate returns the caller's account, creating it with zero balance and
// no daily limit on first reference. created reports whether a new account
// row came into existence.
func (uc *AccountUseCase) GetOrCreate(ctx context.Context, ident domain.Identity) (account *domain.Account, created bool, err error) {
	existing, err := uc.accountRepo.GetByTitle(ctx, ident.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, false, err
	}

	account, err = uc.accountRepo.GetOrCreate(ctx, ident.Email)
	if err != nil {
		return nil, false, err
	}

	return account, true, nil
}

// GetDailyLimit returns a child's daily limit to a verified parent.
// An unknown child account is a lookup failure, not a lazy creation.
func (uc *AccountUseCase) GetDailyLimit(ctx context.Context, ident domain.Identity, childEmail string) (decimal.Decimal, error) {
	if err := uc.requireParentFor(ctx, ident, childEmail); err != nil {
		return decimal.Zero, err
	}

	account, err := uc.accountRepo.GetByTitle(ctx, childEmail)
	if err != nil {
		return decimal.Zero, err
	}

	return account.DailyLimit, nil
}

// SetDailyLimit upserts the child's account with the new cap. A limit of
// zero removes the cap.
func (uc *AccountUseCase) SetDailyLimit(ctx context.Context, ident domain.Identity, childEmail string, limit decimal.Decimal) (*domain.Account, error) {
	if err := uc.requireParentFor(ctx, ident, childEmail); err != nil {
		return nil, err
	}

	if limit.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	return uc.accountRepo.UpsertDailyLimit(ctx, childEmail, limit)
}

func (uc *AccountUseCase) requireParentFor(ctx context.Context, ident domain.Identity, childEmail string) error {
	if !ident.IsParent {
		return domain.ErrForbidden
	}

	isParent, err := uc.gateway.CheckParentFor(ctx, ident.Token, childEmail)
	if err != nil {
		return err
	}
	if !isParent {
		return domain.ErrForbidden
	}

	return nil
}
