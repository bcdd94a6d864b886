package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

// StatementUseCase reconstructs historical balances and renders statements by
// folding the transaction log. It never reads the mutable balance column.
type StatementUseCase struct {
	accountRepo AccountRepository
	trnRepo     TransactionRepository
	gateway     ParentChecker
	loc         *time.Location

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewStatementUseCase creates a new StatementUseCase. loc is the ledger
// timezone used to anchor date windows at local midnight.
func NewStatementUseCase(
	accountRepo AccountRepository,
	trnRepo TransactionRepository,
	gateway ParentChecker,
	loc *time.Location,
) *StatementUseCase {
	return &StatementUseCase{
		accountRepo: accountRepo,
		trnRepo:     trnRepo,
		gateway:     gateway,
		loc:         loc,
		Now:         time.Now,
	}
}

// StatementInput selects the date window. Only the calendar date of each
// bound is used; it is anchored at midnight in the ledger timezone, so the
// location the caller parsed it in does not leak into the window. Nil
// DateStart defaults to today in the ledger timezone; nil DateEnd defaults to
// the day after DateStart.
type StatementInput struct {
	DateStart *time.Time
	DateEnd   *time.Time
}

// StatementEntry is one rendered statement line. Exactly one of Debit and
// Credit is non-zero: Debit holds the amount when the account paid, Credit
// when it received. Balance is the running balance after the entry.
type StatementEntry struct {
	Created time.Time
	Account string
	Memo    string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.Decimal
}

// Statement is an ordered, running-balance view of a date window, anchored by
// the historically reconstructed starting balance.
type Statement struct {
	BalanceStart decimal.Decimal
	Entries      []StatementEntry
}

// OwnStatement renders the caller's own statement.
func (uc *StatementUseCase) OwnStatement(ctx context.Context, ident domain.Identity, input StatementInput) (*Statement, error) {
	return uc.statement(ctx, ident.Email, input)
}

// ChildStatement renders a child's statement for a verified parent.
func (uc *StatementUseCase) ChildStatement(ctx context.Context, ident domain.Identity, childEmail string, input StatementInput) (*Statement, error) {
	if !ident.IsParent {
		return nil, domain.ErrForbidden
	}

	isParent, err := uc.gateway.CheckParentFor(ctx, ident.Token, childEmail)
	if err != nil {
		return nil, err
	}
	if !isParent {
		return nil, domain.ErrForbidden
	}

	return uc.statement(ctx, childEmail, input)
}

// BalanceAsOf reconstructs the account balance at an arbitrary instant.
func (uc *StatementUseCase) BalanceAsOf(ctx context.Context, accountID string, at time.Time) (decimal.Decimal, error) {
	return uc.trnRepo.BalanceAsOf(ctx, accountID, at)
}

func (uc *StatementUseCase) statement(ctx context.Context, title string, input StatementInput) (*Statement, error) {
	year, month, day := uc.Now().In(uc.loc).Date()
	if input.DateStart != nil {
		// Take the calendar date as parsed; converting the instant into
		// uc.loc would shift it to the previous local day west of UTC.
		year, month, day = input.DateStart.Date()
	}

	startLocal := time.Date(year, month, day, 0, 0, 0, 0, uc.loc)

	endLocal := startLocal.AddDate(0, 0, 1)
	if input.DateEnd != nil {
		endYear, endMonth, endDay := input.DateEnd.Date()
		endLocal = time.Date(endYear, endMonth, endDay, 0, 0, 0, 0, uc.loc)
	}

	if !endLocal.After(startLocal) {
		return nil, domain.ErrInvalidDateRange
	}

	account, err := uc.accountRepo.GetByTitle(ctx, title)
	if errors.Is(err, domain.ErrAccountNotFound) {
		// Unknown accounts yield an empty statement, not an error.
		return &Statement{BalanceStart: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}

	startUTC := startLocal.UTC()
	endUTC := endLocal.UTC()

	balance, err := uc.trnRepo.BalanceAsOf(ctx, account.ID, startUTC)
	if err != nil {
		return nil, err
	}

	trns, err := uc.trnRepo.ListByAccountBetween(ctx, account.ID, startUTC, endUTC)
	if err != nil {
		return nil, err
	}

	stmt := &Statement{
		BalanceStart: balance,
		Entries:      make([]StatementEntry, 0, len(trns)),
	}

	for _, trn := range trns {
		entry := StatementEntry{
			Created: trn.Created,
			Account: trn.Counterparty(account.ID),
			Memo:    trn.Memo,
		}

		if trn.CreditID == account.ID {
			entry.Debit = trn.Amount
			balance = balance.Sub(trn.Amount)
		} else {
			entry.Credit = trn.Amount
			balance = balance.Add(trn.Amount)
		}

		entry.Balance = balance
		stmt.Entries = append(stmt.Entries, entry)
	}

	return stmt, nil
}
