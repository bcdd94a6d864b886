package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

// TransferMemo is the memo recorded on parent-to-child postings.
const TransferMemo = "transfer"

// LedgerUseCase orchestrates deposit, transfer and spend as atomic postings.
// Every operation funnels through post(), the unit of isolation: balances are
// re-read under row locks, preconditions re-checked against that fresh read,
// and the transaction row plus both balance updates commit as one unit or not
// at all. The engine never retries; retry policy belongs to the caller.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	trnRepo     TransactionRepository
	guard       *LimitGuard
	gateway     ParentChecker
	idGen       IDGenerator

	depositSink  string
	spendingSink string

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase. depositSink and spendingSink
// are the titles of the two system accounts postings settle against.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	trnRepo TransactionRepository,
	guard *LimitGuard,
	gateway ParentChecker,
	idGen IDGenerator,
	depositSink, spendingSink string,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		trnRepo:      trnRepo,
		guard:        guard,
		gateway:      gateway,
		idGen:        idGen,
		depositSink:  depositSink,
		spendingSink: spendingSink,
		Now:          time.Now,
	}
}

// Deposit posts amount from the deposit sink to the caller's own account,
// funded by card. The card is already pattern-validated; only the expiry rule
// is enforced here. The sink has no funds precondition and may go negative,
// since it represents external money entering the system.
func (uc *LedgerUseCase) Deposit(ctx context.Context, ident domain.Identity, card domain.Card, amount decimal.Decimal) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if card.Expired(uc.Now().UTC()) {
		return nil, domain.ErrCardExpired
	}

	sink, err := uc.accountRepo.GetOrCreate(ctx, uc.depositSink)
	if err != nil {
		return nil, err
	}

	payer, err := uc.accountRepo.GetOrCreate(ctx, ident.Email)
	if err != nil {
		return nil, err
	}

	return uc.post(ctx, posting{
		credit: sink,
		debit:  payer,
		amount: amount,
		memo:   card.DepositMemo(),
	})
}

// Transfer posts amount from the parent's account to the child's account.
// The child account is created lazily; the parent must exist and hold at
// least amount at the instant of posting.
func (uc *LedgerUseCase) Transfer(ctx context.Context, ident domain.Identity, childEmail string, amount decimal.Decimal) (*domain.Transaction, error) {
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

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	parent, err := uc.accountRepo.GetByTitle(ctx, ident.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, err
	}

	if err := parent.ValidateCredit(amount); err != nil {
		return nil, err
	}

	child, err := uc.accountRepo.GetOrCreate(ctx, childEmail)
	if err != nil {
		return nil, err
	}

	return uc.post(ctx, posting{
		credit:     parent,
		debit:      child,
		amount:     amount,
		memo:       TransferMemo,
		checkFunds: true,
	})
}

// Spend posts amount from the student's account to the spending sink.
// Preconditions, in order: non-empty memo, sufficient balance, daily cap.
// Balance and cap are both re-checked inside the posting transaction.
func (uc *LedgerUseCase) Spend(ctx context.Context, ident domain.Identity, memo string, amount decimal.Decimal) (*domain.Transaction, error) {
	if !ident.IsStudent {
		return nil, domain.ErrForbidden
	}

	if err := domain.ValidateMemo(memo); err != nil {
		return nil, err
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	student, err := uc.accountRepo.GetByTitle(ctx, ident.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, err
	}

	if err := student.ValidateCredit(amount); err != nil {
		return nil, err
	}

	if err := uc.guard.Check(ctx, student, amount); err != nil {
		return nil, err
	}

	sink, err := uc.accountRepo.GetOrCreate(ctx, uc.spendingSink)
	if err != nil {
		return nil, err
	}

	return uc.post(ctx, posting{
		credit:     student,
		debit:      sink,
		amount:     amount,
		memo:       memo,
		checkFunds: true,
		checkLimit: true,
	})
}

// posting describes one atomic transition between a pair of balances.
type posting struct {
	credit *domain.Account
	debit  *domain.Account
	amount decimal.Decimal
	memo   string

	// checkFunds re-validates credit.balance >= amount against the locked
	// read. Deposits leave it off: the deposit sink may go negative.
	checkFunds bool
	// checkLimit re-validates the daily cap against the locked read.
	checkLimit bool
}

// post appends one transaction and adjusts both balances in a single store
// transaction. Rows are locked in sorted id order to prevent deadlocks
// between concurrent postings on overlapping account pairs.
func (uc *LedgerUseCase) post(ctx context.Context, p posting) (*domain.Transaction, error) {
	ids := []string{p.credit.ID, p.debit.ID}
	sort.Strings(ids)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	var credit, debit *domain.Account
	for _, a := range accounts {
		switch a.ID {
		case p.credit.ID:
			credit = a
		case p.debit.ID:
			debit = a
		}
	}
	if credit == nil || debit == nil {
		return nil, domain.ErrAccountNotFound
	}

	if p.checkFunds {
		if err := credit.ValidateCredit(p.amount); err != nil {
			return nil, err
		}
	}

	if p.checkLimit {
		if err := uc.guard.CheckTx(ctx, tx, credit, p.amount); err != nil {
			return nil, err
		}
	}

	now := uc.Now().UTC()

	trn := &domain.Transaction{
		ID:       uc.idGen.Generate(),
		Created:  now,
		Amount:   p.amount,
		Memo:     p.memo,
		CreditID: credit.ID,
		DebitID:  debit.ID,
	}

	if err := trn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.trnRepo.Create(ctx, tx, trn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, credit.ID, credit.ApplyCredit(p.amount), now); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, debit.ID, debit.ApplyDebit(p.amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit posting: %w", err)
	}

	return trn, nil
}
