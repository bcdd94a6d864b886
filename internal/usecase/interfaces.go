package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

// AccountRepository defines data access for accounts. Accounts are created
// lazily and never deleted; GetOrCreate must be safe when two callers race on
// the same unseen title.
type AccountRepository interface {
	GetOrCreate(ctx context.Context, title string) (*domain.Account, error)
	GetByTitle(ctx context.Context, title string) (*domain.Account, error)
	UpsertDailyLimit(ctx context.Context, title string, limit decimal.Decimal) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for the append-only transaction
// log. Rows are immutable once created.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, trn *domain.Transaction) error
	// SumSpentSince sums amounts where the account is the credit (paying)
	// side and created >= since.
	SumSpentSince(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error)
	// SumSpentSinceTx is SumSpentSince against an open transaction, so the
	// daily cap can be re-checked under the account row lock.
	SumSpentSinceTx(ctx context.Context, tx Transaction, accountID string, since time.Time) (decimal.Decimal, error)
	// BalanceAsOf folds the transaction history into the balance just before
	// at. It never reads the mutable balance column.
	BalanceAsOf(ctx context.Context, accountID string, at time.Time) (decimal.Decimal, error)
	// ListByAccountBetween returns transactions touching the account with
	// start <= created < end, ordered by created then id ascending, with
	// both account titles populated.
	ListByAccountBetween(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Transaction, error)
}

// ParentChecker answers parent/child relationship checks against the external
// auth service. Transport failures surface as domain.ErrUpstreamUnavailable so
// callers can tell "could not check" from "was denied".
type ParentChecker interface {
	CheckParentFor(ctx context.Context, token, childEmail string) (bool, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
