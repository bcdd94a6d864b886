// Package mocks provides hand-rolled test doubles for the usecase interfaces.
// The default behaviors act as a small in-memory store so scenario tests can
// run whole operation sequences; individual methods are overridable through
// the *Func fields.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byTitle map[string]*domain.Account
	seq     int

	GetOrCreateFunc       func(ctx context.Context, title string) (*domain.Account, error)
	GetByTitleFunc        func(ctx context.Context, title string) (*domain.Account, error)
	UpsertDailyLimitFunc  func(ctx context.Context, title string, limit decimal.Decimal) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		byID:    make(map[string]*domain.Account),
		byTitle: make(map[string]*domain.Account),
	}
}

// Seed inserts an account directly, bypassing lazy creation.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.byID[cp.ID] = &cp
	m.byTitle[cp.Title] = m.byID[cp.ID]
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, title string) (*domain.Account, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, title)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.byTitle[title]; ok {
		cp := *acc
		return &cp, nil
	}
	m.seq++
	acc := &domain.Account{
		ID:      fmt.Sprintf("acc-%03d", m.seq),
		Title:   title,
		Balance: decimal.Zero,
	}
	m.byID[acc.ID] = acc
	m.byTitle[title] = acc
	cp := *acc
	return &cp, nil
}

func (m *MockAccountRepository) GetByTitle(ctx context.Context, title string) (*domain.Account, error) {
	if m.GetByTitleFunc != nil {
		return m.GetByTitleFunc(ctx, title)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.byTitle[title]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) UpsertDailyLimit(ctx context.Context, title string, limit decimal.Decimal) (*domain.Account, error) {
	if m.UpsertDailyLimitFunc != nil {
		return m.UpsertDailyLimitFunc(ctx, title, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.byTitle[title]
	if !ok {
		m.seq++
		acc = &domain.Account{
			ID:      fmt.Sprintf("acc-%03d", m.seq),
			Title:   title,
			Balance: decimal.Zero,
		}
		m.byID[acc.ID] = acc
		m.byTitle[title] = acc
	}
	acc.DailyLimit = limit
	cp := *acc
	return &cp, nil
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if acc, ok := m.byID[id]; ok {
			cp := *acc
			accounts = append(accounts, &cp)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var accounts []*domain.Account
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(accounts) >= limit {
			break
		}
		cp := *m.byID[id]
		accounts = append(accounts, &cp)
	}
	return accounts, nil
}

// TitleOf resolves an account id to its title, for statement assertions.
func (m *MockAccountRepository) TitleOf(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.byID[id]; ok {
		return acc.Title
	}
	return ""
}

// MockTransactionRepository is an in-memory implementation of
// TransactionRepository. When Accounts is set, list results carry titles.
type MockTransactionRepository struct {
	mu       sync.RWMutex
	trns     []*domain.Transaction
	Accounts *MockAccountRepository

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, trn *domain.Transaction) error
	SumSpentSinceFunc func(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error)
	BalanceAsOfFunc   func(ctx context.Context, accountID string, at time.Time) (decimal.Decimal, error)
	ListBetweenFunc   func(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, trn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, trn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *trn
	m.trns = append(m.trns, &cp)
	return nil
}

// All returns a snapshot of every stored transaction.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Transaction, 0, len(m.trns))
	for _, trn := range m.trns {
		cp := *trn
		out = append(out, &cp)
	}
	return out
}

func (m *MockTransactionRepository) sumSpentSince(accountID string, since time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, trn := range m.trns {
		if trn.CreditID == accountID && !trn.Created.Before(since) {
			total = total.Add(trn.Amount)
		}
	}
	return total
}

func (m *MockTransactionRepository) SumSpentSince(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error) {
	if m.SumSpentSinceFunc != nil {
		return m.SumSpentSinceFunc(ctx, accountID, since)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumSpentSince(accountID, since), nil
}

func (m *MockTransactionRepository) SumSpentSinceTx(ctx context.Context, tx usecase.Transaction, accountID string, since time.Time) (decimal.Decimal, error) {
	return m.SumSpentSince(ctx, accountID, since)
}

func (m *MockTransactionRepository) BalanceAsOf(ctx context.Context, accountID string, at time.Time) (decimal.Decimal, error) {
	if m.BalanceAsOfFunc != nil {
		return m.BalanceAsOfFunc(ctx, accountID, at)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance := decimal.Zero
	for _, trn := range m.trns {
		if !trn.Created.Before(at) {
			continue
		}
		if trn.DebitID == accountID {
			balance = balance.Add(trn.Amount)
		} else if trn.CreditID == accountID {
			balance = balance.Sub(trn.Amount)
		}
	}
	return balance, nil
}

func (m *MockTransactionRepository) ListByAccountBetween(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Transaction, error) {
	if m.ListBetweenFunc != nil {
		return m.ListBetweenFunc(ctx, accountID, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, trn := range m.trns {
		if trn.CreditID != accountID && trn.DebitID != accountID {
			continue
		}
		if trn.Created.Before(start) || !trn.Created.Before(end) {
			continue
		}
		cp := *trn
		if m.Accounts != nil {
			cp.CreditTitle = m.Accounts.TitleOf(cp.CreditID)
			cp.DebitTitle = m.Accounts.TitleOf(cp.DebitID)
		}
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out, nil
}

// MockTransaction records commit/rollback calls.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	mu  sync.Mutex
	txs []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// Transactions returns every transaction handed out so far.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTransaction(nil), m.txs...)
}

// MockIDGenerator generates sequential ids.
type MockIDGenerator struct {
	mu  sync.Mutex
	seq int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("id-%06d", m.seq)
}

// MockParentChecker approves every relationship unless overridden.
type MockParentChecker struct {
	CheckParentForFunc func(ctx context.Context, token, childEmail string) (bool, error)
}

func NewMockParentChecker() *MockParentChecker {
	return &MockParentChecker{}
}

func (m *MockParentChecker) CheckParentFor(ctx context.Context, token, childEmail string) (bool, error) {
	if m.CheckParentForFunc != nil {
		return m.CheckParentForFunc(ctx, token, childEmail)
	}
	return true, nil
}
