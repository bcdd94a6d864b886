package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	postgresRepo "github.com/badralotaibi/CS604-SHU/internal/adapter/repository/postgres"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
	"github.com/badralotaibi/CS604-SHU/tests/testutil"
)

const (
	depositSink  = "DEPOSIT"
	spendingSink = "SPENDING"
)

// allowAllParents approves every parent/child check, standing in for the
// external auth service.
type allowAllParents struct{}

func (allowAllParents) CheckParentFor(context.Context, string, string) (bool, error) {
	return true, nil
}

// ledgerStack wires repositories and use cases against a live database.
type ledgerStack struct {
	accountRepo *postgresRepo.AccountRepository
	trnRepo     *postgresRepo.TransactionRepository
	ledgerUC    *usecase.LedgerUseCase
	statementUC *usecase.StatementUseCase
	reconUC     *usecase.ReconciliationUseCase
}

func newLedgerStack(t *testing.T, testDB *testutil.TestDB) *ledgerStack {
	t.Helper()

	pool := testDB.Pool
	retrier := postgresRepo.NewRetrier(zerolog.Nop())
	idGen := postgresRepo.NewULIDGenerator()
	accountRepo := postgresRepo.NewAccountRepository(pool, testDB.Codec, idGen, retrier)
	trnRepo := postgresRepo.NewTransactionRepository(pool, testDB.Codec)
	txManager := postgresRepo.NewTxManager(pool)

	guard := usecase.NewLimitGuard(trnRepo, time.UTC)
	gateway := allowAllParents{}

	return &ledgerStack{
		accountRepo: accountRepo,
		trnRepo:     trnRepo,
		ledgerUC: usecase.NewLedgerUseCase(
			txManager, accountRepo, trnRepo, guard, gateway, idGen,
			depositSink, spendingSink,
		),
		statementUC: usecase.NewStatementUseCase(accountRepo, trnRepo, gateway, time.UTC),
		reconUC:     usecase.NewReconciliationUseCase(accountRepo, trnRepo),
	}
}
