package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
	"github.com/badralotaibi/CS604-SHU/tests/testutil"
)

func TestStatementRunningBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	stack := newLedgerStack(t, testDB)
	student := domain.Identity{Email: "kid@example.com", IsParent: false, IsStudent: true}

	if _, err := stack.ledgerUC.Deposit(ctx, student, testCard, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := stack.ledgerUC.Spend(ctx, student, "lunch", decimal.NewFromInt(30)); err != nil {
		t.Fatalf("spend failed: %v", err)
	}

	stmt, err := stack.statementUC.OwnStatement(ctx, student, usecase.StatementInput{})
	if err != nil {
		t.Fatalf("statement failed: %v", err)
	}

	if !stmt.BalanceStart.IsZero() {
		t.Errorf("balanceStart = %s, want 0", stmt.BalanceStart)
	}
	if len(stmt.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(stmt.Entries))
	}

	first, second := stmt.Entries[0], stmt.Entries[1]

	if !first.Credit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("first entry credit = %s, want 100", first.Credit)
	}
	if !first.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("first entry balance = %s, want 100", first.Balance)
	}
	if first.Account != depositSink {
		t.Errorf("first entry account = %q, want %q", first.Account, depositSink)
	}

	if !second.Debit.Equal(decimal.NewFromInt(30)) {
		t.Errorf("second entry debit = %s, want 30", second.Debit)
	}
	if !second.Balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("second entry balance = %s, want 70", second.Balance)
	}
	if second.Memo != "lunch" {
		t.Errorf("second entry memo = %q", second.Memo)
	}
}

func TestReconciliationMatchesHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	stack := newLedgerStack(t, testDB)
	student := domain.Identity{Email: "kid@example.com", IsStudent: true}

	if _, err := stack.ledgerUC.Deposit(ctx, student, testCard, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := stack.ledgerUC.Spend(ctx, student, "lunch", decimal.NewFromInt(30)); err != nil {
		t.Fatalf("spend failed: %v", err)
	}

	result, err := stack.reconUC.ReconcileAccount(ctx, student.Email)
	if err != nil {
		t.Fatalf("reconciliation failed: %v", err)
	}
	if !result.IsReconciled {
		t.Errorf("expected reconciled account, difference = %s", result.Difference)
	}

	// Corrupt the stored balance behind the ledger's back.
	acc, _ := stack.accountRepo.GetByTitle(ctx, student.Email)
	if _, err := testDB.Pool.Exec(ctx, `UPDATE accounts SET balance = balance + 5 WHERE id = $1`, acc.ID); err != nil {
		t.Fatalf("failed to corrupt balance: %v", err)
	}

	result, err = stack.reconUC.ReconcileAccount(ctx, student.Email)
	if err != nil {
		t.Fatalf("reconciliation failed: %v", err)
	}
	if result.IsReconciled {
		t.Error("expected drift to be detected")
	}
	if !result.Difference.Equal(decimal.NewFromInt(5)) {
		t.Errorf("difference = %s, want 5", result.Difference)
	}
}
