package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/crypto"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

const (
	insertTransaction = `INSERT INTO transactions (id, created, amount, memo, credit_id, debit_id)
VALUES ($1, $2, $3, $4, $5, $6)`

	sumSpentSince = `SELECT COALESCE(SUM(amount), 0)
FROM transactions
WHERE credit_id = $1 AND created >= $2`

	sumBalanceAsOf = `SELECT COALESCE(SUM(CASE WHEN debit_id = $1 THEN amount ELSE -amount END), 0)
FROM transactions
WHERE (debit_id = $1 OR credit_id = $1) AND created < $2`

	listTransactionsBetween = `SELECT t.id, t.created, t.amount, t.memo, t.credit_id, t.debit_id, ca.title, da.title
FROM transactions t
JOIN accounts ca ON ca.id = t.credit_id
JOIN accounts da ON da.id = t.debit_id
WHERE (t.credit_id = $1 OR t.debit_id = $1) AND t.created >= $2 AND t.created < $3
ORDER BY t.created ASC, t.id ASC`
)

// TransactionRepository implements usecase.TransactionRepository on
// PostgreSQL. Rows are insert-only; there is no update or delete path.
type TransactionRepository struct {
	db    querier
	codec *crypto.FieldCodec
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool, codec *crypto.FieldCodec) *TransactionRepository {
	return newTransactionRepositoryWithDB(pool, codec)
}

func newTransactionRepositoryWithDB(db querier, codec *crypto.FieldCodec) *TransactionRepository {
	return &TransactionRepository{db: db, codec: codec}
}

// Create appends a transaction row inside the open database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, trn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	encMemo, err := r.codec.Encrypt(trn.Memo)
	if err != nil {
		return fmt.Errorf("encrypt memo: %w", err)
	}

	_, err = pgxTx.Exec(ctx, insertTransaction,
		trn.ID,
		timeToPgTimestamptz(trn.Created),
		decimalToNumeric(trn.Amount),
		encMemo,
		trn.CreditID,
		trn.DebitID,
	)

	return err
}

// SumSpentSince sums the amounts the account paid out since the given time.
func (r *TransactionRepository) SumSpentSince(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error) {
	return r.sumSpent(ctx, r.db, accountID, since)
}

// SumSpentSinceTx is SumSpentSince inside an open transaction, so the daily
// cap can be re-checked while the account rows are locked.
func (r *TransactionRepository) SumSpentSinceTx(ctx context.Context, tx usecase.Transaction, accountID string, since time.Time) (decimal.Decimal, error) {
	return r.sumSpent(ctx, tx.(*Tx).PgxTx(), accountID, since)
}

func (r *TransactionRepository) sumSpent(ctx context.Context, db querier, accountID string, since time.Time) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := db.QueryRow(ctx, sumSpentSince, accountID, timeToPgTimestamptz(since)).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// BalanceAsOf folds the transaction history into the account balance just
// before at. It never reads the balance column, which makes it usable as an
// independent reconciliation source.
func (r *TransactionRepository) BalanceAsOf(ctx context.Context, accountID string, at time.Time) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := r.db.QueryRow(ctx, sumBalanceAsOf, accountID, timeToPgTimestamptz(at)).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// ListByAccountBetween returns transactions touching the account with
// start <= created < end, oldest first, ties broken by id. Counterparty
// titles are joined in so statements need no extra lookups.
func (r *TransactionRepository) ListByAccountBetween(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, listTransactionsBetween, accountID, timeToPgTimestamptz(start), timeToPgTimestamptz(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trns []*domain.Transaction
	for rows.Next() {
		var (
			trn     domain.Transaction
			amount  pgtype.Numeric
			created pgtype.Timestamptz
		)

		var encMemo, encCred, encDeb []byte

		if err := rows.Scan(&trn.ID, &created, &amount, &encMemo, &trn.CreditID, &trn.DebitID, &encCred, &encDeb); err != nil {
			return nil, err
		}

		memo, err := r.codec.Decrypt(encMemo)
		if err != nil {
			return nil, fmt.Errorf("decrypt memo: %w", err)
		}

		creditTitle, err := r.codec.Decrypt(encCred)
		if err != nil {
			return nil, fmt.Errorf("decrypt credit title: %w", err)
		}

		debitTitle, err := r.codec.Decrypt(encDeb)
		if err != nil {
			return nil, fmt.Errorf("decrypt debit title: %w", err)
		}

		trn.Created = created.Time
		trn.Amount = numericToDecimal(amount)
		trn.Memo = memo
		trn.CreditTitle = creditTitle
		trn.DebitTitle = debitTitle

		trns = append(trns, &trn)
	}

	return trns, rows.Err()
}
