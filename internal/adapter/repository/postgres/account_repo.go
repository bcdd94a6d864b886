package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/crypto"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

// querier is the subset of pgxpool.Pool used by the repositories. pgxmock
// satisfies it too.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const accountColumns = `id, title, balance, daily_limit, version, created_at, updated_at`

const (
	insertAccountIfAbsent = `INSERT INTO accounts (id, title, balance, daily_limit, version, created_at, updated_at)
VALUES ($1, $2, 0, 0, 0, $3, $3)
ON CONFLICT (title) DO NOTHING`

	selectAccountByTitle = `SELECT ` + accountColumns + ` FROM accounts WHERE title = $1`

	upsertAccountDailyLimit = `INSERT INTO accounts (id, title, balance, daily_limit, version, created_at, updated_at)
VALUES ($1, $2, 0, $3, 0, $4, $4)
ON CONFLICT (title) DO UPDATE
SET daily_limit = EXCLUDED.daily_limit,
    version     = accounts.version + 1,
    updated_at  = EXCLUDED.updated_at
RETURNING ` + accountColumns

	selectAccountsForUpdate = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	updateAccountBalance = `UPDATE accounts
SET balance = $2, version = version + 1, updated_at = $3
WHERE id = $1`

	listAccounts = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id LIMIT $1 OFFSET $2`
)

// AccountRepository implements usecase.AccountRepository on PostgreSQL.
// Titles are stored deterministically encrypted, so equality lookups and the
// unique index work directly on the ciphertext.
type AccountRepository struct {
	db      querier
	codec   *crypto.FieldCodec
	ids     usecase.IDGenerator
	retrier *Retrier
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool, codec *crypto.FieldCodec, ids usecase.IDGenerator, retrier *Retrier) *AccountRepository {
	return newAccountRepositoryWithDB(pool, codec, ids, retrier)
}

func newAccountRepositoryWithDB(db querier, codec *crypto.FieldCodec, ids usecase.IDGenerator, retrier *Retrier) *AccountRepository {
	return &AccountRepository{db: db, codec: codec, ids: ids, retrier: retrier}
}

// GetOrCreate returns the account with the given title, creating it with zero
// balance and no daily limit if it does not exist yet. Safe under concurrent
// first use of the same title.
func (r *AccountRepository) GetOrCreate(ctx context.Context, title string) (*domain.Account, error) {
	encTitle := r.codec.EncryptDeterministic(title)

	var account *domain.Account

	err := r.retrier.Retry(ctx, func() error {
		now := time.Now().UTC()
		if _, err := r.db.Exec(ctx, insertAccountIfAbsent, r.ids.Generate(), encTitle, timeToPgTimestamptz(now)); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}

		found, err := r.getByEncTitle(ctx, encTitle)
		if err != nil {
			return err
		}

		account = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetByTitle returns the account with the given title or
// domain.ErrAccountNotFound.
func (r *AccountRepository) GetByTitle(ctx context.Context, title string) (*domain.Account, error) {
	return r.getByEncTitle(ctx, r.codec.EncryptDeterministic(title))
}

func (r *AccountRepository) getByEncTitle(ctx context.Context, encTitle []byte) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, selectAccountByTitle, encTitle)

	account, err := r.scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// UpsertDailyLimit sets the daily spending limit for the account with the
// given title, creating the account first if needed.
func (r *AccountRepository) UpsertDailyLimit(ctx context.Context, title string, limit decimal.Decimal) (*domain.Account, error) {
	encTitle := r.codec.EncryptDeterministic(title)

	var account *domain.Account

	err := r.retrier.Retry(ctx, func() error {
		now := time.Now().UTC()
		row := r.db.QueryRow(ctx, upsertAccountDailyLimit,
			r.ids.Generate(), encTitle, decimalToNumeric(limit), timeToPgTimestamptz(now))

		found, err := r.scanAccount(row)
		if err != nil {
			return err
		}

		account = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetByIDsForUpdate locks and returns the accounts with the given IDs.
// Rows are locked in id order to avoid lock ordering deadlocks.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, selectAccountsForUpdate, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0, len(ids))
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance writes a new balance for the account inside the transaction.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, updateAccountBalance, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination, oldest first.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, listAccounts, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account              domain.Account
		encTitle             []byte
		balance, dailyLimit  pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&account.ID, &encTitle, &balance, &dailyLimit, &account.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	title, err := r.codec.Decrypt(encTitle)
	if err != nil {
		return nil, fmt.Errorf("decrypt title: %w", err)
	}

	account.Title = title
	account.Balance = numericToDecimal(balance)
	account.DailyLimit = numericToDecimal(dailyLimit)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
