package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order: id, type, amount, category, division, description, transaction_date,
// source_account, target_account, created_at, updated_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr, divisionStr string

	var source, target sql.NullString

	if err := s.Scan(
		&tx.ID, &typeStr, &tx.Amount, &tx.Category, &divisionStr, &tx.Description, &tx.TransactionDate,
		&source, &target,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Division = transaction.Division(divisionStr)
	tx.SourceAccount = source.String
	tx.TargetAccount = target.String
	tx.TransactionDate = tx.TransactionDate.UTC()
	tx.CreatedAt = tx.CreatedAt.UTC()
	tx.UpdatedAt = tx.UpdatedAt.UTC()

	return &tx, nil
}

const selectTransactionColumns = `
	id, type, amount, category, division, description, transaction_date,
	source_account, target_account, created_at, updated_at
`

const insertTransaction = `
	INSERT INTO transactions (type, amount, category, division, description, transaction_date,
		source_account, target_account, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id
`

func insertArgs(tx *transaction.Transaction) []any {
	return []any{
		tx.Type,
		tx.Amount,
		tx.Category,
		tx.Division,
		tx.Description,
		tx.TransactionDate,
		nullString(tx.SourceAccount),
		nullString(tx.TargetAccount),
		tx.CreatedAt,
		tx.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	var id uuid.UUID

	err := s.db.QueryRowContext(ctx, insertTransaction, insertArgs(tx)...).Scan(&id)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	tx.ID = id

	return nil
}

// CreateTransactions inserts all rows inside one database transaction. Ids are
// only assigned once the commit succeeds.
func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, insertTransaction)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]uuid.UUID, len(txs))

	for i, tx := range txs {
		if err := stmt.QueryRowContext(ctx, insertArgs(tx)...).Scan(&ids[i]); err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	for i, tx := range txs {
		tx.ID = ids[i]
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, category = $3, division = $4, description = $5,
			transaction_date = $6, source_account = $7, target_account = $8, updated_at = $9
		WHERE id = $10
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Type,
		tx.Amount,
		tx.Category,
		tx.Division,
		tx.Description,
		tx.TransactionDate,
		nullString(tx.SourceAccount),
		nullString(tx.TargetAccount),
		tx.UpdatedAt,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return expectAffected(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) ListPage(ctx context.Context, offset, limit int) ([]*transaction.Transaction, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting transactions: %w", err)
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		ORDER BY transaction_date DESC, id
		LIMIT $1 OFFSET $2`

	txs, err := s.query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.StartDate != nil {
		add("transaction_date >= $%d", filter.StartDate.UTC())
	}

	if filter.EndDate != nil {
		add("transaction_date < $%d", filter.EndDate.UTC())
	}

	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}

	if filter.Division != nil {
		add("division = $%d", *filter.Division)
	}

	query := `SELECT ` + selectTransactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY transaction_date DESC, id"

	return s.query(ctx, query, args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	txs := []*transaction.Transaction{}

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) SumAmount(ctx context.Context, window transaction.Window, txType transaction.Type) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE transaction_date >= $1 AND transaction_date < $2 AND type = $3
	`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, window.Start, window.End, txType).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing amounts: %w", err)
	}

	return total, nil
}

func (s *Store) SumByCategory(ctx context.Context, window transaction.Window) ([]transaction.CategoryTotal, error) {
	query := `
		SELECT category, type, SUM(amount)
		FROM transactions
		WHERE transaction_date >= $1 AND transaction_date < $2
		GROUP BY category, type
		ORDER BY category, type
	`

	rows, err := s.db.QueryContext(ctx, query, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("summing by category: %w", err)
	}
	defer rows.Close()

	totals := []transaction.CategoryTotal{}

	for rows.Next() {
		var (
			ct      transaction.CategoryTotal
			typeStr string
		)

		if err := rows.Scan(&ct.Category, &typeStr, &ct.TotalAmount); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}

		ct.Type = transaction.Type(typeStr)
		totals = append(totals, ct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category totals: %w", err)
	}

	return totals, nil
}
