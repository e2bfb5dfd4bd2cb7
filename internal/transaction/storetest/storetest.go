//go:build integration

// Package storetest checks a transaction.Repository against the behaviour
// every storage backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

// Factory returns a repository over empty storage.
type Factory func(t *testing.T) transaction.Repository

var created = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func newTx(typ transaction.Type, amount, category string, division transaction.Division, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		Type:            typ,
		Amount:          decimal.RequireFromString(amount),
		Category:        category,
		Division:        division,
		Description:     category + " " + amount,
		TransactionDate: date,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 12, 0, 0, 0, time.UTC)
}

// Run executes the shared repository checks as subtests.
func Run(t *testing.T, newRepo Factory) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newRepo(t)) })
	t.Run("FailedCreateKeepsIDs", func(t *testing.T) { testFailedCreateKeepsIDs(t, newRepo(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newRepo(t)) })
	t.Run("UpdateAndDelete", func(t *testing.T) { testUpdateAndDelete(t, newRepo(t)) })
	t.Run("ListPage", func(t *testing.T) { testListPage(t, newRepo(t)) })
	t.Run("ListTransactions", func(t *testing.T) { testListTransactions(t, newRepo(t)) })
	t.Run("Sums", func(t *testing.T) { testSums(t, newRepo(t)) })
}

func testFailedCreateKeepsIDs(t *testing.T, repo transaction.Repository) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tx := newTx(transaction.TypeExpense, "5", "food", transaction.DivisionPersonal, day(time.January, 10))
	require.Error(t, repo.CreateTransaction(ctx, tx))
	assert.Equal(t, uuid.Nil, tx.ID)

	batch := []*transaction.Transaction{
		newTx(transaction.TypeExpense, "1", "food", transaction.DivisionPersonal, day(time.January, 11)),
		newTx(transaction.TypeIncome, "2", "salary", transaction.DivisionPersonal, day(time.January, 12)),
	}
	require.Error(t, repo.CreateTransactions(ctx, batch))

	for _, tx := range batch {
		assert.Equal(t, uuid.Nil, tx.ID)
	}
}

func testCreateAndGet(t *testing.T, repo transaction.Repository) {
	ctx := context.Background()

	tx := newTx(transaction.TypeTransfer, "1234.5678", "savings", transaction.DivisionOffice, day(time.January, 10))
	tx.SourceAccount = "checking"
	tx.TargetAccount = "savings"

	require.NoError(t, repo.CreateTransaction(ctx, tx))
	require.NotEqual(t, uuid.Nil, tx.ID)

	got, err := repo.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)

	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, tx.Type, got.Type)
	assert.True(t, tx.Amount.Equal(got.Amount), "amount %s != %s", tx.Amount, got.Amount)
	assert.Equal(t, tx.Category, got.Category)
	assert.Equal(t, tx.Division, got.Division)
	assert.Equal(t, tx.Description, got.Description)
	assert.True(t, tx.TransactionDate.Equal(got.TransactionDate))
	assert.Equal(t, "checking", got.SourceAccount)
	assert.Equal(t, "savings", got.TargetAccount)
	assert.True(t, created.Equal(got.CreatedAt))
}

func testNotFound(t *testing.T, repo transaction.Repository) {
	ctx := context.Background()
	id := uuid.New()

	_, err := repo.GetTransaction(ctx, id)
	assert.ErrorIs(t, err, transaction.ErrNotFound)

	tx := newTx(transaction.TypeExpense, "1", "food", transaction.DivisionPersonal, day(time.January, 1))
	tx.ID = id
	assert.ErrorIs(t, repo.UpdateTransaction(ctx, tx), transaction.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteTransaction(ctx, id), transaction.ErrNotFound)
}

func testUpdateAndDelete(t *testing.T, repo transaction.Repository) {
	ctx := context.Background()

	tx := newTx(transaction.TypeExpense, "10", "food", transaction.DivisionPersonal, day(time.January, 5))
	require.NoError(t, repo.CreateTransaction(ctx, tx))

	tx.Amount = decimal.RequireFromString("11.25")
	tx.Category = "groceries"
	tx.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, repo.UpdateTransaction(ctx, tx))

	got, err := repo.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("11.25").Equal(got.Amount))
	assert.Equal(t, "groceries", got.Category)
	assert.True(t, tx.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, repo.DeleteTransaction(ctx, tx.ID))

	_, err = repo.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func testListPage(t *testing.T, repo transaction.Repository) {
	ctx := context.Background()

	txs := make([]*transaction.Transaction, 5)
	for i := range txs {
		txs[i] = newTx(transaction.TypeExpense, "1", "food", transaction.DivisionPersonal, day(time.January, i+1))
	}

	require.NoError(t, repo.CreateTransactions(ctx, txs))

	for _, tx := range txs {
		assert.NotEqual(t, uuid.Nil, tx.ID)
	}

	first, total, err := repo.ListPage(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, first, 2)
	assert.True(t, day(time.January, 5).Equal(first[0].TransactionDate), "newest first")
	assert.True(t, day(time.January, 4).Equal(first[1].TransactionDate))

	last, total, err := repo.ListPage(ctx, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, last, 1)
	assert.True(t, day(time.January, 1).Equal(last[0].TransactionDate))

	beyond, _, err := repo.ListPage(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func testListTransactions(t *testing.T, repo transaction.Repository) {
	ctx := context.Background()

	lastSecond := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	nextMonth := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateTransactions(ctx, []*transaction.Transaction{
		newTx(transaction.TypeExpense, "1", "food", transaction.DivisionPersonal, lastSecond),
		newTx(transaction.TypeExpense, "2", "food", transaction.DivisionPersonal, nextMonth),
		newTx(transaction.TypeExpense, "3", "rent", transaction.DivisionOffice, day(time.January, 3)),
	}))

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	january, err := repo.ListTransactions(ctx, transaction.ListFilter{StartDate: &start, EndDate: &nextMonth})
	require.NoError(t, err)
	require.Len(t, january, 2, "end date is exclusive")
	assert.True(t, lastSecond.Equal(january[0].TransactionDate))

	food := "food"
	byCategory, err := repo.ListTransactions(ctx, transaction.ListFilter{Category: &food})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	office := transaction.DivisionOffice
	byDivision, err := repo.ListTransactions(ctx, transaction.ListFilter{Division: &office})
	require.NoError(t, err)
	require.Len(t, byDivision, 1)
	assert.Equal(t, "rent", byDivision[0].Category)

	combined, err := repo.ListTransactions(ctx, transaction.ListFilter{StartDate: &start, EndDate: &nextMonth, Category: &food})
	require.NoError(t, err)
	assert.Len(t, combined, 1)

	all, err := repo.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func testSums(t *testing.T, repo transaction.Repository) {
	ctx := context.Background()

	require.NoError(t, repo.CreateTransactions(ctx, []*transaction.Transaction{
		newTx(transaction.TypeIncome, "1000", "salary", transaction.DivisionOffice, day(time.January, 1)),
		newTx(transaction.TypeExpense, "12.50", "food", transaction.DivisionPersonal, day(time.January, 2)),
		newTx(transaction.TypeExpense, "7.25", "food", transaction.DivisionPersonal, day(time.January, 3)),
		newTx(transaction.TypeExpense, "500", "rent", transaction.DivisionPersonal, day(time.January, 4)),
		newTx(transaction.TypeTransfer, "100", "savings", transaction.DivisionPersonal, day(time.January, 5)),
		newTx(transaction.TypeExpense, "99", "food", transaction.DivisionPersonal, day(time.February, 1)),
	}))

	january := transaction.WindowFor(transaction.PeriodMonthly, day(time.January, 15))

	income, err := repo.SumAmount(ctx, january, transaction.TypeIncome)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1000").Equal(income), "income %s", income)

	expense, err := repo.SumAmount(ctx, january, transaction.TypeExpense)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("519.75").Equal(expense), "expense %s", expense)

	empty := transaction.WindowFor(transaction.PeriodMonthly, day(time.March, 1))
	none, err := repo.SumAmount(ctx, empty, transaction.TypeIncome)
	require.NoError(t, err)
	assert.True(t, none.IsZero())

	totals, err := repo.SumByCategory(ctx, january)
	require.NoError(t, err)
	require.Len(t, totals, 4)

	assert.Equal(t, "food", totals[0].Category)
	assert.Equal(t, transaction.TypeExpense, totals[0].Type)
	assert.True(t, decimal.RequireFromString("19.75").Equal(totals[0].TotalAmount), "food %s", totals[0].TotalAmount)
	assert.Equal(t, "rent", totals[1].Category)
	assert.Equal(t, "salary", totals[2].Category)
	assert.Equal(t, "savings", totals[3].Category)
	assert.Equal(t, transaction.TypeTransfer, totals[3].Type)
}
