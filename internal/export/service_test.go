package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/moneymanager/internal/export"
	"github.com/MrJamesThe3rd/moneymanager/internal/importer"
	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

func sampleTransactions() []*transaction.Transaction {
	return []*transaction.Transaction{
		{
			ID:              uuid.New(),
			Type:            transaction.TypeExpense,
			Amount:          decimal.RequireFromString("12.50"),
			Category:        "food",
			Division:        transaction.DivisionPersonal,
			Description:     "Lunch, with \"friends\"",
			TransactionDate: time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:              uuid.New(),
			Type:            transaction.TypeTransfer,
			Amount:          decimal.RequireFromString("200"),
			Category:        "savings",
			Division:        transaction.DivisionOffice,
			Description:     "Move",
			TransactionDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			SourceAccount:   "checking",
			TargetAccount:   "savings",
		},
	}
}

func TestService_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	svc := export.NewService(transaction.NewService(repo))

	category := "food"
	filter := transaction.ListFilter{Category: &category}

	repo.EXPECT().ListTransactions(gomock.Any(), filter).Return(sampleTransactions()[:1], nil)

	var buf bytes.Buffer

	n, err := svc.Export(context.Background(), &buf, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	want := "type,amount,category,division,description,transactionDate,sourceAccount,targetAccount\n" +
		"EXPENSE,12.5,food,PERSONAL,\"Lunch, with \"\"friends\"\"\",2026-01-14T12:00:00Z,,\n"
	assert.Equal(t, want, buf.String())
}

func TestService_Export_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	svc := export.NewService(transaction.NewService(repo))

	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	var buf bytes.Buffer

	_, err := svc.Export(context.Background(), &buf, transaction.ListFilter{})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestWriteCSV_RoundTripsThroughImporter(t *testing.T) {
	txs := sampleTransactions()

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, txs))

	params, err := importer.NewParser().Parse(&buf)
	require.NoError(t, err)
	require.Len(t, params, len(txs))

	for i, tx := range txs {
		assert.Equal(t, tx.Type, params[i].Type)
		assert.True(t, tx.Amount.Equal(params[i].Amount))
		assert.Equal(t, tx.Description, params[i].Description)
		assert.True(t, tx.TransactionDate.Equal(params[i].TransactionDate))
		assert.Equal(t, tx.TargetAccount, params[i].TargetAccount)
	}
}
