package importer_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneymanager/internal/importer"
	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

func TestParser_Parse(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		wantLen int
		verify  func(t *testing.T, params []transaction.CreateParams)
		wantErr error
		wantRow int
	}

	tests := []testCase{
		{
			name: "Comma delimited",
			input: `type,amount,category,division,description,transactionDate,sourceAccount,targetAccount
EXPENSE,12.50,food,PERSONAL,Lunch,2026-01-14T12:00:00Z,,
INCOME,1000,salary,OFFICE,January salary,2026-01-01,,
TRANSFER,200,savings,PERSONAL,Move to savings,2026-01-02,checking,savings
`,
			wantLen: 3,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				assert.Equal(t, transaction.TypeExpense, params[0].Type)
				assert.True(t, decimal.RequireFromString("12.50").Equal(params[0].Amount))
				assert.Equal(t, "food", params[0].Category)
				assert.Equal(t, transaction.DivisionPersonal, params[0].Division)
				assert.Equal(t, "Lunch", params[0].Description)
				assert.True(t, params[0].TransactionDate.Equal(time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)))

				assert.Equal(t, transaction.DivisionOffice, params[1].Division)
				assert.True(t, params[1].TransactionDate.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

				assert.Equal(t, "checking", params[2].SourceAccount)
				assert.Equal(t, "savings", params[2].TargetAccount)
			},
		},
		{
			name: "Semicolon delimited with European amounts",
			input: `Type;Amount;Category;Division;Description;TransactionDate
expense;1.234,56;rent;personal;Renda;01-02-2026
`,
			wantLen: 1,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				assert.Equal(t, transaction.TypeExpense, params[0].Type)
				assert.True(t, decimal.RequireFromString("1234.56").Equal(params[0].Amount))
				assert.Equal(t, transaction.DivisionPersonal, params[0].Division)
				assert.True(t, params[0].TransactionDate.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
				assert.Empty(t, params[0].SourceAccount)
			},
		},
		{
			name: "Blank rows skipped",
			input: `type,amount,category,division,description,transactionDate

EXPENSE,1,food,PERSONAL,Coffee,2026-01-14
,,,,,
`,
			wantLen: 1,
		},
		{
			name:    "Header only",
			input:   "type,amount,category,division,description,transactionDate\n",
			wantLen: 0,
		},
		{
			name:    "Empty file",
			input:   "",
			wantErr: importer.ErrEmptyFile,
		},
		{
			name:    "Missing column",
			input:   "type,amount,category,description,transactionDate\n",
			wantErr: importer.ErrMissingColumn,
		},
		{
			name: "Negative amount fails the whole file",
			input: `type,amount,category,division,description,transactionDate
EXPENSE,1,food,PERSONAL,Coffee,2026-01-14
EXPENSE,-5,food,PERSONAL,Refund,2026-01-14
`,
			wantRow: 3,
		},
		{
			name: "Unknown type",
			input: `type,amount,category,division,description,transactionDate
LOAN,1,food,PERSONAL,Coffee,2026-01-14
`,
			wantRow: 2,
		},
		{
			name: "Bad date",
			input: `type,amount,category,division,description,transactionDate
EXPENSE,1,food,PERSONAL,Coffee,yesterday
`,
			wantRow: 2,
		},
		{
			name: "Blank description",
			input: `type,amount,category,division,description,transactionDate
EXPENSE,1,food,PERSONAL,  ,2026-01-14
`,
			wantRow: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := importer.NewParser().Parse(strings.NewReader(tt.input))

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			if tt.wantRow != 0 {
				var rowErr *importer.RowError

				require.True(t, errors.As(err, &rowErr), "expected RowError, got %v", err)
				assert.Equal(t, tt.wantRow, rowErr.Row)
				assert.Nil(t, params)

				return
			}

			require.NoError(t, err)
			assert.Len(t, params, tt.wantLen)

			if tt.verify != nil {
				tt.verify(t, params)
			}
		})
	}
}

func TestParser_Parse_Windows1252(t *testing.T) {
	// "Pão" with ã = 0xE3.
	input := "type;amount;category;division;description;transactionDate\n" +
		"EXPENSE;2,10;food;PERSONAL;P\xe3o;2026-01-14\n"

	params, err := importer.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Pão", params[0].Description)
}
