package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, validateAmount("12.50"))
	assert.NoError(t, validateAmount("0"))
	assert.Error(t, validateAmount("-1"))
	assert.Error(t, validateAmount("twelve"))
	assert.Error(t, validateAmount("1.23456"))
	assert.Error(t, validateAmount("1e400"))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, validateDate("2026-01-14"))
	assert.Error(t, validateDate("14-01-2026"))
}

func TestCreateInput_Params(t *testing.T) {
	in := &createInput{
		Type:        "INCOME",
		Amount:      " 1000.00 ",
		Category:    " salary ",
		Division:    "OFFICE",
		Description: "January",
		Date:        "2026-01-31",
	}

	p := in.params()
	assert.Equal(t, transaction.TypeIncome, p.Type)
	assert.True(t, decimal.RequireFromString("1000").Equal(p.Amount))
	assert.Equal(t, "salary", p.Category)
	assert.Equal(t, transaction.DivisionOffice, p.Division)
	assert.True(t, p.TransactionDate.Equal(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, p.SourceAccount)
}

func TestDashboardModel_CyclesPeriods(t *testing.T) {
	m := NewDashboardModel(nil)
	assert.Equal(t, transaction.PeriodMonthly, periods[m.periodIdx])

	next, cmd := m.Update(key("p"))
	require.NotNil(t, cmd)

	m = next.(DashboardModel)
	assert.Equal(t, transaction.PeriodYearly, periods[m.periodIdx])

	next, _ = m.Update(key("p"))
	assert.Equal(t, transaction.PeriodWeekly, periods[next.(DashboardModel).periodIdx])
}

func TestDashboardModel_ShowsStats(t *testing.T) {
	m := NewDashboardModel(nil)

	next, _ := m.Update(dashboardLoadedMsg{
		stats: &transaction.DashboardStats{
			TotalIncome:  decimal.RequireFromString("100"),
			TotalExpense: decimal.RequireFromString("40"),
			Balance:      decimal.RequireFromString("60"),
		},
		totals: []transaction.CategoryTotal{
			{Category: "food", Type: transaction.TypeExpense, TotalAmount: decimal.RequireFromString("40")},
		},
	})

	out := next.View()
	assert.Contains(t, out, "60.00")
	assert.Contains(t, out, "food")
}

func TestListModel_Paging(t *testing.T) {
	m := NewListModel(nil)

	next, _ := m.Update(loadPageMsg{page: &transaction.Page{
		Items: []*transaction.Transaction{{
			ID:              uuid.New(),
			Type:            transaction.TypeExpense,
			Amount:          decimal.RequireFromString("3"),
			Category:        "food",
			Division:        transaction.DivisionPersonal,
			Description:     "Coffee",
			TransactionDate: time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
		}},
		Size:          transaction.DefaultPageSize,
		TotalElements: 1,
		TotalPages:    1,
		Last:          true,
	}})

	m = next.(ListModel)
	assert.Contains(t, m.View(), "Coffee")

	// Already on the last page.
	next, cmd := m.Update(key("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, 0, next.(ListModel).pageIdx)

	// Esc goes back to the menu.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, BackMsg{}, cmd())
}
