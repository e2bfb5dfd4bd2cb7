package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

var periods = []transaction.Period{
	transaction.PeriodWeekly,
	transaction.PeriodMonthly,
	transaction.PeriodYearly,
}

// DashboardModel shows the balance for a period and its per-category totals.
type DashboardModel struct {
	txService *transaction.Service

	periodIdx int
	stats     *transaction.DashboardStats
	table     table.Model
	loading   bool
	err       error
}

func NewDashboardModel(txSvc *transaction.Service) DashboardModel {
	columns := []table.Column{
		{Title: "Category", Width: 24},
		{Title: "Type", Width: 10},
		{Title: "Total", Width: 14},
	}

	return DashboardModel{
		txService: txSvc,
		periodIdx: 1,
		table:     newTable(columns, 12),
		loading:   true,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | p: period | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.stats = msg.stats
			m.setRows(msg.totals)
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(periods)
			m.loading = true

			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *DashboardModel) setRows(totals []transaction.CategoryTotal) {
	rows := make([]table.Row, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, table.Row{t.Category, string(t.Type), FormatAmount(t.TotalAmount)})
	}

	m.table.SetRows(rows)
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Period: %s\n\n", activeStyle(strings.ToUpper(string(periods[m.periodIdx]))))
	fmt.Fprintf(&sb, "Income:  %s\n", FormatAmount(m.stats.TotalIncome))
	fmt.Fprintf(&sb, "Expense: %s\n", FormatAmount(m.stats.TotalExpense))

	balance := FormatAmount(m.stats.Balance)
	if m.stats.Balance.IsNegative() {
		balance = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(balance)
	}

	fmt.Fprintf(&sb, "Balance: %s\n", balance)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(sb.String()),
		boxed(m.table.View()),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type dashboardLoadedMsg struct {
	stats  *transaction.DashboardStats
	totals []transaction.CategoryTotal
	err    error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	period := string(periods[m.periodIdx])

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stats, err := m.txService.DashboardStats(ctx, period)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		totals, err := m.txService.CategorySummary(ctx, period)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{stats: stats, totals: totals}
	}
}
