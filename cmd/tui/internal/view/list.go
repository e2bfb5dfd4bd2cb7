package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateConfirmDelete
)

// ListModel pages through all transactions, newest first.
type ListModel struct {
	txService *transaction.Service

	state listState
	table table.Model
	page  *transaction.Page
	form  *huh.Form

	pageIdx int
	loading bool
	err     error
	status  string
}

func NewListModel(txSvc *transaction.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Division", Width: 10},
		{Title: "Description", Width: 36},
	}

	return ListModel{
		txService: txSvc,
		table:     newTable(columns, transaction.DefaultPageSize),
		loading:   true,
	}
}

func (m ListModel) Title() string { return "Transactions" }
func (m ListModel) ShortHelp() string {
	if m.state == listStateConfirmDelete {
		return "Confirm delete | Esc: cancel"
	}

	return "Esc: back | n/p: next/prev page | x: delete | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadPageCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPageMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.page = msg.page
		m.refreshTable()

		return m, nil

	case deleteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		} else {
			m.status = "Transaction deleted"
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadPageCmd()
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadPageCmd()
		case "n":
			if m.page == nil || m.page.Last {
				return m, nil
			}

			m.pageIdx++
			m.loading = true

			return m, m.loadPageCmd()
		case "p":
			if m.pageIdx == 0 {
				return m, nil
			}

			m.pageIdx--
			m.loading = true

			return m, m.loadPageCmd()
		case "x":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selected() *transaction.Transaction {
	if m.page == nil {
		return nil
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.page.Items) {
		return nil
	}

	return m.page.Items[idx]
}

func (m ListModel) enterConfirm() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %q (%s)?", tx.Description, FormatAmount(tx.Amount))).
				Affirmative("Delete").
				Negative("Keep"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.leaveConfirm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		return m.leaveConfirm(), nil
	}

	return m, m.deleteCmd()
}

func (m ListModel) leaveConfirm() ListModel {
	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Page %s of %d | %d transactions",
		activeStyle(fmt.Sprint(m.page.Page+1)), max(m.page.TotalPages, 1), m.page.TotalElements)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.state == listStateConfirmDelete && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.page.Items))
	for _, tx := range m.page.Items {
		rows = append(rows, table.Row{
			FormatDate(tx.TransactionDate),
			string(tx.Type),
			FormatAmount(tx.Amount),
			tx.Category,
			string(tx.Division),
			tx.Description,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Messages

type loadPageMsg struct {
	page *transaction.Page
	err  error
}

func (m ListModel) loadPageCmd() tea.Cmd {
	pageIdx := m.pageIdx

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		page, err := m.txService.List(ctx, pageIdx, transaction.DefaultPageSize)

		return loadPageMsg{page: page, err: err}
	}
}

type deleteMsg struct {
	err error
}

func (m ListModel) deleteCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	id := tx.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deleteMsg{err: m.txService.Delete(ctx, id)}
	}
}
