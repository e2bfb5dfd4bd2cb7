package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

// createInput holds the form bindings. It lives behind a pointer so the
// bindings survive the model being copied on every Update.
type createInput struct {
	Type          string
	Amount        string
	Category      string
	Division      string
	Description   string
	Date          string
	SourceAccount string
	TargetAccount string
}

// CreateModel records a new transaction through a form.
type CreateModel struct {
	txService *transaction.Service

	input  *createInput
	form   *huh.Form
	saving bool
	err    error
}

func NewCreateModel(txSvc *transaction.Service) CreateModel {
	input := &createInput{
		Type:     string(transaction.TypeExpense),
		Division: string(transaction.DivisionPersonal),
		Date:     FormatDate(time.Now()),
	}

	return CreateModel{
		txService: txSvc,
		input:     input,
		form:      buildCreateForm(input),
	}
}

func (m CreateModel) Title() string     { return "New Transaction" }
func (m CreateModel) ShortHelp() string { return "Navigate form | Esc: back" }

func (m CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("not a number")
	}

	return transaction.ValidateAmount(d)
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func buildCreateForm(in *createInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(huh.NewOptions(
					string(transaction.TypeExpense),
					string(transaction.TypeIncome),
					string(transaction.TypeTransfer),
				)...).
				Value(&in.Type),
			huh.NewInput().
				Title("Amount").
				Placeholder("12.50").
				Value(&in.Amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Category").
				Value(&in.Category).
				Validate(notBlank("category")),
			huh.NewSelect[string]().
				Title("Division").
				Options(huh.NewOptions(
					string(transaction.DivisionPersonal),
					string(transaction.DivisionOffice),
				)...).
				Value(&in.Division),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&in.Description).
				Validate(notBlank("description")),
			huh.NewInput().
				Title("Date").
				Value(&in.Date).
				Validate(validateDate),
			huh.NewInput().
				Title("Source account").
				Value(&in.SourceAccount),
			huh.NewInput().
				Title("Target account").
				Value(&in.TargetAccount),
		),
	).WithWidth(50).WithShowHelp(false)
}

// params assumes the form validators have already accepted the input.
func (in *createInput) params() transaction.CreateParams {
	date, _ := time.Parse(time.DateOnly, strings.TrimSpace(in.Date))

	return transaction.CreateParams{
		Type:            transaction.Type(in.Type),
		Amount:          decimal.RequireFromString(strings.TrimSpace(in.Amount)),
		Category:        strings.TrimSpace(in.Category),
		Division:        transaction.Division(in.Division),
		Description:     strings.TrimSpace(in.Description),
		TransactionDate: date,
		SourceAccount:   strings.TrimSpace(in.SourceAccount),
		TargetAccount:   strings.TrimSpace(in.TargetAccount),
	}
}

func (m CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		return m, Back

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.saving || m.err != nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.saving = true

	return m, m.saveCmd()
}

func (m CreateModel) View() string {
	if m.saving {
		return lipgloss.NewStyle().Padding(2).Render("Saving...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\nEsc: back", m.err))
	}

	return lipgloss.NewStyle().Padding(1).Render(m.form.View())
}

type createdMsg struct {
	err error
}

func (m CreateModel) saveCmd() tea.Cmd {
	params := m.input.params()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Create(ctx, params)

		return createdMsg{err: err}
	}
}
