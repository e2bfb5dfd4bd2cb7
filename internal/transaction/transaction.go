package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("transaction not found")
	ErrEditWindowExpired = errors.New("transaction cannot be edited after 12 hours")
	ErrInvalidAmount     = errors.New("amount must be between 0 and 999999999999999.9999 with at most 4 decimal places")
)

// Amounts are stored as NUMERIC(19,4): 15 integer digits and 4 decimal places.
const AmountScale = 4

var amountLimit = decimal.New(1, 15)

// ValidateAmount rejects amounts that are negative or would not be stored exactly.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() || !d.LessThan(amountLimit) || !d.Equal(d.Truncate(AmountScale)) {
		return ErrInvalidAmount
	}

	return nil
}

// Type represents the kind of money movement.
type Type string

const (
	TypeIncome   Type = "INCOME"
	TypeExpense  Type = "EXPENSE"
	TypeTransfer Type = "TRANSFER"
)

func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}

	return false
}

// Division groups transactions by budget area, orthogonal to category.
type Division string

const (
	DivisionPersonal Division = "PERSONAL"
	DivisionOffice   Division = "OFFICE"
)

func (d Division) Valid() bool {
	switch d {
	case DivisionPersonal, DivisionOffice:
		return true
	}

	return false
}

// Transaction represents a single recorded income, expense or transfer.
// All instants are UTC.
type Transaction struct {
	ID              uuid.UUID
	Type            Type
	Amount          decimal.Decimal
	Category        string
	Division        Division
	Description     string
	TransactionDate time.Time
	SourceAccount   string // transfers only
	TargetAccount   string // transfers only
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CategoryTotal is the summed amount of one (category, type) pair.
type CategoryTotal struct {
	Category    string
	Type        Type
	TotalAmount decimal.Decimal
}

// DashboardStats holds income and expense totals for a period window.
type DashboardStats struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
}

// Page is one slice of the transaction list ordered by date, newest first.
type Page struct {
	Items         []*Transaction
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	Last          bool
}
