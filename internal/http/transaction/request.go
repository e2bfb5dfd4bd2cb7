package transaction

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

type transactionRequest struct {
	Type            transaction.Type     `json:"type" validate:"required,oneof=INCOME EXPENSE TRANSFER"`
	Amount          *decimal.Decimal     `json:"amount" validate:"required,amount"`
	Category        string               `json:"category" validate:"required,notblank"`
	Division        transaction.Division `json:"division" validate:"required,oneof=PERSONAL OFFICE"`
	Description     string               `json:"description" validate:"required,notblank"`
	TransactionDate *time.Time           `json:"transactionDate" validate:"required"`
	SourceAccount   string               `json:"sourceAccount,omitempty"`
	TargetAccount   string               `json:"targetAccount,omitempty"`
}

func (r transactionRequest) toParams() transaction.CreateParams {
	return transaction.CreateParams{
		Type:            r.Type,
		Amount:          *r.Amount,
		Category:        r.Category,
		Division:        r.Division,
		Description:     r.Description,
		TransactionDate: r.TransactionDate.UTC(),
		SourceAccount:   r.SourceAccount,
		TargetAccount:   r.TargetAccount,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report the JSON name of a field rather than the Go one.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// Decimals reach validations as their exact string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}

		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("amount", validAmount); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return v
}

func validAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())

	return err == nil && transaction.ValidateAmount(d) == nil
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "amount":
			msgs = append(msgs, transaction.ErrInvalidAmount.Error())
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}

	return strings.Join(msgs, "; ")
}

// ParseFilter reads the optional startDate, endDate, category and division
// query parameters. Dates are RFC 3339 instants; endDate is exclusive.
func ParseFilter(q url.Values) (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	if s := q.Get("startDate"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, fmt.Errorf("invalid startDate %q: expected RFC 3339", s)
		}

		filter.StartDate = new(t.UTC())
	}

	if s := q.Get("endDate"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, fmt.Errorf("invalid endDate %q: expected RFC 3339", s)
		}

		filter.EndDate = new(t.UTC())
	}

	if s := q.Get("category"); s != "" {
		filter.Category = new(s)
	}

	if s := q.Get("division"); s != "" {
		d := transaction.Division(strings.ToUpper(s))
		if !d.Valid() {
			return filter, fmt.Errorf("invalid division %q", s)
		}

		filter.Division = &d
	}

	return filter, nil
}
