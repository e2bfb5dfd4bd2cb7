package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

// parseAmount accepts "1234.56", "1,234.56", "1.234,56" and "10,00".
// Whichever of '.' or ',' comes last is the decimal separator.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(clean, "€")
	clean = strings.ReplaceAll(clean, " ", "")

	dot := strings.LastIndexByte(clean, '.')
	comma := strings.LastIndexByte(clean, ',')

	if comma > dot {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	if err := transaction.ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}

	return d, nil
}
