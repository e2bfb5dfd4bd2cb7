// Package export writes transactions as CSV in the format the importer reads.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/moneymanager/internal/importer"
	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

// Service exports the transactions matching a filter.
type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// Export writes the header and one row per matching transaction to w.
// It returns the number of rows written.
func (s *Service) Export(ctx context.Context, w io.Writer, filter transaction.ListFilter) (int, error) {
	txs, err := s.transactions.Filter(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	if err := WriteCSV(w, txs); err != nil {
		return 0, err
	}

	return len(txs), nil
}

// WriteCSV writes txs under the import header.
func WriteCSV(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(importer.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			string(tx.Type),
			tx.Amount.String(),
			tx.Category,
			string(tx.Division),
			tx.Description,
			tx.TransactionDate.UTC().Format(time.RFC3339),
			tx.SourceAccount,
			tx.TargetAccount,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}
