package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

// Service parses an upload and stores every row in one batch.
type Service struct {
	parser       *Parser
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{
		parser:       NewParser(),
		transactions: txService,
	}
}

// Import stores nothing unless every row of r is valid.
func (s *Service) Import(ctx context.Context, r io.Reader) ([]*transaction.Transaction, error) {
	params, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return s.transactions.ImportBatch(ctx, params)
}
