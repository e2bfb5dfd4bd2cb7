package transaction

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

// TransactionResponse is the JSON shape of a transaction in every response.
type TransactionResponse struct {
	ID              uuid.UUID            `json:"id"`
	Type            transaction.Type     `json:"type"`
	Amount          json.Number          `json:"amount"`
	Category        string               `json:"category"`
	Division        transaction.Division `json:"division"`
	Description     string               `json:"description"`
	TransactionDate time.Time            `json:"transactionDate"`
	SourceAccount   string               `json:"sourceAccount,omitempty"`
	TargetAccount   string               `json:"targetAccount,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

type pageResponse struct {
	Content       []TransactionResponse `json:"content"`
	Page          int                   `json:"page"`
	Size          int                   `json:"size"`
	TotalElements int64                 `json:"totalElements"`
	TotalPages    int                   `json:"totalPages"`
	Last          bool                  `json:"last"`
}

func ToResponse(tx *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		Type:            tx.Type,
		Amount:          json.Number(tx.Amount.String()),
		Category:        tx.Category,
		Division:        tx.Division,
		Description:     tx.Description,
		TransactionDate: tx.TransactionDate.UTC(),
		SourceAccount:   tx.SourceAccount,
		TargetAccount:   tx.TargetAccount,
		CreatedAt:       tx.CreatedAt.UTC(),
		UpdatedAt:       tx.UpdatedAt.UTC(),
	}
}

// ToResponseList is shared with the import handler so both report the same shape.
func ToResponseList(txs []*transaction.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}

func toPageResponse(p *transaction.Page) pageResponse {
	return pageResponse{
		Content:       ToResponseList(p.Items),
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Last:          p.Last,
	}
}
