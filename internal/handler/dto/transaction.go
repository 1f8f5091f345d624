package dto

import (
	"time"

	"github.com/clarity/clarity/internal/model"
)

// CreateTransactionRequest represents the request body for creating a
// transaction. Amount is untyped so both JSON numbers and numeric
// strings are accepted.
type CreateTransactionRequest struct {
	Type     string `json:"type"`
	Amount   any    `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date,omitempty"`
	Note     string `json:"note,omitempty"`
}

// UpdateTransactionRequest represents the request body for updating a
// transaction. Only these fields are accepted; anything else in the
// body is ignored.
type UpdateTransactionRequest struct {
	Type     *string `json:"type,omitempty"`
	Amount   any     `json:"amount,omitempty"`
	Category *string `json:"category,omitempty"`
	Date     *string `json:"date,omitempty"`
	Note     *string `json:"note,omitempty"`
}

// AITransactionRequest represents the request body for creating a
// transaction from free text.
type AITransactionRequest struct {
	Prompt   string `json:"prompt"`
	UserDate string `json:"userDate,omitempty"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionEnvelope wraps a single transaction the way the create and
// update routes return it.
type TransactionEnvelope struct {
	Transaction TransactionResponse `json:"transaction"`
}

// TransactionListEnvelope wraps the list route body.
type TransactionListEnvelope struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a transaction to its API shape.
func ToTransactionResponse(tx *model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Category:  tx.Category,
		Date:      tx.Date,
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
}

// ToTransactionEnvelope wraps a single transaction for the response body.
func ToTransactionEnvelope(tx *model.Transaction) TransactionEnvelope {
	return TransactionEnvelope{Transaction: ToTransactionResponse(tx)}
}

// ToTransactionListEnvelope wraps a slice of transactions for the response
// body. An empty result encodes as an empty array, never null.
func ToTransactionListEnvelope(txs []*model.Transaction) TransactionListEnvelope {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionResponse(tx))
	}
	return TransactionListEnvelope{Transactions: out}
}
