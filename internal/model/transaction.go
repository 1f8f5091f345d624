package model

import "time"

// TransactionType is the direction of money movement.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// IsValid checks that the type is one of the two known variants.
func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Limits applied to free-text transaction fields.
const (
	MaxCategoryLength = 30
	MaxNoteLength     = 120
)

// Transaction is a single income or expense record owned by a user.
// The owner is immutable after creation.
type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      TransactionType `json:"type"`
	Amount    float64         `json:"amount"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Draft is the normalizer's candidate transaction before validation and
// persistence. It lives for a single normalization call: it either becomes
// a Transaction or is discarded.
type Draft struct {
	Type     TransactionType
	Category string
	Amount   float64
	// Date is the model's suggested calendar day as a YYYY-MM-DD string.
	// Final date selection happens in the date resolution policy.
	Date string
	Note string

	// Provenance.
	Prompt string
	Model  string
}
