package model

import "testing"

func TestTransactionType_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		typ   TransactionType
		valid bool
	}{
		{"income", TypeIncome, true},
		{"expense", TypeExpense, true},
		{"empty", TransactionType(""), false},
		{"arbitrary", TransactionType("transfer"), false},
		{"case sensitive", TransactionType("Income"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.IsValid(); got != tt.valid {
				t.Errorf("IsValid(%q) = %v, want %v", tt.typ, got, tt.valid)
			}
		})
	}
}
