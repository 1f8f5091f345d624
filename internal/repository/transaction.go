package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clarity/clarity/internal/model"
)

// ErrTransactionNotFound covers both a missing id and an id owned by a
// different user. Ownership lives inside the lookup predicate, so the two
// cases are indistinguishable on purpose.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionFilter defines optional filters for listing transactions.
// Each filter applies independently; zero values mean "no constraint".
type TransactionFilter struct {
	Type      model.TransactionType
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// TransactionUpdate carries the allow-listed mutable fields.
// Nil pointers leave the stored value untouched.
type TransactionUpdate struct {
	Type     *model.TransactionType
	Amount   *float64
	Category *string
	Date     *time.Time
	Note     *string
}

const transactionColumns = "id, user_id, type, amount, category, date, note, created_at, updated_at"

// CreateTransaction inserts a new transaction into the database.
func (r *Repository) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, type, amount, category, date, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Type,
		tx.Amount,
		tx.Category,
		tx.Date,
		tx.Note,
		tx.CreatedAt,
		tx.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction through the owner-scoped predicate.
func (r *Repository) GetTransaction(ctx context.Context, userID, id string) (*model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`

	tx, err := scanTransaction(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// ListTransactions retrieves the user's transactions matching the filter,
// ordered by date descending.
func (r *Repository) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]*model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}
	argIndex := 2

	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, filter.Type)
		argIndex++
	}

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category ILIKE '%%' || $%d || '%%'", argIndex)
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIndex)
		args = append(args, *filter.StartDate)
		argIndex++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIndex)
		args = append(args, *filter.EndDate)
		argIndex++
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*model.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// UpdateTransaction applies the given partial update through the owner-scoped
// predicate and returns the updated row.
func (r *Repository) UpdateTransaction(ctx context.Context, userID, id string, update TransactionUpdate) (*model.Transaction, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 8)
	argIndex := 1

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if update.Type != nil {
		appendSet("type", *update.Type)
	}
	if update.Amount != nil {
		appendSet("amount", *update.Amount)
	}
	if update.Category != nil {
		appendSet("category", *update.Category)
	}
	if update.Date != nil {
		appendSet("date", *update.Date)
	}
	if update.Note != nil {
		appendSet("note", *update.Note)
	}

	if len(sets) == 0 {
		// Nothing to change; still enforce the ownership check.
		return r.GetTransaction(ctx, userID, id)
	}

	appendSet("updated_at", time.Now().UTC())

	query := "UPDATE transactions SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(" WHERE id = $%d AND user_id = $%d RETURNING %s", argIndex, argIndex+1, transactionColumns)
	args = append(args, id, userID)

	tx, err := scanTransaction(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return tx, nil
}

// DeleteTransaction removes a transaction through the owner-scoped predicate.
// Deletion is final; there is no soft-delete.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM transactions WHERE id = $1 AND user_id = $2",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// scanTransaction scans a transaction row from either a pgx.Row or pgx.Rows.
func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var tx model.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Type,
		&tx.Amount,
		&tx.Category,
		&tx.Date,
		&tx.Note,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
