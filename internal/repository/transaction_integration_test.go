//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clarity/clarity/internal/model"
	"github.com/clarity/clarity/internal/testutil"
)

// ============================================================================
// Transaction Repository Integration Tests
// ============================================================================

func TestIntegrationTransactionRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := seedUser(ctx, t, repo)
	tx := testutil.NewTestTransaction(t, user.ID)

	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	retrieved, err := repo.GetTransaction(ctx, user.ID, tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}

	if retrieved.Type != tx.Type {
		t.Errorf("Type mismatch: got %q, want %q", retrieved.Type, tx.Type)
	}
	if retrieved.Amount != tx.Amount {
		t.Errorf("Amount mismatch: got %v, want %v", retrieved.Amount, tx.Amount)
	}
	if retrieved.Category != tx.Category {
		t.Errorf("Category mismatch: got %q, want %q", retrieved.Category, tx.Category)
	}
	if retrieved.Note != tx.Note {
		t.Errorf("Note mismatch: got %q, want %q", retrieved.Note, tx.Note)
	}
}

func TestIntegrationTransactionRepository_OwnershipScoped(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := seedUser(ctx, t, repo)
	other := seedUser(ctx, t, repo)

	tx := testutil.NewTestTransaction(t, owner.ID)
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	// Another user's id must behave exactly like a missing id.
	if _, err := repo.GetTransaction(ctx, other.ID, tx.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Get as non-owner: got %v, want ErrTransactionNotFound", err)
	}

	note := "hijacked"
	_, err := repo.UpdateTransaction(ctx, other.ID, tx.ID, TransactionUpdate{Note: &note})
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Update as non-owner: got %v, want ErrTransactionNotFound", err)
	}

	if err := repo.DeleteTransaction(ctx, other.ID, tx.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Delete as non-owner: got %v, want ErrTransactionNotFound", err)
	}

	// The record is untouched for its owner.
	retrieved, err := repo.GetTransaction(ctx, owner.ID, tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction as owner failed: %v", err)
	}
	if retrieved.Note != tx.Note {
		t.Errorf("Note changed: got %q, want %q", retrieved.Note, tx.Note)
	}
}

func TestIntegrationTransactionRepository_ListFilters(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := seedUser(ctx, t, repo)

	mk := func(txType model.TransactionType, category string, day int) *model.Transaction {
		tx := testutil.NewTestTransaction(t, user.ID)
		tx.Type = txType
		tx.Category = category
		tx.Date = time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)
		if err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		return tx
	}

	mk(model.TypeExpense, "Groceries", 1)
	mk(model.TypeExpense, "Dining Out", 10)
	mk(model.TypeIncome, "Salary", 20)

	t.Run("no filter returns all newest first", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("count = %d, want 3", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Date.After(got[i-1].Date) {
				t.Error("results are not ordered by date descending")
			}
		}
	})

	t.Run("type filter", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{Type: model.TypeIncome})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(got) != 1 || got[0].Category != "Salary" {
			t.Errorf("income filter returned %d rows", len(got))
		}
	})

	t.Run("category substring is case insensitive", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{Category: "dining"})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(got) != 1 || got[0].Category != "Dining Out" {
			t.Errorf("category filter returned %d rows", len(got))
		}
	})

	t.Run("date range", func(t *testing.T) {
		start := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		got, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(got) != 1 || got[0].Category != "Dining Out" {
			t.Errorf("date range filter returned %d rows", len(got))
		}
	})

	t.Run("other users see nothing", func(t *testing.T) {
		stranger := seedUser(ctx, t, repo)
		got, err := repo.ListTransactions(ctx, stranger.ID, TransactionFilter{})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("stranger sees %d rows, want 0", len(got))
		}
	})
}

func TestIntegrationTransactionRepository_Update(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := seedUser(ctx, t, repo)
	tx := testutil.NewTestTransaction(t, user.ID)
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	amount := 99.95
	category := "Travel"
	updated, err := repo.UpdateTransaction(ctx, user.ID, tx.ID, TransactionUpdate{
		Amount:   &amount,
		Category: &category,
	})
	if err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}

	if updated.Amount != amount {
		t.Errorf("Amount = %v, want %v", updated.Amount, amount)
	}
	if updated.Category != category {
		t.Errorf("Category = %q, want %q", updated.Category, category)
	}
	// Untouched fields survive
	if updated.Note != tx.Note {
		t.Errorf("Note = %q, want %q", updated.Note, tx.Note)
	}
	if !updated.UpdatedAt.After(tx.UpdatedAt) {
		t.Error("UpdatedAt should move forward on update")
	}
}

func TestIntegrationTransactionRepository_EmptyUpdateReturnsCurrent(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := seedUser(ctx, t, repo)
	tx := testutil.NewTestTransaction(t, user.ID)
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	got, err := repo.UpdateTransaction(ctx, user.ID, tx.ID, TransactionUpdate{})
	if err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}
	if got.Amount != tx.Amount || got.Category != tx.Category {
		t.Error("empty update should leave the record unchanged")
	}
}

func TestIntegrationTransactionRepository_Delete(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := seedUser(ctx, t, repo)
	tx := testutil.NewTestTransaction(t, user.ID)
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := repo.DeleteTransaction(ctx, user.ID, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	if _, err := repo.GetTransaction(ctx, user.ID, tx.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Get after delete: got %v, want ErrTransactionNotFound", err)
	}

	if err := repo.DeleteTransaction(ctx, user.ID, tx.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("second delete: got %v, want ErrTransactionNotFound", err)
	}
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newRepoTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.DropSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return ctx, repo
}

func seedUser(ctx context.Context, t *testing.T, repo *Repository) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, testutil.UniqueEmail("txrepo"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}
