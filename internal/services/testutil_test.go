package services

import (
	"context"
	"path/filepath"
	"testing"

	"finman/internal/core"
	"finman/internal/storage"
)

// newTestRepo opens a throwaway SQLite database with migrations applied.
func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "finman_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// mustCreateAccount seeds an account or fails the test.
func mustCreateAccount(t *testing.T, repo *storage.SQLiteRepository, name string, balanceCents int64) core.Account {
	t.Helper()

	account, err := repo.CreateAccount(context.Background(), name, core.Money{Cents: balanceCents})
	if err != nil {
		t.Fatalf("CreateAccount(%q) error = %v", name, err)
	}
	return account
}

func mustCreateGoal(t *testing.T, repo *storage.SQLiteRepository, name string, budgetCents int64) core.Goal {
	t.Helper()

	var budget *core.Money
	if budgetCents > 0 {
		budget = &core.Money{Cents: budgetCents}
	}
	goal, err := repo.CreateGoal(context.Background(), name, budget)
	if err != nil {
		t.Fatalf("CreateGoal(%q) error = %v", name, err)
	}
	return goal
}

func mustCreateDebt(t *testing.T, repo *storage.SQLiteRepository, name string, totalCents int64) core.Debt {
	t.Helper()

	debt, err := repo.CreateDebt(context.Background(), name, core.Money{Cents: totalCents}, nil)
	if err != nil {
		t.Fatalf("CreateDebt(%q) error = %v", name, err)
	}
	return debt
}

func accountBalance(t *testing.T, repo *storage.SQLiteRepository, id int64) int64 {
	t.Helper()

	account, err := repo.GetAccount(context.Background(), id)
	if err != nil {
		t.Fatalf("GetAccount(%d) error = %v", id, err)
	}
	return account.Balance.Cents
}
