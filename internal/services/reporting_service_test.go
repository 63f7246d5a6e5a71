package services

import (
	"context"
	"testing"

	"finman/internal/core"
)

func TestReportingService_GenerateSpendingSummary(t *testing.T) {
	repo := newTestRepo(t)
	transactions := NewTransactionService(repo, nil)
	svc := NewReportingService(repo)
	account := mustCreateAccount(t, repo, "Checking", 1000_00)
	goal := mustCreateGoal(t, repo, "Vacation", 500_00)

	// Two expenses in the same category, one in another, plus income and
	// a goal allocation that must both stay out of the report.
	postings := []struct {
		cents    int64
		category string
	}{
		{30_00, "Groceries"},
		{20_00, "Groceries"},
		{15_00, "Dining"},
	}
	for _, p := range postings {
		if _, err := transactions.AddExpense(context.Background(), core.Money{Cents: p.cents}, p.category, account.ID, "x"); err != nil {
			t.Fatalf("AddExpense() error = %v", err)
		}
	}
	if _, err := transactions.AddIncome(context.Background(), core.Money{Cents: 500_00}, account.ID, "salary"); err != nil {
		t.Fatalf("AddIncome() error = %v", err)
	}
	if _, err := transactions.AllocateToGoal(context.Background(), goal.ID, core.Money{Cents: 100_00}, account.ID, "saving"); err != nil {
		t.Fatalf("AllocateToGoal() error = %v", err)
	}

	summary, err := svc.GenerateSpendingSummary(context.Background(), core.NewDate(2000, 1, 1), core.NewDate(2100, 1, 1))
	if err != nil {
		t.Fatalf("GenerateSpendingSummary() error = %v", err)
	}

	totals := map[string]int64{}
	for _, row := range summary.Rows {
		totals[row.Category] = row.Total.Cents
	}
	if len(totals) != 2 {
		t.Fatalf("categories = %v, want Groceries and Dining only", totals)
	}
	if totals["Groceries"] != 50_00 {
		t.Errorf("Groceries total = %d, want %d", totals["Groceries"], 50_00)
	}
	if totals["Dining"] != 15_00 {
		t.Errorf("Dining total = %d, want %d", totals["Dining"], 15_00)
	}
}

func TestReportingService_GenerateSpendingSummary_InvalidRange(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewReportingService(repo)

	tests := []struct {
		name       string
		start, end core.Date
	}{
		{"zero start", core.Date{}, core.NewDate(2024, 1, 31)},
		{"zero end", core.NewDate(2024, 1, 1), core.Date{}},
		{"end before start", core.NewDate(2024, 2, 1), core.NewDate(2024, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.GenerateSpendingSummary(context.Background(), tt.start, tt.end); err == nil {
				t.Error("GenerateSpendingSummary() error = nil, want error")
			}
		})
	}
}

func TestReportingService_GenerateSpendingSummary_EmptyRange(t *testing.T) {
	repo := newTestRepo(t)
	transactions := NewTransactionService(repo, nil)
	svc := NewReportingService(repo)
	account := mustCreateAccount(t, repo, "Checking", 100_00)

	if _, err := transactions.AddExpense(context.Background(), core.Money{Cents: 10_00}, "Misc", account.ID, "x"); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	// A window in the past excludes today's posting.
	summary, err := svc.GenerateSpendingSummary(context.Background(), core.NewDate(1999, 1, 1), core.NewDate(1999, 12, 31))
	if err != nil {
		t.Fatalf("GenerateSpendingSummary() error = %v", err)
	}
	if len(summary.Rows) != 0 {
		t.Errorf("rows = %+v, want empty", summary.Rows)
	}
}

func TestReportingService_Overview(t *testing.T) {
	repo := newTestRepo(t)
	transactions := NewTransactionService(repo, nil)
	goals := NewGoalService(repo)
	svc := NewReportingService(repo)

	a1 := mustCreateAccount(t, repo, "Checking", 600_00)
	mustCreateAccount(t, repo, "Savings", 400_00)
	mustCreateDebt(t, repo, "Car loan", 1000_00)
	mustCreateDebt(t, repo, "Mortgage", 2000_00)

	active := mustCreateGoal(t, repo, "Vacation", 500_00)
	completed := mustCreateGoal(t, repo, "Old goal", 100_00)
	if _, err := goals.MarkGoalComplete(context.Background(), completed.ID); err != nil {
		t.Fatalf("MarkGoalComplete() error = %v", err)
	}
	if _, err := transactions.AllocateToGoal(context.Background(), active.ID, core.Money{Cents: 250_00}, a1.ID, "saving"); err != nil {
		t.Fatalf("AllocateToGoal() error = %v", err)
	}

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	// 600 + 400 across accounts, minus the 250 allocation.
	if overview.TotalBalance.Cents != 750_00 {
		t.Errorf("TotalBalance = %d, want %d", overview.TotalBalance.Cents, 750_00)
	}
	if overview.TotalRemainingDebt.Cents != 3000_00 {
		t.Errorf("TotalRemainingDebt = %d, want %d", overview.TotalRemainingDebt.Cents, 3000_00)
	}
	if overview.ActiveGoals != 1 {
		t.Fatalf("ActiveGoals = %d, want 1", overview.ActiveGoals)
	}
	if len(overview.Goals) != 1 {
		t.Fatalf("Goals = %+v, want one entry", overview.Goals)
	}
	progress := overview.Goals[0]
	if progress.GoalID != active.ID {
		t.Errorf("GoalID = %d, want %d", progress.GoalID, active.ID)
	}
	if progress.AmountSaved.Cents != 250_00 {
		t.Errorf("AmountSaved = %d, want %d", progress.AmountSaved.Cents, 250_00)
	}
	if progress.ProgressPercentage != "50.00%" {
		t.Errorf("ProgressPercentage = %q, want %q", progress.ProgressPercentage, "50.00%")
	}
}

func TestReportingService_Overview_Empty(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewReportingService(repo)

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if overview.TotalBalance.Cents != 0 || overview.TotalRemainingDebt.Cents != 0 || overview.ActiveGoals != 0 {
		t.Errorf("overview = %+v, want all zeros", overview)
	}
}
