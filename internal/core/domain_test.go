package core

import "testing"

func TestRecurringTransactionValidate(t *testing.T) {
	good := RecurringTransaction{
		AccountID:   1,
		Description: "Rent",
		Amount:      Money{Cents: 120000},
		Type:        Expense,
		Frequency:   Monthly,
		StartDate:   NewDate(2024, 1, 1),
		NextDueDate: NewDate(2024, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []RecurringTransaction{
		func() RecurringTransaction { rt := good; rt.Amount = Money{}; return rt }(),
		func() RecurringTransaction { rt := good; rt.Description = "  "; return rt }(),
		func() RecurringTransaction { rt := good; rt.Type = Saving; return rt }(),
		func() RecurringTransaction { rt := good; rt.Type = "Transfer"; return rt }(),
		func() RecurringTransaction { rt := good; rt.Frequency = "weekly"; return rt }(),
		func() RecurringTransaction { rt := good; rt.StartDate = Date{}; return rt }(),
	}
	for i, rt := range bads {
		if err := rt.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	if err := (Goal{Name: "Vacation"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	budget := Money{Cents: -1}
	if err := (Goal{Name: "Vacation", Budget: &budget}).Validate(); err == nil {
		t.Fatal("expected error for negative budget")
	}
	if err := (Goal{Name: " "}).Validate(); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestDebtValidate(t *testing.T) {
	if err := (Debt{Name: "Car loan", TotalAmount: Money{Cents: 500000}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	emi := Money{Cents: 0}
	if err := (Debt{Name: "Car loan", TotalAmount: Money{Cents: 1}, MonthlyEMI: &emi}).Validate(); err == nil {
		t.Fatal("expected error for zero EMI")
	}
}

func TestSummarizeGoal(t *testing.T) {
	budget := Money{Cents: 50000}
	goal := Goal{ID: 1, Name: "Trip", Budget: &budget, Status: GoalActive}

	txns := []Transaction{
		{Type: Saving, Amount: Money{Cents: 10000}},
		{Type: Saving, Amount: Money{Cents: 10000}},
		{Type: Expense, Amount: Money{Cents: 2500}},
		{Type: Income, Amount: Money{Cents: 99999}}, // ignored
	}

	s := SummarizeGoal(goal, txns)
	if s.AmountSaved.Cents != 20000 {
		t.Fatalf("amount saved: expected 20000, got %d", s.AmountSaved.Cents)
	}
	if s.AmountSpentOnGoal.Cents != 2500 {
		t.Fatalf("amount spent: expected 2500, got %d", s.AmountSpentOnGoal.Cents)
	}
	if s.RemainingToSave.Cents != 30000 {
		t.Fatalf("remaining: expected 30000, got %d", s.RemainingToSave.Cents)
	}
	if s.ProgressPercentage != "40.00%" {
		t.Fatalf("progress: expected 40.00%%, got %s", s.ProgressPercentage)
	}
}

func TestSummarizeGoalNoBudget(t *testing.T) {
	goal := Goal{ID: 1, Name: "Someday", Status: GoalActive}
	txns := []Transaction{{Type: Saving, Amount: Money{Cents: 7500}}}

	s := SummarizeGoal(goal, txns)
	if s.ProgressPercentage != "0.00%" {
		t.Fatalf("nil budget: expected 0.00%%, got %s", s.ProgressPercentage)
	}
	if s.RemainingToSave.Cents != -7500 {
		t.Fatalf("remaining: expected -7500, got %d", s.RemainingToSave.Cents)
	}

	zero := Money{}
	goal.Budget = &zero
	s = SummarizeGoal(goal, txns)
	if s.ProgressPercentage != "0.00%" {
		t.Fatalf("zero budget: expected 0.00%%, got %s", s.ProgressPercentage)
	}
}
