package core

import "fmt"

// GoalSummary is the financial progress of a goal, replayed from its
// linked transactions on every read. It is never stored.
type GoalSummary struct {
	Budget             Money
	AmountSaved        Money
	AmountSpentOnGoal  Money
	RemainingToSave    Money
	ProgressPercentage string
}

// GoalDetails bundles a goal with its ordered steps and derived summary.
type GoalDetails struct {
	Goal    Goal
	Steps   []Step
	Summary GoalSummary
}

// SummarizeGoal computes the summary from the goal's linked transactions.
// A nil or zero budget yields 0.00% progress regardless of amount saved.
func SummarizeGoal(g Goal, transactions []Transaction) GoalSummary {
	var budget Money
	if g.Budget != nil {
		budget = *g.Budget
	}

	var saved, spent Money
	for _, t := range transactions {
		switch t.Type {
		case Saving:
			saved = saved.Add(t.Amount)
		case Expense:
			spent = spent.Add(t.Amount)
		}
	}

	progress := 0.0
	if budget.Cents > 0 {
		progress = float64(saved.Cents) / float64(budget.Cents) * 100
	}

	return GoalSummary{
		Budget:             budget,
		AmountSaved:        saved,
		AmountSpentOnGoal:  spent,
		RemainingToSave:    budget.Sub(saved),
		ProgressPercentage: fmt.Sprintf("%.2f%%", progress),
	}
}

// CategorySpending is one row of the spending report.
type CategorySpending struct {
	Category string
	Total    Money
}

// SpendingSummary echoes the requested range alongside the per-category
// rows aggregated by the storage layer. The range is inclusive.
type SpendingSummary struct {
	StartDate Date
	EndDate   Date
	Rows      []CategorySpending
}

// GoalProgress is the compact per-goal line shown on the overview.
type GoalProgress struct {
	GoalID             int64
	Name               string
	AmountSaved        Money
	Budget             Money
	ProgressPercentage string
}

// Overview is the dashboard aggregate: total balance across accounts,
// total outstanding debt, and the active goals with their progress.
type Overview struct {
	TotalBalance       Money
	TotalRemainingDebt Money
	ActiveGoals        int
	Goals              []GoalProgress
}
