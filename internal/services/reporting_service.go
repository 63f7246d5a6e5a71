package services

import (
	"context"
	"fmt"

	"finman/internal/core"
	"finman/internal/storage"
)

// ReportingService is read-only: it exposes the SQL-side spending
// aggregation and the dashboard overview.
type ReportingService struct {
	repo *storage.SQLiteRepository
}

func NewReportingService(repo *storage.SQLiteRepository) *ReportingService {
	return &ReportingService{repo: repo}
}

// GenerateSpendingSummary groups Expense amounts by category over the
// inclusive date range.
func (s *ReportingService) GenerateSpendingSummary(ctx context.Context, startDate, endDate core.Date) (core.SpendingSummary, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return core.SpendingSummary{}, fmt.Errorf("report range requires both dates")
	}
	if endDate.Before(startDate.Time) {
		return core.SpendingSummary{}, fmt.Errorf("report end date %s precedes start date %s", endDate, startDate)
	}

	rows, err := s.repo.SpendingByCategory(ctx, startDate, endDate)
	if err != nil {
		return core.SpendingSummary{}, err
	}

	return core.SpendingSummary{
		StartDate: startDate,
		EndDate:   endDate,
		Rows:      rows,
	}, nil
}

// Overview aggregates the dashboard numbers: total balance across
// accounts, total outstanding debt, and per-goal progress for active
// goals.
func (s *ReportingService) Overview(ctx context.Context) (core.Overview, error) {
	totalBalance, err := s.repo.SumAccountBalances(ctx)
	if err != nil {
		return core.Overview{}, err
	}

	totalDebt, err := s.repo.SumDebtRemaining(ctx)
	if err != nil {
		return core.Overview{}, err
	}

	goals, err := s.repo.ListGoals(ctx)
	if err != nil {
		return core.Overview{}, err
	}

	overview := core.Overview{
		TotalBalance:       totalBalance,
		TotalRemainingDebt: totalDebt,
	}
	for _, g := range goals {
		if g.Status != core.GoalActive {
			continue
		}
		overview.ActiveGoals++

		transactions, err := s.repo.ListTransactionsByGoal(ctx, g.ID)
		if err != nil {
			return core.Overview{}, err
		}
		summary := core.SummarizeGoal(g, transactions)
		overview.Goals = append(overview.Goals, core.GoalProgress{
			GoalID:             g.ID,
			Name:               g.Name,
			AmountSaved:        summary.AmountSaved,
			Budget:             summary.Budget,
			ProgressPercentage: summary.ProgressPercentage,
		})
	}

	return overview, nil
}
