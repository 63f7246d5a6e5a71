package http

import (
	"time"

	"finman/internal/core"
)

// Response DTOs. Amounts are rendered both as a decimal string for
// display and as raw cents for clients that do arithmetic.

type accountResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Balance      string    `json:"balance"`
	BalanceCents int64     `json:"balance_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:           a.ID,
		Name:         a.Name,
		Balance:      a.Balance.String(),
		BalanceCents: a.Balance.Cents,
		CreatedAt:    a.CreatedAt,
	}
}

type transactionResponse struct {
	ID          int64     `json:"id"`
	Amount      string    `json:"amount"`
	AmountCents int64     `json:"amount_cents"`
	Type        string    `json:"type"`
	AccountID   int64     `json:"account_id"`
	GoalID      *int64    `json:"goal_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount.String(),
		AmountCents: t.Amount.Cents,
		Type:        string(t.Type),
		AccountID:   t.AccountID,
		GoalID:      t.GoalID,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.String(),
		CreatedAt:   t.CreatedAt,
	}
}

type goalResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Budget    *string   `json:"budget"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toGoalResponse(g core.Goal) goalResponse {
	resp := goalResponse{
		ID:        g.ID,
		Name:      g.Name,
		Status:    string(g.Status),
		CreatedAt: g.CreatedAt,
	}
	if g.Budget != nil {
		b := g.Budget.String()
		resp.Budget = &b
	}
	return resp
}

type stepResponse struct {
	ID          int64     `json:"id"`
	GoalID      int64     `json:"goal_id"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toStepResponse(s core.Step) stepResponse {
	return stepResponse{
		ID:          s.ID,
		GoalID:      s.GoalID,
		Description: s.Description,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
	}
}

type goalSummaryResponse struct {
	Budget             string `json:"budget"`
	AmountSaved        string `json:"amount_saved"`
	AmountSpentOnGoal  string `json:"amount_spent_on_goal"`
	RemainingToSave    string `json:"remaining_to_save"`
	ProgressPercentage string `json:"progress_percentage"`
}

type goalDetailsResponse struct {
	Goal    goalResponse        `json:"goal"`
	Steps   []stepResponse      `json:"steps"`
	Summary goalSummaryResponse `json:"summary"`
}

func toGoalDetailsResponse(d core.GoalDetails) goalDetailsResponse {
	steps := make([]stepResponse, 0, len(d.Steps))
	for _, s := range d.Steps {
		steps = append(steps, toStepResponse(s))
	}
	return goalDetailsResponse{
		Goal:  toGoalResponse(d.Goal),
		Steps: steps,
		Summary: goalSummaryResponse{
			Budget:             d.Summary.Budget.String(),
			AmountSaved:        d.Summary.AmountSaved.String(),
			AmountSpentOnGoal:  d.Summary.AmountSpentOnGoal.String(),
			RemainingToSave:    d.Summary.RemainingToSave.String(),
			ProgressPercentage: d.Summary.ProgressPercentage,
		},
	}
}

type debtResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	TotalAmount     string    `json:"total_amount"`
	RemainingAmount string    `json:"remaining_amount"`
	MonthlyEMI      *string   `json:"monthly_emi"`
	CreatedAt       time.Time `json:"created_at"`
}

func toDebtResponse(d core.Debt) debtResponse {
	resp := debtResponse{
		ID:              d.ID,
		Name:            d.Name,
		TotalAmount:     d.TotalAmount.String(),
		RemainingAmount: d.RemainingAmount.String(),
		CreatedAt:       d.CreatedAt,
	}
	if d.MonthlyEMI != nil {
		e := d.MonthlyEMI.String()
		resp.MonthlyEMI = &e
	}
	return resp
}

type recurringResponse struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Frequency   string    `json:"frequency"`
	StartDate   string    `json:"start_date"`
	NextDueDate string    `json:"next_due_date"`
	DebtID      *int64    `json:"debt_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRecurringResponse(rt core.RecurringTransaction) recurringResponse {
	return recurringResponse{
		ID:          rt.ID,
		AccountID:   rt.AccountID,
		Description: rt.Description,
		Amount:      rt.Amount.String(),
		Type:        string(rt.Type),
		Frequency:   string(rt.Frequency),
		StartDate:   rt.StartDate.String(),
		NextDueDate: rt.NextDueDate.String(),
		DebtID:      rt.DebtID,
		CreatedAt:   rt.CreatedAt,
	}
}

type spendingRowResponse struct {
	Category   string `json:"category"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
}

type spendingSummaryResponse struct {
	StartDate string                `json:"start_date"`
	EndDate   string                `json:"end_date"`
	Rows      []spendingRowResponse `json:"rows"`
}

func toSpendingSummaryResponse(s core.SpendingSummary) spendingSummaryResponse {
	rows := make([]spendingRowResponse, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, spendingRowResponse{
			Category:   r.Category,
			Total:      r.Total.String(),
			TotalCents: r.Total.Cents,
		})
	}
	return spendingSummaryResponse{
		StartDate: s.StartDate.String(),
		EndDate:   s.EndDate.String(),
		Rows:      rows,
	}
}

type goalProgressResponse struct {
	GoalID             int64  `json:"goal_id"`
	Name               string `json:"name"`
	AmountSaved        string `json:"amount_saved"`
	Budget             string `json:"budget"`
	ProgressPercentage string `json:"progress_percentage"`
}

type overviewResponse struct {
	TotalBalance       string                 `json:"total_balance"`
	TotalRemainingDebt string                 `json:"total_remaining_debt"`
	ActiveGoals        int                    `json:"active_goals"`
	Goals              []goalProgressResponse `json:"goals"`
}

func toOverviewResponse(o core.Overview) overviewResponse {
	goals := make([]goalProgressResponse, 0, len(o.Goals))
	for _, g := range o.Goals {
		goals = append(goals, goalProgressResponse{
			GoalID:             g.GoalID,
			Name:               g.Name,
			AmountSaved:        g.AmountSaved.String(),
			Budget:             g.Budget.String(),
			ProgressPercentage: g.ProgressPercentage,
		})
	}
	return overviewResponse{
		TotalBalance:       o.TotalBalance.String(),
		TotalRemainingDebt: o.TotalRemainingDebt.String(),
		ActiveGoals:        o.ActiveGoals,
		Goals:              goals,
	}
}
