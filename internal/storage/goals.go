package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finman/internal/core"
)

func scanGoalRow(scan func(dest ...any) error) (core.Goal, error) {
	var g core.Goal
	var budget sql.NullInt64
	var createdAt sql.NullTime
	if err := scan(&g.ID, &g.Name, &budget, &g.Status, &createdAt); err != nil {
		return core.Goal{}, err
	}
	if budget.Valid {
		g.Budget = &core.Money{Cents: budget.Int64}
	}
	g.CreatedAt = createdAt.Time
	return g, nil
}

func (q *Queries) CreateGoal(ctx context.Context, name string, budget *core.Money) (core.Goal, error) {
	var budgetCents any
	if budget != nil {
		budgetCents = budget.Cents
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO goals (name, budget_cents) VALUES (?, ?)`, name, budgetCents)
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("goal id: %w", err)
	}
	return q.GetGoal(ctx, id)
}

func (q *Queries) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, budget_cents, status, created_at FROM goals WHERE id = ?`, id)
	g, err := scanGoalRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (q *Queries) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, budget_cents, status, created_at FROM goals ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoalRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoalFields patches only the supplied fields; nil means leave
// unchanged. There is no way to clear a budget, only to set one.
func (q *Queries) UpdateGoalFields(ctx context.Context, id int64, name *string, budget *core.Money, status *core.GoalStatus) (core.Goal, error) {
	var sets []string
	var args []any
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if budget != nil {
		sets = append(sets, "budget_cents = ?")
		args = append(args, budget.Cents)
	}
	if status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*status))
	}
	if len(sets) == 0 {
		return q.GetGoal(ctx, id)
	}
	args = append(args, id)

	res, err := q.db.ExecContext(ctx,
		"UPDATE goals SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if n == 0 {
		return core.Goal{}, fmt.Errorf("goal %d: %w", id, core.ErrNotFound)
	}
	return q.GetGoal(ctx, id)
}

func (q *Queries) CreateStep(ctx context.Context, goalID int64, description string) (core.Step, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO steps (goal_id, description) VALUES (?, ?)`, goalID, description)
	if err != nil {
		return core.Step{}, fmt.Errorf("insert step: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Step{}, fmt.Errorf("step id: %w", err)
	}

	var s core.Step
	var createdAt sql.NullTime
	err = q.db.QueryRowContext(ctx,
		`SELECT id, goal_id, description, status, created_at FROM steps WHERE id = ?`, id).
		Scan(&s.ID, &s.GoalID, &s.Description, &s.Status, &createdAt)
	if err != nil {
		return core.Step{}, fmt.Errorf("get step: %w", err)
	}
	s.CreatedAt = createdAt.Time
	return s, nil
}

func (q *Queries) ListStepsByGoal(ctx context.Context, goalID int64) ([]core.Step, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, goal_id, description, status, created_at FROM steps
		 WHERE goal_id = ? ORDER BY created_at`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var steps []core.Step
	for rows.Next() {
		var s core.Step
		var createdAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.GoalID, &s.Description, &s.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		s.CreatedAt = createdAt.Time
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

func (q *Queries) SetStepStatus(ctx context.Context, id int64, status core.StepStatus) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE steps SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update step status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update step status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("step %d: %w", id, core.ErrNotFound)
	}
	return nil
}
