package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finman/internal/core"
)

func scanDebtRow(scan func(dest ...any) error) (core.Debt, error) {
	var d core.Debt
	var emi sql.NullInt64
	var createdAt sql.NullTime
	if err := scan(&d.ID, &d.Name, &d.TotalAmount.Cents, &d.RemainingAmount.Cents, &emi, &createdAt); err != nil {
		return core.Debt{}, err
	}
	if emi.Valid {
		d.MonthlyEMI = &core.Money{Cents: emi.Int64}
	}
	d.CreatedAt = createdAt.Time
	return d, nil
}

func (q *Queries) CreateDebt(ctx context.Context, name string, totalAmount core.Money, monthlyEMI *core.Money) (core.Debt, error) {
	var emiCents any
	if monthlyEMI != nil {
		emiCents = monthlyEMI.Cents
	}
	// A new debt starts with remaining equal to total.
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO debts (name, total_cents, remaining_cents, monthly_emi_cents)
		 VALUES (?, ?, ?, ?)`,
		name, totalAmount.Cents, totalAmount.Cents, emiCents)
	if err != nil {
		return core.Debt{}, fmt.Errorf("insert debt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Debt{}, fmt.Errorf("debt id: %w", err)
	}
	return q.GetDebt(ctx, id)
}

func (q *Queries) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, total_cents, remaining_cents, monthly_emi_cents, created_at
		 FROM debts WHERE id = ?`, id)
	d, err := scanDebtRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, fmt.Errorf("debt %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("get debt: %w", err)
	}
	return d, nil
}

func (q *Queries) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, total_cents, remaining_cents, monthly_emi_cents, created_at
		 FROM debts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		d, err := scanDebtRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// ReduceDebtRemaining subtracts a payment from the remaining balance as
// a relative update. The balance is deliberately not floored at zero:
// overpayment leaves a negative remainder rather than silently clamping.
func (q *Queries) ReduceDebtRemaining(ctx context.Context, id int64, amountCents int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE debts SET remaining_cents = remaining_cents - ? WHERE id = ?`,
		amountCents, id)
	if err != nil {
		return fmt.Errorf("reduce debt remaining: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reduce debt remaining: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("debt %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// UpdateDebtFields patches only the supplied fields; nil means leave
// unchanged.
func (q *Queries) UpdateDebtFields(ctx context.Context, id int64, name *string, totalCents, remainingCents, emiCents *int64) (core.Debt, error) {
	var sets []string
	var args []any
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if totalCents != nil {
		sets = append(sets, "total_cents = ?")
		args = append(args, *totalCents)
	}
	if remainingCents != nil {
		sets = append(sets, "remaining_cents = ?")
		args = append(args, *remainingCents)
	}
	if emiCents != nil {
		sets = append(sets, "monthly_emi_cents = ?")
		args = append(args, *emiCents)
	}
	if len(sets) == 0 {
		return q.GetDebt(ctx, id)
	}
	args = append(args, id)

	res, err := q.db.ExecContext(ctx,
		"UPDATE debts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return core.Debt{}, fmt.Errorf("update debt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Debt{}, fmt.Errorf("update debt: %w", err)
	}
	if n == 0 {
		return core.Debt{}, fmt.Errorf("debt %d: %w", id, core.ErrNotFound)
	}
	return q.GetDebt(ctx, id)
}

// SumDebtRemaining returns the total outstanding amount across all debts.
func (q *Queries) SumDebtRemaining(ctx context.Context) (core.Money, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(remaining_cents), 0) FROM debts`).Scan(&total)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum debt remaining: %w", err)
	}
	return core.Money{Cents: total}, nil
}
