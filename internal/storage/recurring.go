package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finman/internal/core"
)

func scanRecurringRow(scan func(dest ...any) error) (core.RecurringTransaction, error) {
	var rt core.RecurringTransaction
	var debtID sql.NullInt64
	var startStr, dueStr string
	var createdAt sql.NullTime
	err := scan(&rt.ID, &rt.AccountID, &rt.Description, &rt.Amount.Cents, &rt.Type,
		&rt.Frequency, &startStr, &dueStr, &debtID, &createdAt)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	if debtID.Valid {
		rt.DebtID = &debtID.Int64
	}
	if d, err := core.ParseDate(startStr); err == nil {
		rt.StartDate = d
	}
	if d, err := core.ParseDate(dueStr); err == nil {
		rt.NextDueDate = d
	}
	rt.CreatedAt = createdAt.Time
	return rt, nil
}

const recurringColumns = `id, account_id, description, amount_cents, type, frequency,
	start_date, next_due_date, debt_id, created_at`

func (q *Queries) CreateRecurringTransaction(ctx context.Context, rt core.RecurringTransaction) (core.RecurringTransaction, error) {
	var debtID any
	if rt.DebtID != nil {
		debtID = *rt.DebtID
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO recurring_transactions
		 (account_id, description, amount_cents, type, frequency, start_date, next_due_date, debt_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.AccountID, rt.Description, rt.Amount.Cents, string(rt.Type), string(rt.Frequency),
		rt.StartDate.String(), rt.NextDueDate.String(), debtID)
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("insert recurring transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("recurring transaction id: %w", err)
	}
	return q.GetRecurringTransaction(ctx, id)
}

func (q *Queries) GetRecurringTransaction(ctx context.Context, id int64) (core.RecurringTransaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions WHERE id = ?`, id)
	rt, err := scanRecurringRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringTransaction{}, fmt.Errorf("recurring transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("get recurring transaction: %w", err)
	}
	return rt, nil
}

func (q *Queries) ListRecurringTransactions(ctx context.Context) ([]core.RecurringTransaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}
	defer rows.Close()
	return collectRecurring(rows)
}

// ListDueRecurringTransactions returns every entry whose next due date
// is on or before the given day. ISO date strings compare correctly as
// text.
func (q *Queries) ListDueRecurringTransactions(ctx context.Context, today core.Date) ([]core.RecurringTransaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions
		 WHERE next_due_date <= ? ORDER BY next_due_date, id`, today.String())
	if err != nil {
		return nil, fmt.Errorf("list due recurring transactions: %w", err)
	}
	defer rows.Close()
	return collectRecurring(rows)
}

func collectRecurring(rows *sql.Rows) ([]core.RecurringTransaction, error) {
	var out []core.RecurringTransaction
	for rows.Next() {
		rt, err := scanRecurringRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan recurring transaction: %w", err)
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (q *Queries) SetNextDueDate(ctx context.Context, id int64, due core.Date) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET next_due_date = ? WHERE id = ?`,
		due.String(), id)
	if err != nil {
		return fmt.Errorf("set next due date: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set next due date: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("recurring transaction %d: %w", id, core.ErrNotFound)
	}
	return nil
}
