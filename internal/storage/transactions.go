package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finman/internal/core"
)

// InsertTransactionParams carries the fields for one ledger row.
type InsertTransactionParams struct {
	Amount      core.Money
	Type        core.TransactionType
	AccountID   int64
	GoalID      *int64
	CategoryID  *int64
	Description string
	Date        core.Date
}

func (q *Queries) InsertTransaction(ctx context.Context, p InsertTransactionParams) (core.Transaction, error) {
	var goalID, categoryID any
	if p.GoalID != nil {
		goalID = *p.GoalID
	}
	if p.CategoryID != nil {
		categoryID = *p.CategoryID
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions (amount_cents, type, account_id, goal_id, category_id, description, transaction_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Amount.Cents, string(p.Type), p.AccountID, goalID, categoryID, p.Description, p.Date.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	return q.GetTransaction(ctx, id)
}

func scanTransactionRow(scan func(dest ...any) error) (core.Transaction, error) {
	var t core.Transaction
	var goalID, categoryID sql.NullInt64
	var category sql.NullString
	var dateStr string
	var createdAt sql.NullTime
	err := scan(&t.ID, &t.Amount.Cents, &t.Type, &t.AccountID, &goalID, &categoryID,
		&category, &t.Description, &dateStr, &createdAt)
	if err != nil {
		return core.Transaction{}, err
	}
	if goalID.Valid {
		t.GoalID = &goalID.Int64
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	t.Category = category.String
	if d, err := core.ParseDate(dateStr); err == nil {
		t.Date = d
	}
	t.CreatedAt = createdAt.Time
	return t, nil
}

const transactionColumns = `t.id, t.amount_cents, t.type, t.account_id, t.goal_id, t.category_id,
	c.name, t.description, t.transaction_date, t.created_at`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.id = ?`, id)
	t, err := scanTransactionRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactionsByGoal returns all transactions linked to a goal in
// posting order, with the category name joined in.
func (q *Queries) ListTransactionsByGoal(ctx context.Context, goalID int64) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.goal_id = ? ORDER BY t.transaction_date, t.id`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by goal: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		t, err := scanTransactionRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// SpendingByCategory aggregates Expense amounts by category name over an
// inclusive date range. Aggregation happens in SQL, not client-side.
func (q *Queries) SpendingByCategory(ctx context.Context, start, end core.Date) ([]core.CategorySpending, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT c.name, SUM(t.amount_cents) AS total_cents
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.type = 'Expense' AND t.transaction_date >= ? AND t.transaction_date <= ?
		 GROUP BY c.name
		 ORDER BY total_cents DESC`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("spending by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategorySpending
	for rows.Next() {
		var r core.CategorySpending
		if err := rows.Scan(&r.Category, &r.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan spending row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PendingSyncTransaction is the minimal row the export worker needs to
// build a sync message.
type PendingSyncTransaction struct {
	ID        int64
	CreatedAt sql.NullTime
}

func (q *Queries) ListPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, created_at FROM transactions
		 WHERE sync_status = 'pending' ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync transaction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q *Queries) MarkTransactionSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

func (q *Queries) MarkTransactionSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	return nil
}
