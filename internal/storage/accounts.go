package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finman/internal/core"
)

func scanAccount(row *sql.Row) (core.Account, error) {
	var a core.Account
	var createdAt sql.NullTime
	err := row.Scan(&a.ID, &a.Name, &a.Balance.Cents, &createdAt)
	if err != nil {
		return core.Account{}, err
	}
	a.CreatedAt = createdAt.Time
	return a, nil
}

func (q *Queries) CreateAccount(ctx context.Context, name string, initialBalance core.Money) (core.Account, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts (name, balance_cents) VALUES (?, ?)`,
		name, initialBalance.Cents)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("account id: %w", err)
	}
	return q.GetAccount(ctx, id)
}

func (q *Queries) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, balance_cents, created_at FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (q *Queries) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, balance_cents, created_at FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		var createdAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.Name, &a.Balance.Cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.CreatedAt = createdAt.Time
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// AdjustAccountBalance applies a signed delta in a single relative
// update, so concurrent postings against the same account cannot lose
// writes the way a read-compute-overwrite sequence can.
func (q *Queries) AdjustAccountBalance(ctx context.Context, id int64, deltaCents int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + ? WHERE id = ?`,
		deltaCents, id)
	if err != nil {
		return fmt.Errorf("adjust account balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust account balance: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// SumAccountBalances returns the net balance across all accounts.
func (q *Queries) SumAccountBalances(ctx context.Context) (core.Money, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(balance_cents), 0) FROM accounts`).Scan(&total)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum account balances: %w", err)
	}
	return core.Money{Cents: total}, nil
}
