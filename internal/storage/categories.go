package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finman/internal/core"
)

// GetOrCreateCategory looks a category up by exact name and inserts it
// on first use. Matching is case-sensitive with no trimming: "Food" and
// "food" are distinct categories.
func (q *Queries) GetOrCreateCategory(ctx context.Context, name string) (core.Category, error) {
	var c core.Category
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE name = ?`, name).Scan(&c.ID, &c.Name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("find category: %w", err)
	}

	res, err := q.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	return core.Category{ID: id, Name: name}, nil
}
