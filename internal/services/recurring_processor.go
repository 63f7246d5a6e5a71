package services

import (
	"context"
	"log/slog"

	"finman/internal/core"
	"finman/internal/storage"
)

// RecurringProcessor materializes due recurring transactions into ledger
// postings. Each due entry is applied independently inside its own
// database transaction: post the income/expense, apply the linked debt
// payment if any, advance the due date. A failed entry rolls back
// whole, stays due, and is retried on the next invocation without
// blocking the remaining entries.
type RecurringProcessor struct {
	repo         *storage.SQLiteRepository
	transactions *TransactionService
}

func NewRecurringProcessor(repo *storage.SQLiteRepository, transactions *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		repo:         repo,
		transactions: transactions,
	}
}

// CreateRecurringTransaction registers a new recurring entry. The next
// due date starts at the start date when not set explicitly.
func (p *RecurringProcessor) CreateRecurringTransaction(ctx context.Context, rt core.RecurringTransaction) (core.RecurringTransaction, error) {
	if rt.NextDueDate.IsZero() {
		rt.NextDueDate = rt.StartDate
	}
	if err := rt.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}
	if _, err := p.repo.GetAccount(ctx, rt.AccountID); err != nil {
		return core.RecurringTransaction{}, err
	}
	if rt.DebtID != nil {
		if _, err := p.repo.GetDebt(ctx, *rt.DebtID); err != nil {
			return core.RecurringTransaction{}, err
		}
	}

	created, err := p.repo.CreateRecurringTransaction(ctx, rt)
	if err != nil {
		return core.RecurringTransaction{}, err
	}

	slog.InfoContext(ctx, "Recurring transaction created",
		"recurring_id", created.ID,
		"type", created.Type,
		"amount_cents", created.Amount.Cents,
		"next_due_date", created.NextDueDate.String())

	return created, nil
}

// ListRecurringTransactions returns all recurring entries ordered by
// creation time.
func (p *RecurringProcessor) ListRecurringTransactions(ctx context.Context) ([]core.RecurringTransaction, error) {
	return p.repo.ListRecurringTransactions(ctx)
}

// ProcessDueTransactions applies every entry whose next due date is on
// or before today and returns the number of entries processed. Each
// entry advances exactly one month per invocation regardless of how
// many periods have elapsed; a long-offline backlog drains one period
// per pass and is logged rather than caught up silently.
func (p *RecurringProcessor) ProcessDueTransactions(ctx context.Context, today core.Date) (int, error) {
	due, err := p.repo.ListDueRecurringTransactions(ctx, today)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing due recurring transactions",
		"due", len(due),
		"processing_date", today.String())

	processed := 0
	for _, rt := range due {
		txnID, err := p.applyEntry(ctx, rt)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to process recurring transaction",
				"recurring_id", rt.ID,
				"description", rt.Description,
				"error", err)
			continue
		}

		processed++
		p.transactions.publishPosted(ctx, txnID)

		nextDue := rt.NextDueDate.AddMonths(1)
		if nextDue.OnOrBefore(today) {
			slog.WarnContext(ctx, "Recurring transaction still due after advancing",
				"recurring_id", rt.ID,
				"next_due_date", nextDue.String(),
				"processing_date", today.String())
		}
		slog.InfoContext(ctx, "Processed recurring transaction",
			"recurring_id", rt.ID,
			"description", rt.Description,
			"amount_cents", rt.Amount.Cents,
			"next_due_date", nextDue.String())
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"processed", processed,
		"due", len(due))

	return processed, nil
}

// applyEntry posts one recurring entry atomically and returns the
// created ledger transaction ID.
func (p *RecurringProcessor) applyEntry(ctx context.Context, rt core.RecurringTransaction) (int64, error) {
	var txnID int64
	err := p.repo.ExecTx(ctx, func(q *storage.Queries) error {
		var txn core.Transaction
		var err error
		switch rt.Type {
		case core.Income:
			txn, err = p.transactions.postIncome(ctx, q, rt.Amount, rt.AccountID, rt.Description)
		case core.Expense:
			// The entry's description doubles as its category.
			txn, err = p.transactions.postExpense(ctx, q, rt.Amount, rt.Description, rt.AccountID, rt.Description)
		default:
			return core.ErrInvalidType
		}
		if err != nil {
			return err
		}
		txnID = txn.ID

		if rt.DebtID != nil {
			if err := q.ReduceDebtRemaining(ctx, *rt.DebtID, rt.Amount.Cents); err != nil {
				return err
			}
		}

		// Only monthly recurrence is supported; the stored frequency
		// string does not change the advance.
		return q.SetNextDueDate(ctx, rt.ID, rt.NextDueDate.AddMonths(1))
	})
	return txnID, err
}
