// Package services holds the business logic: posting transactions,
// goal and debt tracking, recurring processing, and reporting. Services
// own no state beyond their injected repository and publish ledger
// events for the export pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"finman/internal/amqp"
	"finman/internal/core"
	"finman/internal/storage"
)

// TransactionService is the single writer of ledger entries. Every
// posting runs as one database transaction: validate, mutate the account
// balance, append the ledger row.
type TransactionService struct {
	repo       *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(repo *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		repo:       repo,
		amqpClient: amqpClient,
	}
}

// AddExpense debits the account and appends an Expense row under the
// given category. There is deliberately no sufficient-funds check:
// discretionary spending may overdraft the account.
func (s *TransactionService) AddExpense(ctx context.Context, amount core.Money, categoryName string, accountID int64, description string) (core.Transaction, error) {
	if err := amount.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var txn core.Transaction
	err := s.repo.ExecTx(ctx, func(q *storage.Queries) error {
		var err error
		txn, err = s.postExpense(ctx, q, amount, categoryName, accountID, description)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishPosted(ctx, txn.ID)
	return txn, nil
}

// AddIncome credits the account and appends an Income row. Income
// carries no category.
func (s *TransactionService) AddIncome(ctx context.Context, amount core.Money, accountID int64, description string) (core.Transaction, error) {
	if err := amount.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var txn core.Transaction
	err := s.repo.ExecTx(ctx, func(q *storage.Queries) error {
		var err error
		txn, err = s.postIncome(ctx, q, amount, accountID, description)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishPosted(ctx, txn.ID)
	return txn, nil
}

// AllocateToGoal moves money from an account into a goal as a Saving
// transaction. Unlike AddExpense, this rejects the posting when the
// account balance is short: goal savings may not overdraft.
func (s *TransactionService) AllocateToGoal(ctx context.Context, goalID int64, amount core.Money, accountID int64, description string) (core.Transaction, error) {
	if err := amount.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var txn core.Transaction
	err := s.repo.ExecTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetGoal(ctx, goalID); err != nil {
			return err
		}
		account, err := q.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if account.Balance.Cents < amount.Cents {
			return fmt.Errorf("account %q has %s, need %s: %w",
				account.Name, account.Balance, amount, core.ErrInsufficientFunds)
		}
		if err := q.AdjustAccountBalance(ctx, accountID, -amount.Cents); err != nil {
			return err
		}
		txn, err = q.InsertTransaction(ctx, storage.InsertTransactionParams{
			Amount:      amount,
			Type:        core.Saving,
			AccountID:   accountID,
			GoalID:      &goalID,
			Description: description,
			Date:        core.Today(),
		})
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Allocated to goal",
		"transaction_id", txn.ID,
		"goal_id", goalID,
		"account_id", accountID,
		"amount_cents", amount.Cents)

	s.publishPosted(ctx, txn.ID)
	return txn, nil
}

// postExpense applies an expense within an existing transaction scope.
// Composite operations (manual debt payment, recurring processing) call
// this so their own work commits or rolls back with the posting.
func (s *TransactionService) postExpense(ctx context.Context, q *storage.Queries, amount core.Money, categoryName string, accountID int64, description string) (core.Transaction, error) {
	if _, err := q.GetAccount(ctx, accountID); err != nil {
		return core.Transaction{}, err
	}
	if err := q.AdjustAccountBalance(ctx, accountID, -amount.Cents); err != nil {
		return core.Transaction{}, err
	}
	category, err := q.GetOrCreateCategory(ctx, categoryName)
	if err != nil {
		return core.Transaction{}, err
	}
	return q.InsertTransaction(ctx, storage.InsertTransactionParams{
		Amount:      amount,
		Type:        core.Expense,
		AccountID:   accountID,
		CategoryID:  &category.ID,
		Description: description,
		Date:        core.Today(),
	})
}

func (s *TransactionService) postIncome(ctx context.Context, q *storage.Queries, amount core.Money, accountID int64, description string) (core.Transaction, error) {
	if _, err := q.GetAccount(ctx, accountID); err != nil {
		return core.Transaction{}, err
	}
	if err := q.AdjustAccountBalance(ctx, accountID, amount.Cents); err != nil {
		return core.Transaction{}, err
	}
	return q.InsertTransaction(ctx, storage.InsertTransactionParams{
		Amount:      amount,
		Type:        core.Income,
		AccountID:   accountID,
		Description: description,
		Date:        core.Today(),
	})
}

// publishPosted emits a ledger event for the export worker. Failures are
// logged and swallowed: the posting is already committed and the pending
// sweep will pick the row up later.
func (s *TransactionService) publishPosted(ctx context.Context, id int64) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishTransactionPosted(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction posted event",
			"transaction_id", id, "error", err)
	}
}
