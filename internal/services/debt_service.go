package services

import (
	"context"
	"log/slog"

	"finman/internal/core"
	"finman/internal/storage"
)

// DebtPaymentCategory is the category used for manual debt payments
// posted through the ledger.
const DebtPaymentCategory = "Debt Payment"

// DebtService tracks debt principal and remaining balance. Payments
// reduce the remaining amount without flooring it at zero: an
// overpayment leaves a visible negative remainder instead of being
// silently clamped.
type DebtService struct {
	repo         *storage.SQLiteRepository
	transactions *TransactionService
}

func NewDebtService(repo *storage.SQLiteRepository, transactions *TransactionService) *DebtService {
	return &DebtService{
		repo:         repo,
		transactions: transactions,
	}
}

func (s *DebtService) AddDebt(ctx context.Context, name string, totalAmount core.Money, monthlyEMI *core.Money) (core.Debt, error) {
	if err := (core.Debt{Name: name, TotalAmount: totalAmount, MonthlyEMI: monthlyEMI}).Validate(); err != nil {
		return core.Debt{}, err
	}

	debt, err := s.repo.CreateDebt(ctx, name, totalAmount, monthlyEMI)
	if err != nil {
		return core.Debt{}, err
	}

	slog.InfoContext(ctx, "Debt created",
		"debt_id", debt.ID,
		"name", debt.Name,
		"total_cents", debt.TotalAmount.Cents)

	return debt, nil
}

func (s *DebtService) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	return s.repo.GetDebt(ctx, id)
}

// ListDebts returns all debts ordered by creation time.
func (s *DebtService) ListDebts(ctx context.Context) ([]core.Debt, error) {
	return s.repo.ListDebts(ctx)
}

// MakePayment reduces a debt's remaining balance. This is the primitive
// used by both manual payments and automatic EMI application; it does
// not touch any account.
func (s *DebtService) MakePayment(ctx context.Context, debtID int64, amount core.Money) (core.Debt, error) {
	if err := amount.Validate(); err != nil {
		return core.Debt{}, err
	}
	if err := s.repo.ReduceDebtRemaining(ctx, debtID, amount.Cents); err != nil {
		return core.Debt{}, err
	}
	return s.repo.GetDebt(ctx, debtID)
}

// MakeManualPayment posts a "Debt Payment" expense from the account and
// reduces the debt's remaining balance as one atomic unit: if either
// side fails, neither is committed.
func (s *DebtService) MakeManualPayment(ctx context.Context, debtID, accountID int64, amount core.Money) (core.Debt, error) {
	if err := amount.Validate(); err != nil {
		return core.Debt{}, err
	}

	var debt core.Debt
	var txnID int64
	err := s.repo.ExecTx(ctx, func(q *storage.Queries) error {
		current, err := q.GetDebt(ctx, debtID)
		if err != nil {
			return err
		}
		txn, err := s.transactions.postExpense(ctx, q, amount, DebtPaymentCategory, accountID,
			"Payment for debt "+current.Name)
		if err != nil {
			return err
		}
		txnID = txn.ID
		if err := q.ReduceDebtRemaining(ctx, debtID, amount.Cents); err != nil {
			return err
		}
		debt, err = q.GetDebt(ctx, debtID)
		return err
	})
	if err != nil {
		return core.Debt{}, err
	}

	slog.InfoContext(ctx, "Manual debt payment applied",
		"debt_id", debtID,
		"account_id", accountID,
		"amount_cents", amount.Cents,
		"remaining_cents", debt.RemainingAmount.Cents)

	s.transactions.publishPosted(ctx, txnID)
	return debt, nil
}

// UpdateDebtDetails patches the supplied fields. When the total amount
// changes, the remaining balance shifts by the same difference, so the
// amount already paid down is preserved in absolute terms.
func (s *DebtService) UpdateDebtDetails(ctx context.Context, debtID int64, name string, newTotal, newEMI *core.Money) (core.Debt, error) {
	var debt core.Debt
	err := s.repo.ExecTx(ctx, func(q *storage.Queries) error {
		current, err := q.GetDebt(ctx, debtID)
		if err != nil {
			return err
		}

		var namePtr *string
		if name != "" {
			namePtr = &name
		}
		var totalCents, remainingCents, emiCents *int64
		if newTotal != nil {
			difference := newTotal.Cents - current.TotalAmount.Cents
			t := newTotal.Cents
			r := current.RemainingAmount.Cents + difference
			totalCents, remainingCents = &t, &r
		}
		if newEMI != nil {
			e := newEMI.Cents
			emiCents = &e
		}

		debt, err = q.UpdateDebtFields(ctx, debtID, namePtr, totalCents, remainingCents, emiCents)
		return err
	})
	if err != nil {
		return core.Debt{}, err
	}
	return debt, nil
}
