package services

import (
	"context"
	"errors"
	"testing"

	"finman/internal/core"
)

func TestDebtService_AddDebt(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewDebtService(repo, NewTransactionService(repo, nil))

	emi := core.Money{Cents: 50_00}
	debt, err := svc.AddDebt(context.Background(), "Car loan", core.Money{Cents: 1000_00}, &emi)
	if err != nil {
		t.Fatalf("AddDebt() error = %v", err)
	}

	if debt.RemainingAmount.Cents != debt.TotalAmount.Cents {
		t.Errorf("RemainingAmount = %d, want total %d", debt.RemainingAmount.Cents, debt.TotalAmount.Cents)
	}
	if debt.MonthlyEMI == nil || debt.MonthlyEMI.Cents != 50_00 {
		t.Errorf("MonthlyEMI = %v, want 5000 cents", debt.MonthlyEMI)
	}
}

func TestDebtService_AddDebt_Invalid(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewDebtService(repo, NewTransactionService(repo, nil))

	tests := []struct {
		name     string
		debtName string
		total    int64
		emi      *core.Money
		wantErr  error
	}{
		{"empty name", "  ", 100_00, nil, core.ErrEmptyName},
		{"negative total", "Loan", -1, nil, core.ErrInvalidAmount},
		{"zero emi", "Loan", 100_00, &core.Money{}, core.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddDebt(context.Background(), tt.debtName, core.Money{Cents: tt.total}, tt.emi)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddDebt() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDebtService_MakePayment(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewDebtService(repo, NewTransactionService(repo, nil))
	debt := mustCreateDebt(t, repo, "Car loan", 1000_00)

	updated, err := svc.MakePayment(context.Background(), debt.ID, core.Money{Cents: 300_00})
	if err != nil {
		t.Fatalf("MakePayment() error = %v", err)
	}
	if updated.RemainingAmount.Cents != 700_00 {
		t.Errorf("RemainingAmount = %d, want %d", updated.RemainingAmount.Cents, 700_00)
	}
}

func TestDebtService_MakePayment_Overpayment(t *testing.T) {
	// Overpayment is not clamped: the remainder goes negative so the
	// excess stays visible.
	repo := newTestRepo(t)
	svc := NewDebtService(repo, NewTransactionService(repo, nil))
	debt := mustCreateDebt(t, repo, "Car loan", 100_00)

	updated, err := svc.MakePayment(context.Background(), debt.ID, core.Money{Cents: 150_00})
	if err != nil {
		t.Fatalf("MakePayment() error = %v", err)
	}
	if updated.RemainingAmount.Cents != -50_00 {
		t.Errorf("RemainingAmount = %d, want %d", updated.RemainingAmount.Cents, -50_00)
	}
}

func TestDebtService_MakePayment_Invalid(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewDebtService(repo, NewTransactionService(repo, nil))
	debt := mustCreateDebt(t, repo, "Car loan", 100_00)

	if _, err := svc.MakePayment(context.Background(), debt.ID, core.Money{}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("MakePayment(zero) error = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.MakePayment(context.Background(), 999, core.Money{Cents: 10_00}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("MakePayment(unknown debt) error = %v, want ErrNotFound", err)
	}
}

func TestDebtService_MakeManualPayment(t *testing.T) {
	repo := newTestRepo(t)
	transactions := NewTransactionService(repo, nil)
	svc := NewDebtService(repo, transactions)
	account := mustCreateAccount(t, repo, "Checking", 500_00)
	debt := mustCreateDebt(t, repo, "Car loan", 1000_00)

	updated, err := svc.MakeManualPayment(context.Background(), debt.ID, account.ID, core.Money{Cents: 200_00})
	if err != nil {
		t.Fatalf("MakeManualPayment() error = %v", err)
	}

	if updated.RemainingAmount.Cents != 800_00 {
		t.Errorf("RemainingAmount = %d, want %d", updated.RemainingAmount.Cents, 800_00)
	}
	if got := accountBalance(t, repo, account.ID); got != 300_00 {
		t.Errorf("balance = %d, want %d", got, 300_00)
	}

	// The payment lands in the ledger as a categorized expense.
	rows, err := repo.SpendingByCategory(context.Background(), core.NewDate(2000, 1, 1), core.NewDate(2100, 1, 1))
	if err != nil {
		t.Fatalf("SpendingByCategory() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Category != DebtPaymentCategory || rows[0].Total.Cents != 200_00 {
		t.Errorf("spending rows = %+v, want one %q row of 20000 cents", rows, DebtPaymentCategory)
	}
}

func TestDebtService_MakeManualPayment_UnknownAccount(t *testing.T) {
	// The expense and the debt reduction commit together or not at all.
	repo := newTestRepo(t)
	svc := NewDebtService(repo, NewTransactionService(repo, nil))
	debt := mustCreateDebt(t, repo, "Car loan", 1000_00)

	_, err := svc.MakeManualPayment(context.Background(), debt.ID, 999, core.Money{Cents: 200_00})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("MakeManualPayment() error = %v, want ErrNotFound", err)
	}

	after, err := repo.GetDebt(context.Background(), debt.ID)
	if err != nil {
		t.Fatalf("GetDebt() error = %v", err)
	}
	if after.RemainingAmount.Cents != 1000_00 {
		t.Errorf("RemainingAmount = %d, want unchanged 100000", after.RemainingAmount.Cents)
	}
}

func TestDebtService_MakeManualPayment_UnknownDebt(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewDebtService(repo, NewTransactionService(repo, nil))
	account := mustCreateAccount(t, repo, "Checking", 500_00)

	_, err := svc.MakeManualPayment(context.Background(), 999, account.ID, core.Money{Cents: 200_00})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("MakeManualPayment() error = %v, want ErrNotFound", err)
	}
	if got := accountBalance(t, repo, account.ID); got != 500_00 {
		t.Errorf("balance changed on rejected payment: %d", got)
	}
}

func TestDebtService_UpdateDebtDetails(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewDebtService(repo, NewTransactionService(repo, nil))
	debt := mustCreateDebt(t, repo, "Car loan", 1000_00)

	if _, err := svc.MakePayment(context.Background(), debt.ID, core.Money{Cents: 300_00}); err != nil {
		t.Fatalf("MakePayment() error = %v", err)
	}

	t.Run("total change shifts remaining by the difference", func(t *testing.T) {
		updated, err := svc.UpdateDebtDetails(context.Background(), debt.ID, "", &core.Money{Cents: 1200_00}, nil)
		if err != nil {
			t.Fatalf("UpdateDebtDetails() error = %v", err)
		}
		if updated.TotalAmount.Cents != 1200_00 {
			t.Errorf("TotalAmount = %d, want %d", updated.TotalAmount.Cents, 1200_00)
		}
		// 300 already paid stays paid: 1200 - 300 = 900 remaining.
		if updated.RemainingAmount.Cents != 900_00 {
			t.Errorf("RemainingAmount = %d, want %d", updated.RemainingAmount.Cents, 900_00)
		}
	})

	t.Run("rename and emi", func(t *testing.T) {
		updated, err := svc.UpdateDebtDetails(context.Background(), debt.ID, "Family car loan", nil, &core.Money{Cents: 75_00})
		if err != nil {
			t.Fatalf("UpdateDebtDetails() error = %v", err)
		}
		if updated.Name != "Family car loan" {
			t.Errorf("Name = %q, want %q", updated.Name, "Family car loan")
		}
		if updated.MonthlyEMI == nil || updated.MonthlyEMI.Cents != 75_00 {
			t.Errorf("MonthlyEMI = %v, want 7500 cents", updated.MonthlyEMI)
		}
		if updated.RemainingAmount.Cents != 900_00 {
			t.Errorf("RemainingAmount = %d, want unchanged %d", updated.RemainingAmount.Cents, 900_00)
		}
	})

	t.Run("unknown debt", func(t *testing.T) {
		_, err := svc.UpdateDebtDetails(context.Background(), 999, "x", nil, nil)
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("UpdateDebtDetails() error = %v, want ErrNotFound", err)
		}
	})
}
