package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
	Saving  TransactionType = "Saving"

	GoalActive    GoalStatus = "Active"
	GoalCompleted GoalStatus = "Completed"

	StepPending   StepStatus = "Pending"
	StepCompleted StepStatus = "Completed"

	Monthly Frequency = "monthly"
)

type (
	TransactionType string
	GoalStatus      string
	StepStatus      string
	Frequency       string

	// Account is a ledgered account. Balance is the net sum of all
	// transactions posted against it since creation and may be negative.
	Account struct {
		ID        int64
		Name      string
		Balance   Money
		CreatedAt time.Time
	}

	// Category is created lazily on first use and never updated.
	Category struct {
		ID   int64
		Name string
	}

	// Transaction is one row of the append-only ledger. Posted
	// transactions are never edited or deleted.
	Transaction struct {
		ID          int64
		Amount      Money
		Type        TransactionType
		AccountID   int64
		GoalID      *int64 // set only for Saving
		CategoryID  *int64 // set for Expense
		Category    string // joined category name, empty when none
		Description string
		Date        Date
		CreatedAt   time.Time
	}

	Goal struct {
		ID        int64
		Name      string
		Budget    *Money // nil = unbounded
		Status    GoalStatus
		CreatedAt time.Time
	}

	Step struct {
		ID          int64
		GoalID      int64
		Description string
		Status      StepStatus
		CreatedAt   time.Time
	}

	Debt struct {
		ID              int64
		Name            string
		TotalAmount     Money
		RemainingAmount Money // may go negative on overpayment
		MonthlyEMI      *Money
		CreatedAt       time.Time
	}

	// RecurringTransaction is a template that the scheduler materializes
	// into ledger transactions. NextDueDate only ever moves forward.
	RecurringTransaction struct {
		ID          int64
		AccountID   int64
		Description string
		Amount      Money
		Type        TransactionType
		Frequency   Frequency
		StartDate   Date
		NextDueDate Date
		DebtID      *int64 // optional EMI link
		CreatedAt   time.Time
	}
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateStep     = errors.New("duplicate step")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidFrequency  = errors.New("invalid frequency")
)

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.Budget != nil && g.Budget.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.TotalAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if d.MonthlyEMI != nil && d.MonthlyEMI.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (rt RecurringTransaction) Validate() error {
	if err := rt.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(rt.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rt.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	// Saving transactions are only ever created through goal allocation,
	// never through a recurring template.
	switch rt.Type {
	case Income, Expense:
	default:
		return ErrInvalidType
	}
	switch rt.Frequency {
	case Monthly:
	default:
		return ErrInvalidFrequency
	}
	if rt.StartDate.IsZero() {
		return errors.New("start date cannot be zero")
	}
	return nil
}
