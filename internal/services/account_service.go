package services

import (
	"context"
	"log/slog"

	"finman/internal/core"
	"finman/internal/storage"
)

// AccountService handles account creation and listing. Balances are
// mutated only by the TransactionService posting paths.
type AccountService struct {
	repo *storage.SQLiteRepository
}

func NewAccountService(repo *storage.SQLiteRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) CreateAccount(ctx context.Context, name string, initialBalance core.Money) (core.Account, error) {
	if err := (core.Account{Name: name}).Validate(); err != nil {
		return core.Account{}, err
	}

	account, err := s.repo.CreateAccount(ctx, name, initialBalance)
	if err != nil {
		return core.Account{}, err
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", account.ID,
		"name", account.Name,
		"balance_cents", account.Balance.Cents)

	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// ListAccounts returns all accounts ordered by name.
func (s *AccountService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.repo.ListAccounts(ctx)
}
