package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/logging"
)

// firstAccountSuffix is appended to the user's id for their first account.
const firstAccountSuffix = "0001"

type AccountService struct {
	accounts accountRepository
}

func NewAccountService(accounts accountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// GenerateAccountNumber derives the next number for userID from their most
// recently created account. Callers must hold a lock that serialises number
// generation for the user (see RequestService.Approve).
func (s *AccountService) GenerateAccountNumber(ctx context.Context, tx *sql.Tx, userID int64) (string, error) {
	last, err := s.accounts.LastForUser(ctx, tx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return firstAccountNumber(userID), nil
	}
	if err != nil {
		return "", fmt.Errorf("GenerateAccountNumber: %w", err)
	}

	next, err := nextAccountNumber(last.Number)
	if err != nil {
		return "", fmt.Errorf("GenerateAccountNumber: account %d: %w", last.ID, err)
	}
	return next, nil
}

func firstAccountNumber(userID int64) string {
	return strconv.FormatInt(userID, 10) + firstAccountSuffix
}

// nextAccountNumber returns the numeric successor of number with no width limit.
func nextAccountNumber(number string) (string, error) {
	if number == "" {
		return "", domain.ErrMalformedAccountNumber
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%q: %w", number, domain.ErrMalformedAccountNumber)
		}
	}

	n, err := decimal.NewFromString(number)
	if err != nil {
		return "", fmt.Errorf("%q: %w", number, domain.ErrMalformedAccountNumber)
	}
	return n.Add(decimal.NewFromInt(1)).String(), nil
}

func (s *AccountService) AccountExists(ctx context.Context, number string) (bool, error) {
	exists, err := s.accounts.ExistsByNumber(ctx, number)
	if err != nil {
		return false, fmt.Errorf("AccountExists: %w", err)
	}
	return exists, nil
}

// ResolveAccount looks an account up by id, or by number when no id is given.
func (s *AccountService) ResolveAccount(ctx context.Context, ref domain.AccountRef) (*domain.Account, error) {
	var (
		account *domain.Account
		err     error
	)
	switch {
	case ref.ID != 0:
		account, err = s.accounts.GetByID(ctx, ref.ID)
	case ref.Number != "":
		account, err = s.accounts.GetByNumber(ctx, ref.Number)
	default:
		return nil, fmt.Errorf("ResolveAccount: empty reference: %w", domain.ErrInvalidRequest)
	}
	if err != nil {
		return nil, fmt.Errorf("ResolveAccount: %w", err)
	}
	return account, nil
}

func (s *AccountService) GetUserAccounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	accounts, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetUserAccounts: %w", err)
	}
	return accounts, nil
}

// GetAccountForUser hides accounts of other users behind ErrNotFound.
func (s *AccountService) GetAccountForUser(ctx context.Context, accountID, userID int64) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("GetAccountForUser: %w", err)
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("GetAccountForUser: %w", domain.ErrNotFound)
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.OwnedAccount, error) {
	accounts, err := s.accounts.ListWithOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID int64) (*domain.OwnedAccount, error) {
	account, err := s.accounts.GetWithOwner(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return account, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, accountID int64) error {
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}
	logging.FromContext(ctx).Info("account deleted", "account_id", accountID)
	return nil
}
