package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/events"
	"github.com/VitMok/bank-backend/internal/logging"
)

// numberGenerator is the account registry's side of opening an account.
type numberGenerator interface {
	GenerateAccountNumber(ctx context.Context, tx *sql.Tx, userID int64) (string, error)
	AccountExists(ctx context.Context, number string) (bool, error)
}

type RequestService struct {
	requests  requestRepository
	accounts  accountRepository
	users     userLocker
	numbers   numberGenerator
	publisher eventPublisher
	db        txBeginner
}

func NewRequestService(
	requests requestRepository,
	accounts accountRepository,
	users userLocker,
	numbers numberGenerator,
	publisher eventPublisher,
	db txBeginner,
) *RequestService {
	return &RequestService{
		requests:  requests,
		accounts:  accounts,
		users:     users,
		numbers:   numbers,
		publisher: publisher,
		db:        db,
	}
}

// Create files a pending request. A user holds at most one at a time.
func (s *RequestService) Create(ctx context.Context, userID int64, accountType domain.AccountType, currency domain.Currency) (*domain.AccountRequest, error) {
	if !accountType.IsValid() {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidAccountType)
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidCurrency)
	}

	_, err := s.requests.GetByUserID(ctx, userID)
	if err == nil {
		return nil, fmt.Errorf("Create: %w", domain.ErrDuplicatePendingRequest)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Create: check pending: %w", err)
	}

	req := &domain.AccountRequest{UserID: userID, Type: accountType, Currency: currency}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	logging.FromContext(ctx).Info("account request created",
		"request_id", req.ID,
		"user_id", userID,
		"type", accountType,
		"currency", currency,
	)
	return req, nil
}

func (s *RequestService) GetForUser(ctx context.Context, userID int64) (*domain.AccountRequest, error) {
	req, err := s.requests.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetForUser: %w", err)
	}
	return req, nil
}

func (s *RequestService) List(ctx context.Context) ([]domain.AccountRequest, error) {
	reqs, err := s.requests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return reqs, nil
}

func (s *RequestService) Get(ctx context.Context, requestID int64) (*domain.AccountRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return req, nil
}

// Approve turns a pending request into a zero-balance account and deletes the
// request, all in one transaction. The owner's user row is locked so two
// approvals for the same user cannot derive the same number.
func (s *RequestService) Approve(ctx context.Context, requestID int64) (*domain.Account, error) {
	ctx = logging.With(ctx, "request_id", requestID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Approve: begin tx: %w", err)
	}
	defer tx.Rollback()

	req, err := s.requests.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, fmt.Errorf("Approve: %w", err)
	}

	if err := s.users.LockForUpdate(ctx, tx, req.UserID); err != nil {
		return nil, fmt.Errorf("Approve: lock owner: %w", err)
	}

	number, err := s.numbers.GenerateAccountNumber(ctx, tx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("Approve: %w", err)
	}
	taken, err := s.numbers.AccountExists(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("Approve: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("Approve: %s: %w", number, domain.ErrAccountNumberTaken)
	}

	account := &domain.Account{
		UserID:   req.UserID,
		Number:   number,
		Type:     req.Type,
		Balance:  decimal.Zero,
		Currency: req.Currency,
	}
	if err := s.accounts.Create(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("Approve: create account: %w", err)
	}

	if err := s.requests.DeleteTx(ctx, tx, req.ID); err != nil {
		return nil, fmt.Errorf("Approve: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Approve: commit: %w", err)
	}

	log := logging.FromContext(ctx)
	log.Info("account request approved",
		"account_id", account.ID,
		"account_number", account.Number,
		"user_id", account.UserID,
	)

	err = s.publisher.Publish(ctx, events.OperationsStream, events.AccountOpened, events.AccountOpenedEvent{
		AccountID:     account.ID,
		AccountNumber: account.Number,
		UserID:        account.UserID,
		AccountType:   string(account.Type),
		Currency:      string(account.Currency),
	})
	if err != nil {
		log.Warn("failed to publish account event", "error", err, "account_id", account.ID)
	}

	return account, nil
}

// Withdraw deletes a pending request on behalf of its owner or staff.
// Requests of other users look absent.
func (s *RequestService) Withdraw(ctx context.Context, requestID int64, actor domain.Actor) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("Withdraw: %w", err)
	}
	if !actor.IsStaff && req.UserID != actor.UserID {
		return fmt.Errorf("Withdraw: %w", domain.ErrNotFound)
	}

	if err := s.requests.Delete(ctx, req.ID); err != nil {
		return fmt.Errorf("Withdraw: %w", err)
	}

	logging.FromContext(ctx).Info("account request withdrawn",
		"request_id", req.ID,
		"user_id", req.UserID,
		"by_staff", actor.IsStaff,
	)
	return nil
}
