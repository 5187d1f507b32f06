package funds

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/events"
	"github.com/VitMok/bank-backend/internal/logging"
)

const maxMerchantLen = 255

type PaymentRequest struct {
	UserID    int64
	AccountID int64
	Merchant  string
	Amount    decimal.Decimal
}

func validateMerchant(merchant string) error {
	if strings.TrimSpace(merchant) == "" || utf8.RuneCountInString(merchant) > maxMerchantLen {
		return domain.ErrInvalidRequest
	}
	return nil
}

// Pay debits the caller's account in favour of a merchant. Unless overdraft on
// payments is disabled in config the balance may go negative.
func (s *Service) Pay(ctx context.Context, req PaymentRequest) (*domain.Payment, error) {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("Pay: %w", err)
	}
	if err := validateMerchant(req.Merchant); err != nil {
		return nil, fmt.Errorf("Pay: merchant: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Pay: begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("Pay: %w", err)
	}
	if account.UserID != req.UserID {
		return nil, fmt.Errorf("Pay: %w", domain.ErrNotFound)
	}

	if !s.config.AllowOverdraftOnPayment && req.Amount.GreaterThan(account.Balance) {
		return nil, fmt.Errorf("Pay: %w", domain.ErrInsufficientFunds)
	}

	newBalance := account.Balance.Sub(req.Amount)
	if err := domain.ValidateBalance(newBalance); err != nil {
		return nil, fmt.Errorf("Pay: balance: %w", err)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version+1); err != nil {
		return nil, fmt.Errorf("Pay: update balance: %w", err)
	}

	p := &domain.Payment{
		AccountID:     account.ID,
		AccountNumber: account.Number,
		Merchant:      req.Merchant,
		Amount:        req.Amount,
		Currency:      account.Currency,
	}
	if err := s.payments.Create(ctx, tx, p); err != nil {
		return nil, fmt.Errorf("Pay: record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Pay: commit: %w", err)
	}

	logging.FromContext(ctx).Info("payment completed",
		"payment_id", p.ID,
		"account_id", account.ID,
		"merchant", p.Merchant,
		"amount", p.Amount,
		"currency", p.Currency,
	)

	s.publish(ctx, events.OperationsStream, events.PaymentCommitted, events.PaymentCommittedEvent{
		PaymentID:     p.ID,
		AccountNumber: p.AccountNumber,
		Merchant:      p.Merchant,
		Amount:        p.Amount,
		Currency:      string(p.Currency),
	})

	return p, nil
}
