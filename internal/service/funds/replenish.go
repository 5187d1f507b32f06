package funds

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/events"
	"github.com/VitMok/bank-backend/internal/logging"
)

type ReplenishRequest struct {
	AccountID int64
	Amount    decimal.Decimal
	// Empty means the account's own currency.
	Currency domain.Currency
}

// Replenish credits an account from outside the bank. Staff only at the API.
func (s *Service) Replenish(ctx context.Context, req ReplenishRequest) (*domain.Replenishment, error) {
	log := logging.FromContext(ctx)

	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("Replenish: %w", err)
	}
	if req.Currency != "" && !req.Currency.IsValid() {
		return nil, fmt.Errorf("Replenish: %w", domain.ErrInvalidCurrency)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Replenish: begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("Replenish: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = account.Currency
	}
	if currency != account.Currency {
		log.Warn("replenishment currency differs from account currency",
			"account_id", account.ID,
			"account_currency", account.Currency,
			"currency", currency,
		)
	}

	newBalance := account.Balance.Add(req.Amount)
	if err := domain.ValidateBalance(newBalance); err != nil {
		return nil, fmt.Errorf("Replenish: balance: %w", err)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version+1); err != nil {
		return nil, fmt.Errorf("Replenish: update balance: %w", err)
	}

	rep := &domain.Replenishment{
		AccountID:     account.ID,
		AccountNumber: account.Number,
		Amount:        req.Amount,
		Currency:      currency,
	}
	if err := s.replenishments.Create(ctx, tx, rep); err != nil {
		return nil, fmt.Errorf("Replenish: record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Replenish: commit: %w", err)
	}

	log.Info("replenishment completed",
		"replenishment_id", rep.ID,
		"account_id", account.ID,
		"amount", rep.Amount,
		"currency", rep.Currency,
	)

	s.publish(ctx, events.OperationsStream, events.ReplenishmentCommitted, events.ReplenishmentCommittedEvent{
		ReplenishmentID: rep.ID,
		AccountNumber:   rep.AccountNumber,
		Amount:          rep.Amount,
		Currency:        string(rep.Currency),
	})

	return rep, nil
}
