package funds

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/events"
	"github.com/VitMok/bank-backend/internal/logging"
)

// TransferRequest moves Amount (in the source account's currency) out of
// FromAccountID. Exactly one target must be set: ToAccountID for a transfer
// between the caller's own accounts, ToAccountNumber for any account.
type TransferRequest struct {
	UserID          int64
	FromAccountID   int64
	ToAccountID     int64
	ToAccountNumber string
	Amount          decimal.Decimal
}

func (r TransferRequest) ownTransfer() bool {
	return r.ToAccountID != 0
}

func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*domain.Transfer, error) {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}
	if (req.ToAccountID == 0) == (req.ToAccountNumber == "") {
		return nil, fmt.Errorf("Transfer: exactly one target required: %w", domain.ErrInvalidRequest)
	}

	toID := req.ToAccountID
	if !req.ownTransfer() {
		target, err := s.registry.ResolveAccount(ctx, domain.AccountRef{Number: req.ToAccountNumber})
		if err != nil {
			return nil, fmt.Errorf("Transfer: target: %w", err)
		}
		toID = target.ID
	}

	t, credited, err := s.executeTransfer(ctx, req, toID)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	logging.FromContext(ctx).Info("transfer completed",
		"transfer_id", t.ID,
		"from_account", t.FromAccountID,
		"to_account", t.ToAccountID,
		"amount", t.Amount,
		"currency", t.Currency,
		"credited_amount", credited.Amount,
		"credited_currency", credited.Currency,
	)

	s.publish(ctx, events.OperationsStream, events.TransferCommitted, events.TransferCommittedEvent{
		TransferID:        t.ID,
		FromAccountNumber: t.FromAccountNumber,
		ToAccountNumber:   t.ToAccountNumber,
		Amount:            t.Amount,
		Currency:          string(t.Currency),
		CreditedAmount:    credited.Amount,
		CreditedCurrency:  string(credited.Currency),
	})

	return t, nil
}

type credit struct {
	Amount   decimal.Decimal
	Currency domain.Currency
}

func (s *Service) executeTransfer(ctx context.Context, req TransferRequest, toID int64) (*domain.Transfer, credit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, credit{}, fmt.Errorf("executeTransfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := lockAccountsInOrder(ctx, tx, s.accounts, req.FromAccountID, toID)
	if err != nil {
		return nil, credit{}, fmt.Errorf("executeTransfer: %w", err)
	}
	from, to := locked[req.FromAccountID], locked[toID]

	if from.UserID != req.UserID {
		return nil, credit{}, fmt.Errorf("executeTransfer: source: %w", domain.ErrNotFound)
	}
	if req.ownTransfer() && to.UserID != req.UserID {
		return nil, credit{}, fmt.Errorf("executeTransfer: target: %w", domain.ErrNotFound)
	}

	if req.Amount.GreaterThan(from.Balance) {
		return nil, credit{}, fmt.Errorf("executeTransfer: %w", domain.ErrInsufficientFunds)
	}

	converted, err := s.fx.Convert(req.Amount, from.Currency, to.Currency)
	if err != nil {
		return nil, credit{}, fmt.Errorf("executeTransfer: %w", err)
	}

	// A transfer to the same account nets to zero.
	if from.ID != to.ID {
		credited := to.Balance.Add(converted)
		if err := domain.ValidateBalance(credited); err != nil {
			return nil, credit{}, fmt.Errorf("executeTransfer: target balance: %w", err)
		}

		if err := s.accounts.UpdateBalance(ctx, tx, from.ID, from.Balance.Sub(req.Amount), from.Version+1); err != nil {
			return nil, credit{}, fmt.Errorf("executeTransfer: debit: %w", err)
		}
		if err := s.accounts.UpdateBalance(ctx, tx, to.ID, credited, to.Version+1); err != nil {
			return nil, credit{}, fmt.Errorf("executeTransfer: credit: %w", err)
		}
	}

	t := &domain.Transfer{
		FromAccountID:     from.ID,
		FromAccountNumber: from.Number,
		ToAccountID:       to.ID,
		ToAccountNumber:   to.Number,
		Amount:            req.Amount,
		Currency:          from.Currency,
	}
	if err := s.transfers.Create(ctx, tx, t); err != nil {
		return nil, credit{}, fmt.Errorf("executeTransfer: record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, credit{}, fmt.Errorf("executeTransfer: commit: %w", err)
	}

	return t, credit{Amount: converted, Currency: to.Currency}, nil
}
