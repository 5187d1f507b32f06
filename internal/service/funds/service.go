package funds

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/VitMok/bank-backend/internal/config"
	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/logging"
)

type accountRepo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id int64, newBalance decimal.Decimal, newVersion int64) error
}

// accountResolver is the account registry's lookup by id or number.
type accountResolver interface {
	ResolveAccount(ctx context.Context, ref domain.AccountRef) (*domain.Account, error)
}

type replenishmentRepo interface {
	Create(ctx context.Context, tx *sql.Tx, rep *domain.Replenishment) error
}

type transferRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transfer) error
}

type paymentRepo interface {
	Create(ctx context.Context, tx *sql.Tx, p *domain.Payment) error
}

type converter interface {
	Convert(amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error)
}

type publisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Service moves money between accounts. Every operation is one database
// transaction holding row locks on the accounts it touches.
type Service struct {
	accounts       accountRepo
	registry       accountResolver
	replenishments replenishmentRepo
	transfers      transferRepo
	payments       paymentRepo
	fx             converter
	publisher      publisher
	db             txBeginner
	config         *config.Config
}

func NewService(
	accounts accountRepo,
	registry accountResolver,
	replenishments replenishmentRepo,
	transfers transferRepo,
	payments paymentRepo,
	fx converter,
	pub publisher,
	db txBeginner,
	cfg *config.Config,
) *Service {
	return &Service{
		accounts:       accounts,
		registry:       registry,
		replenishments: replenishments,
		transfers:      transfers,
		payments:       payments,
		fx:             fx,
		publisher:      pub,
		db:             db,
		config:         cfg,
	}
}

// lockAccountsInOrder takes FOR UPDATE locks in ascending id order so that
// concurrent operations on the same pair of accounts cannot deadlock.
func lockAccountsInOrder(ctx context.Context, tx *sql.Tx, accounts accountRepo, ids ...int64) (map[int64]*domain.Account, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	result := make(map[int64]*domain.Account, len(sorted))
	for _, id := range sorted {
		acct, err := accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		result[id] = acct
	}
	return result, nil
}

// publish emits a post-commit event. Failures only get logged: the money
// has already moved.
func (s *Service) publish(ctx context.Context, stream, eventType string, data any) {
	if err := s.publisher.Publish(ctx, stream, eventType, data); err != nil {
		logging.FromContext(ctx).Warn("failed to publish event",
			"error", err,
			"stream", stream,
			"event_type", eventType,
		)
	}
}
