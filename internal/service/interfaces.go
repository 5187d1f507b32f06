package service

import (
	"context"
	"database/sql"

	"github.com/VitMok/bank-backend/internal/domain"
)

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type accountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Account, error)
	ListWithOwners(ctx context.Context) ([]domain.OwnedAccount, error)
	GetWithOwner(ctx context.Context, id int64) (*domain.OwnedAccount, error)
	LastForUser(ctx context.Context, tx *sql.Tx, userID int64) (*domain.Account, error)
	Create(ctx context.Context, tx *sql.Tx, account *domain.Account) error
	Delete(ctx context.Context, id int64) error
}

type requestRepository interface {
	Create(ctx context.Context, req *domain.AccountRequest) error
	GetByID(ctx context.Context, id int64) (*domain.AccountRequest, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.AccountRequest, error)
	List(ctx context.Context) ([]domain.AccountRequest, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.AccountRequest, error)
	DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error
	Delete(ctx context.Context, id int64) error
}

type userLocker interface {
	LockForUpdate(ctx context.Context, tx *sql.Tx, id int64) error
}

type replenishmentLister interface {
	List(ctx context.Context, ownerID *int64) ([]domain.Replenishment, error)
}

type transferLister interface {
	List(ctx context.Context, ownerID *int64) ([]domain.Transfer, error)
}

type paymentLister interface {
	List(ctx context.Context, ownerID *int64) ([]domain.Payment, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}
