package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/VitMok/bank-backend/internal/domain"
)

const accountColumns = `id, user_id, number, type, balance, currency, version, created_at, updated_at`

const ownedAccountColumns = `a.id, a.user_id, a.number, a.type, a.balance, a.currency, a.version,
	a.created_at, a.updated_at, u.username`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE number = $1`, number,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByNumber: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByNumber: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE number = $1)`, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ExistsByNumber: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at, id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) ListWithOwners(ctx context.Context) ([]domain.OwnedAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ownedAccountColumns+`
		FROM accounts a JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at, a.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListWithOwners: %w", err)
	}
	defer rows.Close()

	accounts := []domain.OwnedAccount{}
	for rows.Next() {
		a, err := scanOwnedAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("ListWithOwners: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListWithOwners: rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) GetWithOwner(ctx context.Context, id int64) (*domain.OwnedAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ownedAccountColumns+`
		FROM accounts a JOIN users u ON u.id = a.user_id
		WHERE a.id = $1`, id,
	)
	a, err := scanOwnedAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetWithOwner: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetWithOwner: %w", err)
	}
	return a, nil
}

// LastForUser returns the most recently created account of the user inside tx.
func (r *AccountRepository) LastForUser(ctx context.Context, tx *sql.Tx, userID int64) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, userID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("LastForUser: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("LastForUser: %w", err)
	}
	return a, nil
}

// Create inserts the account and fills its generated fields.
func (r *AccountRepository) Create(ctx context.Context, tx *sql.Tx, account *domain.Account) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO accounts (user_id, number, type, balance, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, version, created_at, updated_at`,
		account.UserID, account.Number, account.Type, account.Balance, account.Currency,
	).Scan(&account.ID, &account.Version, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %s: %w", account.Number, domain.ErrAccountNumberTaken)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

// UpdateBalance writes newBalance if the row is still at newVersion-1.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id int64, newBalance decimal.Decimal, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, version = $2, updated_at = now()
		WHERE id = $3 AND version = $4`,
		newBalance, newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

// Delete removes the account; history rows go with it via ON DELETE CASCADE.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.UserID, &a.Number, &a.Type, &a.Balance, &a.Currency,
		&a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanOwnedAccount(s scanner) (*domain.OwnedAccount, error) {
	var a domain.OwnedAccount
	err := s.Scan(
		&a.ID, &a.UserID, &a.Number, &a.Type, &a.Balance, &a.Currency,
		&a.Version, &a.CreatedAt, &a.UpdatedAt, &a.OwnerUsername,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
