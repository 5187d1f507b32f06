package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/VitMok/bank-backend/internal/domain"
)

const replenishmentColumns = `rp.id, rp.account_id, a.number, rp.amount, rp.currency, rp.created_at`

type ReplenishmentRepository struct {
	db *sql.DB
}

func NewReplenishmentRepository(db *sql.DB) *ReplenishmentRepository {
	return &ReplenishmentRepository{db: db}
}

func (r *ReplenishmentRepository) Create(ctx context.Context, tx *sql.Tx, rep *domain.Replenishment) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO replenishments (account_id, amount, currency)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		rep.AccountID, rep.Amount, rep.Currency,
	).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// List returns replenishments of accounts owned by ownerID, or all of them when ownerID is nil.
func (r *ReplenishmentRepository) List(ctx context.Context, ownerID *int64) ([]domain.Replenishment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+replenishmentColumns+`
		FROM replenishments rp JOIN accounts a ON a.id = rp.account_id
		WHERE $1::BIGINT IS NULL OR a.user_id = $1
		ORDER BY rp.created_at, rp.id`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	out := []domain.Replenishment{}
	for rows.Next() {
		var rep domain.Replenishment
		if err := rows.Scan(&rep.ID, &rep.AccountID, &rep.AccountNumber, &rep.Amount, &rep.Currency, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return out, nil
}
