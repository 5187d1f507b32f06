package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/VitMok/bank-backend/internal/domain"
)

const transferColumns = `t.id, t.from_account_id, fa.number, t.to_account_id, ta.number,
	t.amount, t.currency, t.created_at`

type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transfer) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO transfers (from_account_id, to_account_id, amount, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		t.FromAccountID, t.ToAccountID, t.Amount, t.Currency,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// List returns transfers sent from accounts owned by ownerID, or every
// transfer when ownerID is nil. Incoming transfers are not included.
func (r *TransferRepository) List(ctx context.Context, ownerID *int64) ([]domain.Transfer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transferColumns+`
		FROM transfers t
		JOIN accounts fa ON fa.id = t.from_account_id
		JOIN accounts ta ON ta.id = t.to_account_id
		WHERE $1::BIGINT IS NULL OR fa.user_id = $1
		ORDER BY t.created_at, t.id`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	out := []domain.Transfer{}
	for rows.Next() {
		var t domain.Transfer
		err := rows.Scan(
			&t.ID, &t.FromAccountID, &t.FromAccountNumber, &t.ToAccountID, &t.ToAccountNumber,
			&t.Amount, &t.Currency, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return out, nil
}
