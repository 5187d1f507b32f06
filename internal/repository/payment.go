package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/VitMok/bank-backend/internal/domain"
)

const paymentColumns = `p.id, p.account_id, a.number, p.merchant, p.amount, p.currency, p.created_at`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO payments (account_id, merchant, amount, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		payment.AccountID, payment.Merchant, payment.Amount, payment.Currency,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// List returns payments drawn from accounts owned by ownerID, or every
// payment when ownerID is nil. Oldest first.
func (r *PaymentRepository) List(ctx context.Context, ownerID *int64) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+`
		FROM payments p JOIN accounts a ON a.id = p.account_id
		WHERE $1::BIGINT IS NULL OR a.user_id = $1
		ORDER BY p.created_at, p.id`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return payments, nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var p domain.Payment
	err := s.Scan(&p.ID, &p.AccountID, &p.AccountNumber, &p.Merchant, &p.Amount, &p.Currency, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
