package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/VitMok/bank-backend/internal/domain"
)

const uniqueViolation = "23505"

const requestColumns = `r.id, r.user_id, u.username, r.type, r.currency, r.created_at`

const requestFrom = ` FROM account_requests r JOIN users u ON u.id = r.user_id`

type RequestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create stores a pending request. A second pending request for the same user
// hits the unique index and comes back as ErrDuplicatePendingRequest.
func (r *RequestRepository) Create(ctx context.Context, req *domain.AccountRequest) error {
	err := r.db.QueryRowContext(ctx,
		`WITH ins AS (
			INSERT INTO account_requests (user_id, type, currency)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, created_at
		)
		SELECT ins.id, ins.created_at, u.username
		FROM ins JOIN users u ON u.id = ins.user_id`,
		req.UserID, req.Type, req.Currency,
	).Scan(&req.ID, &req.CreatedAt, &req.Username)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrDuplicatePendingRequest)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.AccountRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+requestFrom+` WHERE r.id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) GetByUserID(ctx context.Context, userID int64) (*domain.AccountRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+requestFrom+` WHERE r.user_id = $1`, userID)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByUserID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) List(ctx context.Context) ([]domain.AccountRequest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+requestColumns+requestFrom+` ORDER BY r.created_at, r.id`)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	requests := []domain.AccountRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return requests, nil
}

// GetForUpdate locks the request row. Only the account_requests row is locked.
func (r *RequestRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.AccountRequest, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+requestColumns+requestFrom+` WHERE r.id = $1 FOR UPDATE OF r`, id,
	)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	return deleteRequest(ctx, tx, id)
}

func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	return deleteRequest(ctx, r.db, id)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func deleteRequest(ctx context.Context, e execer, id int64) error {
	res, err := e.ExecContext(ctx, `DELETE FROM account_requests WHERE id = $1`, id)
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

func scanRequest(s scanner) (*domain.AccountRequest, error) {
	var req domain.AccountRequest
	err := s.Scan(&req.ID, &req.UserID, &req.Username, &req.Type, &req.Currency, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
