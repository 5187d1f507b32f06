package service

import (
	"context"
	"fmt"

	"github.com/VitMok/bank-backend/internal/domain"
)

// HistoryService reads the operations ledger. Staff see every row; anyone
// else sees rows whose (source) account they own.
type HistoryService struct {
	replenishments replenishmentLister
	transfers      transferLister
	payments       paymentLister
}

func NewHistoryService(replenishments replenishmentLister, transfers transferLister, payments paymentLister) *HistoryService {
	return &HistoryService{
		replenishments: replenishments,
		transfers:      transfers,
		payments:       payments,
	}
}

func scope(viewer domain.Actor) *int64 {
	if viewer.IsStaff {
		return nil
	}
	id := viewer.UserID
	return &id
}

func (s *HistoryService) Replenishments(ctx context.Context, viewer domain.Actor) ([]domain.Replenishment, error) {
	out, err := s.replenishments.List(ctx, scope(viewer))
	if err != nil {
		return nil, fmt.Errorf("Replenishments: %w", err)
	}
	return out, nil
}

func (s *HistoryService) Transfers(ctx context.Context, viewer domain.Actor) ([]domain.Transfer, error) {
	out, err := s.transfers.List(ctx, scope(viewer))
	if err != nil {
		return nil, fmt.Errorf("Transfers: %w", err)
	}
	return out, nil
}

func (s *HistoryService) Payments(ctx context.Context, viewer domain.Actor) ([]domain.Payment, error) {
	out, err := s.payments.List(ctx, scope(viewer))
	if err != nil {
		return nil, fmt.Errorf("Payments: %w", err)
	}
	return out, nil
}

func (s *HistoryService) Operations(ctx context.Context, viewer domain.Actor) (*domain.Operations, error) {
	replenishments, err := s.Replenishments(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("Operations: %w", err)
	}
	transfers, err := s.Transfers(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("Operations: %w", err)
	}
	payments, err := s.Payments(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("Operations: %w", err)
	}

	return &domain.Operations{
		Replenishments: replenishments,
		Transfers:      transfers,
		Payments:       payments,
	}, nil
}
