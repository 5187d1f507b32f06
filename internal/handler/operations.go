package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/logging"
	"github.com/VitMok/bank-backend/internal/service/funds"
)

type fundsService interface {
	Replenish(ctx context.Context, req funds.ReplenishRequest) (*domain.Replenishment, error)
	Transfer(ctx context.Context, req funds.TransferRequest) (*domain.Transfer, error)
	Pay(ctx context.Context, req funds.PaymentRequest) (*domain.Payment, error)
}

type historyService interface {
	Replenishments(ctx context.Context, viewer domain.Actor) ([]domain.Replenishment, error)
	Transfers(ctx context.Context, viewer domain.Actor) ([]domain.Transfer, error)
	Payments(ctx context.Context, viewer domain.Actor) ([]domain.Payment, error)
	Operations(ctx context.Context, viewer domain.Actor) (*domain.Operations, error)
}

type OperationsHandler struct {
	funds   fundsService
	history historyService
}

func NewOperationsHandler(fundsSvc fundsService, history historyService) *OperationsHandler {
	return &OperationsHandler{funds: fundsSvc, history: history}
}

type replenishBody struct {
	AccountID int64           `json:"account_id" validate:"required,gt=0"`
	Amount    decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Currency  string          `json:"currency" validate:"omitempty,oneof=RUB USD EUR"`
}

type transferOwnBody struct {
	FromAccount int64           `json:"from_account" validate:"required,gt=0"`
	ToAccount   int64           `json:"to_account" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

type transferAnotherBody struct {
	FromAccount          int64           `json:"from_account" validate:"required,gt=0"`
	AccountForEnrollment string          `json:"account_for_enrollment" validate:"required,numeric,max=64"`
	Amount               decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

type paymentBody struct {
	Account  int64           `json:"account" validate:"required,gt=0"`
	Merchant string          `json:"merchant" validate:"required,max=255"`
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

func (h *OperationsHandler) Replenish(w http.ResponseWriter, r *http.Request) {
	var body replenishBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	rep, err := h.funds.Replenish(r.Context(), funds.ReplenishRequest{
		AccountID: body.AccountID,
		Amount:    body.Amount,
		Currency:  domain.Currency(body.Currency),
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("replenishment failed", "error", err, "account_id", body.AccountID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toReplenishmentDTO(rep))
}

func (h *OperationsHandler) TransferOwn(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var body transferOwnBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	h.transfer(w, r, funds.TransferRequest{
		UserID:        actor.UserID,
		FromAccountID: body.FromAccount,
		ToAccountID:   body.ToAccount,
		Amount:        body.Amount,
	})
}

func (h *OperationsHandler) TransferAnother(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var body transferAnotherBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	h.transfer(w, r, funds.TransferRequest{
		UserID:          actor.UserID,
		FromAccountID:   body.FromAccount,
		ToAccountNumber: body.AccountForEnrollment,
		Amount:          body.Amount,
	})
}

func (h *OperationsHandler) transfer(w http.ResponseWriter, r *http.Request, req funds.TransferRequest) {
	t, err := h.funds.Transfer(r.Context(), req)
	if err != nil {
		logging.FromContext(r.Context()).Warn("transfer failed", "error", err, "from_account_id", req.FromAccountID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransferDTO(t))
}

func (h *OperationsHandler) Pay(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var body paymentBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	p, err := h.funds.Pay(r.Context(), funds.PaymentRequest{
		UserID:    actor.UserID,
		AccountID: body.Account,
		Merchant:  body.Merchant,
		Amount:    body.Amount,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("payment failed", "error", err, "account_id", body.Account)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toPaymentDTO(p))
}

func (h *OperationsHandler) ListReplenishments(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	reps, err := h.history.Replenishments(r.Context(), actor)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list replenishments", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toReplenishmentDTOs(reps))
}

func (h *OperationsHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	transfers, err := h.history.Transfers(r.Context(), actor)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transfers", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toTransferDTOs(transfers))
}

func (h *OperationsHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	payments, err := h.history.Payments(r.Context(), actor)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list payments", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPaymentDTOs(payments))
}

func (h *OperationsHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	ops, err := h.history.Operations(r.Context(), actor)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list operations", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, operationsDTO{
		Replenishments: toReplenishmentDTOs(ops.Replenishments),
		Transfers:      toTransferDTOs(ops.Transfers),
		Payments:       toPaymentDTOs(ops.Payments),
	})
}
