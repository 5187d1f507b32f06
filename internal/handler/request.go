package handler

import (
	"context"
	"net/http"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/logging"
)

type requestService interface {
	Create(ctx context.Context, userID int64, accountType domain.AccountType, currency domain.Currency) (*domain.AccountRequest, error)
	GetForUser(ctx context.Context, userID int64) (*domain.AccountRequest, error)
	List(ctx context.Context) ([]domain.AccountRequest, error)
	Get(ctx context.Context, requestID int64) (*domain.AccountRequest, error)
	Approve(ctx context.Context, requestID int64) (*domain.Account, error)
	Withdraw(ctx context.Context, requestID int64, actor domain.Actor) error
}

// RequestHandler lets a user file, inspect and withdraw their pending account request.
type RequestHandler struct {
	requests requestService
}

func NewRequestHandler(requests requestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

type createAccountRequestBody struct {
	Type     string `json:"type" validate:"required,oneof=deposit credit"`
	Currency string `json:"currency" validate:"required,oneof=RUB USD EUR"`
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var body createAccountRequestBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	req, err := h.requests.Create(r.Context(), actor.UserID, domain.AccountType(body.Type), domain.Currency(body.Currency))
	if err != nil {
		logging.FromContext(r.Context()).Warn("account request rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountRequestDTO(req))
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	req, err := h.requests.GetForUser(r.Context(), actor.UserID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountRequestDTO(req))
}

func (h *RequestHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	req, err := h.requests.GetForUser(r.Context(), actor.UserID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	if err := h.requests.Withdraw(r.Context(), req.ID, actor); err != nil {
		logging.FromContext(r.Context()).Error("failed to withdraw account request", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondNoContent(w)
}
