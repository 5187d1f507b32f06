package handler

import (
	"context"
	"net/http"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/logging"
)

type accountService interface {
	GetUserAccounts(ctx context.Context, userID int64) ([]domain.Account, error)
	GetAccountForUser(ctx context.Context, accountID, userID int64) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.OwnedAccount, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.OwnedAccount, error)
	DeleteAccount(ctx context.Context, accountID int64) error
}

// AccountHandler serves the caller's own accounts.
type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	accounts, err := h.accounts.GetUserAccounts(r.Context(), actor.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toOwnerAccountList(accounts))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	accountID, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.accounts.GetAccountForUser(r.Context(), accountID, actor.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("account lookup failed", "error", err, "account_id", accountID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toOwnerAccountDetail(account))
}
