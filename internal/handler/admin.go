package handler

import (
	"net/http"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/logging"
)

// AdminHandler is the staff surface: the request queue and every account.
// Routes are expected behind middleware.RequireStaff.
type AdminHandler struct {
	requests requestService
	accounts accountService
}

func NewAdminHandler(requests requestService, accounts accountService) *AdminHandler {
	return &AdminHandler{requests: requests, accounts: accounts}
}

func (h *AdminHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.requests.List(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list account requests", "error", err)
		RespondDomainError(w, err)
		return
	}

	out := make([]accountRequestDTO, len(reqs))
	for i := range reqs {
		out[i] = toAccountRequestDTO(&reqs[i])
	}
	RespondSuccess(w, http.StatusOK, out)
}

func (h *AdminHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	req, err := h.requests.Get(r.Context(), requestID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toAccountRequestDTO(req))
}

func (h *AdminHandler) ConfirmRequest(w http.ResponseWriter, r *http.Request) {
	requestID, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	req, err := h.requests.Get(r.Context(), requestID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	account, err := h.requests.Approve(r.Context(), requestID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("account request approval failed", "error", err, "request_id", requestID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toStaffAccountDetail(&domain.OwnedAccount{
		Account:       *account,
		OwnerUsername: req.Username,
	}))
}

func (h *AdminHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	actor, appErr := actorFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	requestID, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.requests.Withdraw(r.Context(), requestID, actor); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondNoContent(w)
}

func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toStaffAccountList(accounts))
}

func (h *AdminHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toStaffAccountDetail(account))
}

func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), accountID); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondNoContent(w)
}
