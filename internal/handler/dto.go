package handler

import (
	"time"

	"github.com/VitMok/bank-backend/internal/domain"
)

// Owners and staff get different views of the same rows. Each audience has
// its own DTO so fields never leak across. Amounts are fixed two-place strings.

type ownerAccountListItem struct {
	ID       int64  `json:"id"`
	Number   string `json:"number"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type ownerAccountDetail struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	Type      string    `json:"type"`
	Balance   string    `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type staffAccountListItem struct {
	ID       int64  `json:"id"`
	Number   string `json:"number"`
	User     string `json:"user"`
	Type     string `json:"type"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type staffAccountDetail struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	UserID    int64     `json:"user_id"`
	User      string    `json:"user"`
	Type      string    `json:"type"`
	Balance   string    `json:"balance"`
	Currency  string    `json:"currency"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOwnerAccountList(accounts []domain.Account) []ownerAccountListItem {
	out := make([]ownerAccountListItem, len(accounts))
	for i, a := range accounts {
		out[i] = ownerAccountListItem{
			ID:       a.ID,
			Number:   a.Number,
			Balance:  a.Balance.StringFixed(2),
			Currency: string(a.Currency),
		}
	}
	return out
}

func toOwnerAccountDetail(a *domain.Account) ownerAccountDetail {
	return ownerAccountDetail{
		ID:        a.ID,
		Number:    a.Number,
		Type:      string(a.Type),
		Balance:   a.Balance.StringFixed(2),
		Currency:  string(a.Currency),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toStaffAccountList(accounts []domain.OwnedAccount) []staffAccountListItem {
	out := make([]staffAccountListItem, len(accounts))
	for i, a := range accounts {
		out[i] = staffAccountListItem{
			ID:       a.ID,
			Number:   a.Number,
			User:     a.OwnerUsername,
			Type:     string(a.Type),
			Balance:  a.Balance.StringFixed(2),
			Currency: string(a.Currency),
		}
	}
	return out
}

func toStaffAccountDetail(a *domain.OwnedAccount) staffAccountDetail {
	return staffAccountDetail{
		ID:        a.ID,
		Number:    a.Number,
		UserID:    a.UserID,
		User:      a.OwnerUsername,
		Type:      string(a.Type),
		Balance:   a.Balance.StringFixed(2),
		Currency:  string(a.Currency),
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type accountRequestDTO struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Type      string    `json:"type"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountRequestDTO(r *domain.AccountRequest) accountRequestDTO {
	return accountRequestDTO{
		ID:        r.ID,
		User:      r.Username,
		Type:      string(r.Type),
		Currency:  string(r.Currency),
		CreatedAt: r.CreatedAt,
	}
}

type replenishmentDTO struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

type transferDTO struct {
	ID          int64     `json:"id"`
	FromAccount string    `json:"from_account"`
	ToAccount   string    `json:"to_account"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

type paymentDTO struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Merchant  string    `json:"merchant"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

type operationsDTO struct {
	Replenishments []replenishmentDTO `json:"replenishments"`
	Transfers      []transferDTO      `json:"transfers"`
	Payments       []paymentDTO       `json:"payments"`
}

func toReplenishmentDTO(r *domain.Replenishment) replenishmentDTO {
	return replenishmentDTO{
		ID:        r.ID,
		Account:   r.AccountNumber,
		Amount:    r.Amount.StringFixed(2),
		Currency:  string(r.Currency),
		CreatedAt: r.CreatedAt,
	}
}

func toTransferDTO(t *domain.Transfer) transferDTO {
	return transferDTO{
		ID:          t.ID,
		FromAccount: t.FromAccountNumber,
		ToAccount:   t.ToAccountNumber,
		Amount:      t.Amount.StringFixed(2),
		Currency:    string(t.Currency),
		CreatedAt:   t.CreatedAt,
	}
}

func toPaymentDTO(p *domain.Payment) paymentDTO {
	return paymentDTO{
		ID:        p.ID,
		Account:   p.AccountNumber,
		Merchant:  p.Merchant,
		Amount:    p.Amount.StringFixed(2),
		Currency:  string(p.Currency),
		CreatedAt: p.CreatedAt,
	}
}

func toReplenishmentDTOs(in []domain.Replenishment) []replenishmentDTO {
	out := make([]replenishmentDTO, len(in))
	for i := range in {
		out[i] = toReplenishmentDTO(&in[i])
	}
	return out
}

func toTransferDTOs(in []domain.Transfer) []transferDTO {
	out := make([]transferDTO, len(in))
	for i := range in {
		out[i] = toTransferDTO(&in[i])
	}
	return out
}

func toPaymentDTOs(in []domain.Payment) []paymentDTO {
	out := make([]paymentDTO, len(in))
	for i := range in {
		out[i] = toPaymentDTO(&in[i])
	}
	return out
}
