package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const OperationsStream = "operations.events"

const (
	ReplenishmentCommitted = "replenishment.committed"
	TransferCommitted      = "transfer.committed"
	PaymentCommitted       = "payment.committed"
	AccountOpened          = "account.opened"
)

type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type ReplenishmentCommittedEvent struct {
	ReplenishmentID int64           `json:"replenishmentId"`
	AccountNumber   string          `json:"accountNumber"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

type TransferCommittedEvent struct {
	TransferID        int64           `json:"transferId"`
	FromAccountNumber string          `json:"fromAccountNumber"`
	ToAccountNumber   string          `json:"toAccountNumber"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	CreditedAmount    decimal.Decimal `json:"creditedAmount"`
	CreditedCurrency  string          `json:"creditedCurrency"`
}

type PaymentCommittedEvent struct {
	PaymentID     int64           `json:"paymentId"`
	AccountNumber string          `json:"accountNumber"`
	Merchant      string          `json:"merchant"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

type AccountOpenedEvent struct {
	AccountID     int64  `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	UserID        int64  `json:"userId"`
	AccountType   string `json:"accountType"`
	Currency      string `json:"currency"`
}
