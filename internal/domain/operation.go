package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Replenishment struct {
	ID            int64
	AccountID     int64
	AccountNumber string
	Amount        decimal.Decimal
	Currency      Currency
	CreatedAt     time.Time
}

// Transfer records the pre-conversion amount in the source account's currency.
type Transfer struct {
	ID                int64
	FromAccountID     int64
	FromAccountNumber string
	ToAccountID       int64
	ToAccountNumber   string
	Amount            decimal.Decimal
	Currency          Currency
	CreatedAt         time.Time
}

type Operations struct {
	Replenishments []Replenishment
	Transfers      []Transfer
	Payments       []Payment
}
