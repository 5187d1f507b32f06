package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID            int64
	AccountID     int64
	AccountNumber string
	Merchant      string
	Amount        decimal.Decimal
	Currency      Currency
	CreatedAt     time.Time
}
