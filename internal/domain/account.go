package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

var SupportedCurrencies = []Currency{CurrencyRUB, CurrencyUSD, CurrencyEUR}

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyRUB, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

type AccountType string

const (
	AccountTypeDeposit AccountType = "deposit"
	AccountTypeCredit  AccountType = "credit"
)

func (t AccountType) IsValid() bool {
	return t == AccountTypeDeposit || t == AccountTypeCredit
}

type Account struct {
	ID        int64
	UserID    int64
	Number    string
	Type      AccountType
	Balance   decimal.Decimal
	Currency  Currency
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedAccount is an account joined with its owner's username, used by staff views.
type OwnedAccount struct {
	Account
	OwnerUsername string
}

// AccountRef identifies an account either by primary key or by its public number.
type AccountRef struct {
	ID     int64
	Number string
}
