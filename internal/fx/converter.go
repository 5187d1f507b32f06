package fx

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/VitMok/bank-backend/internal/domain"
)

const resultScale = 2

// ErrMissingRate means a rate table leaves out a supported currency.
var ErrMissingRate = errors.New("missing rate")

// RateTable maps a currency to the number of its units per one reference unit.
type RateTable map[domain.Currency]decimal.Decimal

func DefaultRates() RateTable {
	return RateTable{
		domain.CurrencyRUB: decimal.RequireFromString("59.65"),
		domain.CurrencyUSD: decimal.RequireFromString("1.02"),
		domain.CurrencyEUR: decimal.RequireFromString("0.95"),
	}
}

type Quote struct {
	FromCurrency domain.Currency
	ToCurrency   domain.Currency
	Rate         decimal.Decimal
}

type Converter struct {
	rates RateTable
}

func NewConverter(rates RateTable) (*Converter, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("NewConverter: empty rate table")
	}
	table := make(RateTable, len(rates))
	for c, r := range rates {
		if !c.IsValid() {
			return nil, fmt.Errorf("NewConverter: %s: %w", c, domain.ErrInvalidCurrency)
		}
		if !r.IsPositive() {
			return nil, fmt.Errorf("NewConverter: rate for %s must be positive, got %s", c, r)
		}
		table[c] = r
	}
	if err := table.complete(); err != nil {
		return nil, fmt.Errorf("NewConverter: %w", err)
	}
	return &Converter{rates: table}, nil
}

// complete reports the first supported currency without a rate.
func (t RateTable) complete() error {
	for _, c := range domain.SupportedCurrencies {
		if _, ok := t[c]; !ok {
			return fmt.Errorf("%s: %w", c, ErrMissingRate)
		}
	}
	return nil
}

func (c *Converter) rate(cur domain.Currency) (decimal.Decimal, error) {
	if !cur.IsValid() {
		return decimal.Zero, fmt.Errorf("%s: %w", cur, domain.ErrInvalidCurrency)
	}
	r, ok := c.rates[cur]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s: %w", cur, domain.ErrInvalidCurrency)
	}
	return r, nil
}

// Convert exchanges amount from one currency into another through the
// reference unit. Results are rounded half-up to two fraction digits; a
// same-currency conversion returns amount untouched.
func (c *Converter) Convert(amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error) {
	fromRate, err := c.rate(from)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Convert: %w", err)
	}
	toRate, err := c.rate(to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Convert: %w", err)
	}

	if from == to {
		return amount, nil
	}

	return amount.Div(fromRate).Mul(toRate).Round(resultScale), nil
}

func (c *Converter) Quote(from, to domain.Currency) (*Quote, error) {
	fromRate, err := c.rate(from)
	if err != nil {
		return nil, fmt.Errorf("Quote: %w", err)
	}
	toRate, err := c.rate(to)
	if err != nil {
		return nil, fmt.Errorf("Quote: %w", err)
	}

	rate := decimal.NewFromInt(1)
	if from != to {
		rate = toRate.Div(fromRate)
	}

	return &Quote{FromCurrency: from, ToCurrency: to, Rate: rate}, nil
}

// Rates returns a copy of the configured table.
func (c *Converter) Rates() RateTable {
	out := make(RateTable, len(c.rates))
	for k, v := range c.rates {
		out[k] = v
	}
	return out
}
