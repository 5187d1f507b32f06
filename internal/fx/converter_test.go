package fx

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitMok/bank-backend/internal/domain"
)

func newDefaultConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := NewConverter(DefaultRates())
	require.NoError(t, err)
	return c
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		rates   RateTable
		amount  string
		from    domain.Currency
		to      domain.Currency
		want    string
		wantErr error
	}{
		{
			name:   "RUB to USD",
			amount: "100.00",
			from:   domain.CurrencyRUB,
			to:     domain.CurrencyUSD,
			want:   "1.71",
		},
		{
			name:   "USD to RUB",
			amount: "100.00",
			from:   domain.CurrencyUSD,
			to:     domain.CurrencyRUB,
			want:   "5848.04",
		},
		{
			name:   "EUR to USD",
			amount: "10.00",
			from:   domain.CurrencyEUR,
			to:     domain.CurrencyUSD,
			want:   "10.74",
		},
		{
			name:   "USD to EUR",
			amount: "1.00",
			from:   domain.CurrencyUSD,
			to:     domain.CurrencyEUR,
			want:   "0.93",
		},
		{
			name:   "same currency is untouched",
			amount: "123.456",
			from:   domain.CurrencyEUR,
			to:     domain.CurrencyEUR,
			want:   "123.456",
		},
		{
			name: "half rounds up",
			rates: RateTable{
				domain.CurrencyRUB: decimal.NewFromInt(2),
				domain.CurrencyUSD: decimal.NewFromInt(1),
			},
			amount: "0.01",
			from:   domain.CurrencyRUB,
			to:     domain.CurrencyUSD,
			want:   "0.01",
		},
		{
			name:    "unknown target currency",
			amount:  "1.00",
			from:    domain.CurrencyUSD,
			to:      domain.Currency("GBP"),
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name:    "unknown source currency",
			amount:  "1.00",
			from:    domain.Currency("XYZ"),
			to:      domain.CurrencyUSD,
			wantErr: domain.ErrInvalidCurrency,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rates := tc.rates
			if rates == nil {
				rates = DefaultRates()
			}
			c, err := NewConverter(rates)
			require.NoError(t, err)

			got, err := c.Convert(decimal.RequireFromString(tc.amount), tc.from, tc.to)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestConvert_IdentityIsExact(t *testing.T) {
	c := newDefaultConverter(t)

	for _, cur := range domain.SupportedCurrencies {
		for _, amount := range []string{"0.01", "1.005", "59.65", "9999999999.99"} {
			x := decimal.RequireFromString(amount)
			got, err := c.Convert(x, cur, cur)
			require.NoError(t, err)
			assert.True(t, got.Equal(x), "%s %s: got %s", amount, cur, got)
		}
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	c := newDefaultConverter(t)
	rates := DefaultRates()
	unit := decimal.RequireFromString("0.01")
	half := decimal.RequireFromString("0.005")

	amounts := []string{"0.01", "1.00", "100.00", "12345.67", "1000000.01"}

	for _, a := range domain.SupportedCurrencies {
		for _, b := range domain.SupportedCurrencies {
			for _, amount := range amounts {
				x := decimal.RequireFromString(amount)

				there, err := c.Convert(x, a, b)
				require.NoError(t, err)
				back, err := c.Convert(there, b, a)
				require.NoError(t, err)

				diff := back.Sub(x).Abs()

				// Rounding in b is magnified by rate[a]/rate[b] on the way back,
				// so one minor unit only holds when b is not much coarser than a.
				ratio := rates[b].Div(rates[a])
				if ratio.GreaterThan(decimal.RequireFromString("0.34")) {
					assert.True(t, diff.LessThanOrEqual(unit),
						"%s %s->%s->%s: got %s", amount, a, b, a, back)
					continue
				}

				bound := half.Div(ratio).Add(half).Add(unit)
				assert.True(t, diff.LessThanOrEqual(bound),
					"%s %s->%s->%s: got %s, bound %s", amount, a, b, a, back, bound)
			}
		}
	}
}

func withRate(cur domain.Currency, rate decimal.Decimal) RateTable {
	t := DefaultRates()
	t[cur] = rate
	return t
}

func TestNewConverter(t *testing.T) {
	tests := []struct {
		name    string
		rates   RateTable
		wantErr bool
		errIs   error
	}{
		{name: "defaults", rates: DefaultRates()},
		{name: "empty", rates: RateTable{}, wantErr: true},
		{name: "zero rate", rates: withRate(domain.CurrencyUSD, decimal.Zero), wantErr: true},
		{name: "negative rate", rates: withRate(domain.CurrencyUSD, decimal.NewFromInt(-1)), wantErr: true},
		{name: "unsupported currency", rates: withRate(domain.Currency("GBP"), decimal.NewFromInt(1)), wantErr: true},
		{
			name:    "supported currency left out",
			rates:   RateTable{domain.CurrencyRUB: decimal.RequireFromString("59.65")},
			wantErr: true,
			errIs:   ErrMissingRate,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConverter(tc.rates)
			if tc.wantErr {
				require.Error(t, err)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
				}
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestQuote(t *testing.T) {
	c := newDefaultConverter(t)

	q, err := c.Quote(domain.CurrencyUSD, domain.CurrencyUSD)
	require.NoError(t, err)
	assert.True(t, q.Rate.Equal(decimal.NewFromInt(1)))

	q, err = c.Quote(domain.CurrencyEUR, domain.CurrencyRUB)
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyEUR, q.FromCurrency)
	assert.Equal(t, domain.CurrencyRUB, q.ToCurrency)
	assert.Equal(t, "62.79", q.Rate.Round(2).String())

	_, err = c.Quote(domain.CurrencyEUR, domain.Currency("XYZ"))
	require.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestConverter_RatesReturnsCopy(t *testing.T) {
	c := newDefaultConverter(t)

	rates := c.Rates()
	rates[domain.CurrencyRUB] = decimal.NewFromInt(1)

	got, err := c.Convert(decimal.RequireFromString("100.00"), domain.CurrencyRUB, domain.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, "1.71", got.StringFixed(2))
}
