package fx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitMok/bank-backend/internal/domain"
)

func TestParseRates(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    map[domain.Currency]string
		wantErr error
		anyErr  bool
	}{
		{
			name: "all currencies",
			yaml: `
rates:
  - currency: RUB
    rate: "59.65"
  - currency: USD
    rate: "1.02"
  - currency: EUR
    rate: "0.95"
`,
			want: map[domain.Currency]string{
				domain.CurrencyRUB: "59.65",
				domain.CurrencyUSD: "1.02",
				domain.CurrencyEUR: "0.95",
			},
		},
		{
			name: "unquoted numbers",
			yaml: `
rates:
  - currency: RUB
    rate: 60
  - currency: USD
    rate: 1.5
  - currency: EUR
    rate: 0.9
`,
			want: map[domain.Currency]string{
				domain.CurrencyRUB: "60",
				domain.CurrencyUSD: "1.5",
				domain.CurrencyEUR: "0.9",
			},
		},
		{
			name:    "supported currency left out",
			yaml:    "rates:\n  - currency: RUB\n    rate: \"59.65\"\n",
			wantErr: ErrMissingRate,
		},
		{
			name:    "unknown currency",
			yaml:    "rates:\n  - currency: GBP\n    rate: \"1\"\n",
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name:   "duplicate currency",
			yaml:   "rates:\n  - currency: USD\n    rate: \"1\"\n  - currency: USD\n    rate: \"2\"\n",
			anyErr: true,
		},
		{
			name:   "non-positive rate",
			yaml:   "rates:\n  - currency: USD\n    rate: \"0\"\n",
			anyErr: true,
		},
		{
			name:   "bad rate",
			yaml:   "rates:\n  - currency: USD\n    rate: abc\n",
			anyErr: true,
		},
		{
			name:   "empty file",
			yaml:   "",
			anyErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, err := ParseRates([]byte(tc.yaml))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			if tc.anyErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Len(t, table, len(tc.want))
			for cur, rate := range tc.want {
				assert.True(t, table[cur].Equal(decimal.RequireFromString(rate)), "%s: got %s", cur, table[cur])
			}
		})
	}
}

const fullRatesYAML = `
rates:
  - currency: RUB
    rate: "59.65"
  - currency: USD
    rate: "1.02"
  - currency: EUR
    rate: "0.9"
`

func TestLoadRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullRatesYAML), 0o600))

	table, err := LoadRates(path)
	require.NoError(t, err)
	assert.True(t, table[domain.CurrencyEUR].Equal(decimal.RequireFromString("0.9")))

	_, err = LoadRates(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
