package fx

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"github.com/VitMok/bank-backend/internal/domain"
)

type rateEntry struct {
	Currency string `yaml:"currency"`
	Rate     string `yaml:"rate"`
}

type rateFile struct {
	Rates []rateEntry `yaml:"rates"`
}

// LoadRates reads a rate table from a YAML file of the form
//
//	rates:
//	  - currency: RUB
//	    rate: "59.65"
func LoadRates(path string) (RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadRates: read %s: %w", path, err)
	}
	return ParseRates(data)
}

func ParseRates(data []byte) (RateTable, error) {
	var f rateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ParseRates: %w", err)
	}
	if len(f.Rates) == 0 {
		return nil, fmt.Errorf("ParseRates: no rates defined")
	}

	table := make(RateTable, len(f.Rates))
	for i, e := range f.Rates {
		cur := domain.Currency(e.Currency)
		if !cur.IsValid() {
			return nil, fmt.Errorf("ParseRates: entry %d: %q: %w", i, e.Currency, domain.ErrInvalidCurrency)
		}
		if _, dup := table[cur]; dup {
			return nil, fmt.Errorf("ParseRates: entry %d: duplicate currency %s", i, cur)
		}
		rate, err := decimal.NewFromString(e.Rate)
		if err != nil {
			return nil, fmt.Errorf("ParseRates: entry %d: rate %q: %w", i, e.Rate, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("ParseRates: entry %d: rate for %s must be positive", i, cur)
		}
		table[cur] = rate
	}
	if err := table.complete(); err != nil {
		return nil, fmt.Errorf("ParseRates: %w", err)
	}
	return table, nil
}
