package domain

import "github.com/shopspring/decimal"

const amountScale = 2

// NUMERIC(12,2) leaves ten integer digits.
var maxAmount = decimal.RequireFromString("9999999999.99")

// ValidateAmount checks that amount is positive, fits the storage column and
// carries no more than two fraction digits.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(maxAmount) {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(amountScale)) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateBalance checks that a resulting balance, which may be negative,
// still fits the storage column.
func ValidateBalance(balance decimal.Decimal) error {
	if balance.Abs().GreaterThan(maxAmount) {
		return ErrInvalidAmount
	}
	return nil
}
