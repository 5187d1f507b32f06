package domain

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrInvalidAmount           = errors.New("amount must be greater than zero with at most two decimal places")
	ErrInvalidCurrency         = errors.New("invalid currency")
	ErrInvalidAccountType      = errors.New("invalid account type")
	ErrMalformedAccountNumber  = errors.New("malformed account number")
	ErrInvalidRequest          = errors.New("invalid request")
	ErrDuplicatePendingRequest = errors.New("user already has a pending account request")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrVersionConflict         = errors.New("optimistic lock conflict")
	ErrAccountNumberTaken      = errors.New("account number already in use")
)
