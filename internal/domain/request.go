package domain

import "time"

// AccountRequest is a user's pending ask for a new account. Approval consumes it.
type AccountRequest struct {
	ID        int64
	UserID    int64
	Username  string
	Type      AccountType
	Currency  Currency
	CreatedAt time.Time
}
