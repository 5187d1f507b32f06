package domain

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
}

// Actor is the authenticated caller of a core operation.
type Actor struct {
	UserID  int64
	IsStaff bool
}
