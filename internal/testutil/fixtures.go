package testutil

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/VitMok/bank-backend/internal/domain"
)

const TestPassword = "password123"

func hashPassword(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func SeedTestUser(t *testing.T, db *sql.DB, username string, isStaff bool) *domain.User {
	t.Helper()

	u := &domain.User{
		Username:     username,
		Email:        username + "@bank.test",
		PasswordHash: hashPassword(t),
		IsStaff:      isStaff,
	}

	err := db.QueryRow(
		`INSERT INTO users (username, email, password_hash, is_staff)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash, u.IsStaff,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		t.Fatalf("seed test user %s: %v", username, err)
	}
	return u
}

// SeedTestUserWithID pins the primary key, which account numbers are derived from.
func SeedTestUserWithID(t *testing.T, db *sql.DB, id int64, username string) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:           id,
		Username:     username,
		Email:        username + "@bank.test",
		PasswordHash: hashPassword(t),
	}

	err := db.QueryRow(
		`INSERT INTO users (id, username, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		t.Fatalf("seed test user %d/%s: %v", id, username, err)
	}

	if _, err := db.Exec(`SELECT setval('users_id_seq', (SELECT MAX(id) FROM users))`); err != nil {
		t.Fatalf("advance users sequence: %v", err)
	}
	return u
}

func SeedTestAccount(t *testing.T, db *sql.DB, userID int64, number string, currency domain.Currency, balance string) *domain.Account {
	t.Helper()

	a := &domain.Account{
		UserID:   userID,
		Number:   number,
		Type:     domain.AccountTypeDeposit,
		Balance:  decimal.RequireFromString(balance),
		Currency: currency,
	}

	err := db.QueryRow(
		`INSERT INTO accounts (user_id, number, type, balance, currency)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, version, created_at, updated_at`,
		a.UserID, a.Number, a.Type, a.Balance, a.Currency,
	).Scan(&a.ID, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		t.Fatalf("seed test account %s: %v", number, err)
	}
	return a
}

func SeedAccountRequest(t *testing.T, db *sql.DB, userID int64, accountType domain.AccountType, currency domain.Currency) *domain.AccountRequest {
	t.Helper()

	r := &domain.AccountRequest{UserID: userID, Type: accountType, Currency: currency}
	err := db.QueryRow(
		`INSERT INTO account_requests (user_id, type, currency)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		r.UserID, r.Type, r.Currency,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		t.Fatalf("seed account request for user %d: %v", userID, err)
	}
	return r
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID int64) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %d: %v", accountID, err)
	}
	return balance
}

// CountRows counts rows of table matching the optional where clause.
func CountRows(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	t.Helper()

	query := `SELECT COUNT(*) FROM ` + table
	if where != "" {
		query += ` WHERE ` + where
	}

	var count int
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
