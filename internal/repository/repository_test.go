package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/repository"
	"github.com/VitMok/bank-backend/internal/testutil"
)

func TestAccountRepository_UpdateBalanceVersionCheck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewAccountRepository(db)

	user := testutil.SeedTestUser(t, db, "anna", false)
	acc := testutil.SeedTestAccount(t, db, user.ID, "10001", domain.CurrencyRUB, "100.00")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	locked, err := repo.GetForUpdate(ctx, tx, acc.ID)
	require.NoError(t, err)

	err = repo.UpdateBalance(ctx, tx, acc.ID, decimal.RequireFromString("90"), locked.Version+1)
	require.NoError(t, err)

	err = repo.UpdateBalance(ctx, tx, acc.ID, decimal.RequireFromString("80"), locked.Version+1)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	require.NoError(t, tx.Commit())
	assert.True(t, testutil.GetAccountBalance(t, db, acc.ID).Equal(decimal.RequireFromString("90")))
}

func TestAccountRepository_LastForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewAccountRepository(db)

	user := testutil.SeedTestUser(t, db, "anna", false)
	other := testutil.SeedTestUser(t, db, "boris", false)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = repo.LastForUser(ctx, tx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, tx.Rollback())

	testutil.SeedTestAccount(t, db, user.ID, "10001", domain.CurrencyRUB, "0")
	testutil.SeedTestAccount(t, db, other.ID, "20001", domain.CurrencyRUB, "0")
	testutil.SeedTestAccount(t, db, user.ID, "10002", domain.CurrencyUSD, "0")

	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	last, err := repo.LastForUser(ctx, tx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "10002", last.Number)
}

func TestAccountRepository_Lookups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewAccountRepository(db)

	user := testutil.SeedTestUser(t, db, "anna", false)
	acc := testutil.SeedTestAccount(t, db, user.ID, "10001", domain.CurrencyEUR, "5.5")

	got, err := repo.GetByNumber(ctx, "10001")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, domain.CurrencyEUR, got.Currency)

	exists, err := repo.ExistsByNumber(ctx, "10001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNumber(ctx, "99999")
	require.NoError(t, err)
	assert.False(t, exists)

	owned, err := repo.GetWithOwner(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna", owned.OwnerUsername)

	_, err = repo.GetByID(ctx, acc.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, acc.ID))
	assert.ErrorIs(t, repo.Delete(ctx, acc.ID), domain.ErrNotFound)
}

func TestAccountRepository_CreateDuplicateNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewAccountRepository(db)

	anna := testutil.SeedTestUser(t, db, "anna", false)
	boris := testutil.SeedTestUser(t, db, "boris", false)
	testutil.SeedTestAccount(t, db, anna.ID, "10001", domain.CurrencyRUB, "0")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.Create(ctx, tx, &domain.Account{
		UserID:   boris.ID,
		Number:   "10001",
		Type:     domain.AccountTypeDeposit,
		Balance:  decimal.Zero,
		Currency: domain.CurrencyUSD,
	})
	assert.ErrorIs(t, err, domain.ErrAccountNumberTaken)
}

func TestDB_Ping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	require.NoError(t, repository.NewDB(db).Ping(context.Background()))
}

func TestRequestRepository_OnePendingPerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewRequestRepository(db)

	user := testutil.SeedTestUser(t, db, "anna", false)

	first := &domain.AccountRequest{UserID: user.ID, Type: domain.AccountTypeDeposit, Currency: domain.CurrencyRUB}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)
	assert.Equal(t, "anna", first.Username)

	second := &domain.AccountRequest{UserID: user.ID, Type: domain.AccountTypeCredit, Currency: domain.CurrencyUSD}
	assert.ErrorIs(t, repo.Create(ctx, second), domain.ErrDuplicatePendingRequest)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "anna", list[0].Username)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIdempotencyRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewIdempotencyRepository(db)

	user := testutil.SeedTestUser(t, db, "anna", false)
	now := time.Now().UTC()

	got, err := repo.Get(ctx, "k1", user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	entry := &repository.IdempotencyCacheEntry{
		Key:          "k1",
		UserID:       user.ID,
		RequestHash:  "hash-a",
		StatusCode:   201,
		ResponseBody: []byte(`{"success":true}`),
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Hour),
	}
	require.NoError(t, repo.Set(ctx, entry))

	// A live entry is never overwritten.
	replaced := *entry
	replaced.RequestHash = "hash-b"
	require.NoError(t, repo.Set(ctx, &replaced))

	got, err = repo.Get(ctx, "k1", user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hash-a", got.RequestHash)
	assert.Equal(t, 201, got.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(got.ResponseBody))

	expired := &repository.IdempotencyCacheEntry{
		Key:          "k2",
		UserID:       user.ID,
		RequestHash:  "hash-c",
		StatusCode:   201,
		ResponseBody: []byte(`{}`),
		CreatedAt:    now.Add(-2 * time.Hour),
		ExpiresAt:    now.Add(-time.Hour),
	}
	require.NoError(t, repo.Set(ctx, expired))

	got, err = repo.Get(ctx, "k2", user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := repo.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, testutil.CountRows(t, db, "idempotency_cache", "user_id = $1", user.ID))
}
