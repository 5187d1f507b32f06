package events_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitMok/bank-backend/internal/events"
	"github.com/VitMok/bank-backend/internal/testutil"
)

func TestPublisher_AppendsToStream(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	pub := events.NewPublisher(client)
	ctx := context.Background()

	err := pub.Publish(ctx, events.OperationsStream, events.PaymentCommitted, events.PaymentCommittedEvent{
		PaymentID:     9,
		AccountNumber: "10001",
		Merchant:      "Coffee",
		Amount:        decimal.RequireFromString("3.50"),
		Currency:      "EUR",
	})
	require.NoError(t, err)

	msgs, err := client.XRange(ctx, events.OperationsStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	raw, ok := msgs[0].Values["event"].(string)
	require.True(t, ok)

	var got struct {
		Type string `json:"type"`
		Data struct {
			PaymentID int64  `json:"paymentId"`
			Amount    string `json:"amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, events.PaymentCommitted, got.Type)
	assert.Equal(t, int64(9), got.Data.PaymentID)
	assert.Equal(t, "3.5", got.Data.Amount)
}

func TestPublisher_ClosedClientFails(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	pub := events.NewPublisher(client)
	require.NoError(t, client.Close())

	err := pub.Publish(context.Background(), events.OperationsStream, events.TransferCommitted, nil)
	require.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	var p events.NopPublisher
	assert.NoError(t, p.Publish(context.Background(), "any", "any", 1))
}
