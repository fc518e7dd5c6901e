package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"type": "customer.subscription.updated",
		"data": {"object": {"id": "sub_123"}}
	}`)

	env, err := ParseEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, "evt_123", env.ID)
	assert.Equal(t, "customer.subscription.updated", env.Type)
	assert.JSONEq(t, `{"id":"sub_123"}`, string(env.Data.Object))
}

func TestSubscriptionSnapshot_TopLevelBounds(t *testing.T) {
	object := []byte(`{
		"id": "sub_123",
		"customer": "cus_123",
		"status": "active",
		"cancel_at_period_end": false,
		"current_period_start": 1700000000,
		"current_period_end": 1702592000
	}`)

	snap, err := ParseSubscriptionSnapshot(object)
	require.NoError(t, err)

	start, end := snap.PeriodBounds()
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *start)
	assert.Equal(t, time.Unix(1702592000, 0).UTC(), *end)
}

func TestSubscriptionSnapshot_ItemLevelBounds(t *testing.T) {
	object := []byte(`{
		"id": "sub_123",
		"customer": "cus_123",
		"status": "active",
		"items": {
			"data": [{
				"current_period_start": 1700000000,
				"current_period_end": 1702592000,
				"price": {"id": "price_abc"}
			}]
		}
	}`)

	snap, err := ParseSubscriptionSnapshot(object)
	require.NoError(t, err)

	start, end := snap.PeriodBounds()
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *start)
	assert.Equal(t, "price_abc", snap.PriceID())
}

func TestSubscriptionSnapshot_TopLevelWinsOverItems(t *testing.T) {
	object := []byte(`{
		"id": "sub_123",
		"status": "active",
		"current_period_start": 1600000000,
		"current_period_end": 1602592000,
		"items": {
			"data": [{
				"current_period_start": 1700000000,
				"current_period_end": 1702592000
			}]
		}
	}`)

	snap, err := ParseSubscriptionSnapshot(object)
	require.NoError(t, err)

	start, _ := snap.PeriodBounds()
	require.NotNil(t, start)
	assert.Equal(t, time.Unix(1600000000, 0).UTC(), *start)
}

func TestSubscriptionSnapshot_AbsentBounds(t *testing.T) {
	object := []byte(`{"id": "sub_123", "status": "incomplete"}`)

	snap, err := ParseSubscriptionSnapshot(object)
	require.NoError(t, err)

	start, end := snap.PeriodBounds()
	assert.Nil(t, start)
	assert.Nil(t, end)
	assert.Nil(t, snap.EndedAt())
}

func TestParseSubscriptionSnapshot_MissingID(t *testing.T) {
	_, err := ParseSubscriptionSnapshot([]byte(`{"status": "active"}`))
	assert.Error(t, err)
}

func TestInvoiceSnapshot_TopLevelSubscriptionRef(t *testing.T) {
	object := []byte(`{
		"id": "in_123",
		"customer": "cus_123",
		"subscription": "sub_123",
		"status": "paid",
		"amount_due": 2900,
		"amount_paid": 2900,
		"currency": "usd",
		"status_transitions": {"paid_at": 1700000500}
	}`)

	snap, err := ParseInvoiceSnapshot(object)
	require.NoError(t, err)
	assert.Equal(t, "sub_123", snap.SubscriptionRef())
	require.NotNil(t, snap.PaidAt())
	assert.Equal(t, time.Unix(1700000500, 0).UTC(), *snap.PaidAt())
}

func TestInvoiceSnapshot_ParentSubscriptionRef(t *testing.T) {
	object := []byte(`{
		"id": "in_123",
		"customer": "cus_123",
		"status": "paid",
		"parent": {"subscription_details": {"subscription": "sub_nested"}}
	}`)

	snap, err := ParseInvoiceSnapshot(object)
	require.NoError(t, err)
	assert.Equal(t, "sub_nested", snap.SubscriptionRef())
}

func TestInvoiceSnapshot_NoSubscriptionRef(t *testing.T) {
	object := []byte(`{"id": "in_123", "customer": "cus_123", "status": "open"}`)

	snap, err := ParseInvoiceSnapshot(object)
	require.NoError(t, err)
	assert.Empty(t, snap.SubscriptionRef())
	assert.Nil(t, snap.PaidAt())
	assert.Nil(t, snap.DueDate())
}
