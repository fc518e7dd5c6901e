package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keygate/internal/domain/billing"
	"keygate/internal/shared/logger"
)

func TestBillingEventRepository_Record(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBillingEventRepository(db, logger.NewNoop())
	ctx := context.Background()

	event, err := billing.NewEvent("evt_001", "invoice.payment_succeeded", []byte(`{"id":"evt_001"}`))
	require.NoError(t, err)

	stored, existed, err := repo.Record(ctx, event)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NotZero(t, stored.ID())
	assert.Equal(t, billing.EventStatusPending, stored.Status())
}

func TestBillingEventRepository_Record_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBillingEventRepository(db, logger.NewNoop())
	ctx := context.Background()

	first, err := billing.NewEvent("evt_dup", "customer.subscription.updated", []byte(`{"seq":1}`))
	require.NoError(t, err)
	stored, existed, err := repo.Record(ctx, first)
	require.NoError(t, err)
	require.False(t, existed)

	stored.MarkProcessed()
	require.NoError(t, repo.Update(ctx, stored))

	// Redelivery with a drifted payload must return the stored row untouched.
	second, err := billing.NewEvent("evt_dup", "customer.subscription.updated", []byte(`{"seq":2}`))
	require.NoError(t, err)
	existing, existed, err := repo.Record(ctx, second)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, stored.ID(), existing.ID())
	assert.Equal(t, billing.EventStatusProcessed, existing.Status())
	assert.JSONEq(t, `{"seq":1}`, string(existing.Payload()))
}

func TestBillingEventRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBillingEventRepository(db, logger.NewNoop())
	ctx := context.Background()

	event, err := billing.NewEvent("evt_fail", "invoice.payment_failed", []byte(`{}`))
	require.NoError(t, err)
	stored, _, err := repo.Record(ctx, event)
	require.NoError(t, err)

	stored.MarkFailed(errors.New("handler exploded"))
	require.NoError(t, repo.Update(ctx, stored))

	reloaded, err := repo.GetByEventID(ctx, "evt_fail")
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, billing.EventStatusFailed, reloaded.Status())
	require.NotNil(t, reloaded.ErrorMessage())
	assert.Equal(t, "handler exploded", *reloaded.ErrorMessage())
	assert.NotNil(t, reloaded.ProcessedAt())
}

func TestBillingEventRepository_GetByEventID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBillingEventRepository(db, logger.NewNoop())

	event, err := repo.GetByEventID(context.Background(), "evt_missing")
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestBillingEventRepository_ListByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBillingEventRepository(db, logger.NewNoop())
	ctx := context.Background()

	for _, id := range []string{"evt_a", "evt_b"} {
		event, err := billing.NewEvent(id, "invoice.finalized", []byte(`{}`))
		require.NoError(t, err)
		_, _, err = repo.Record(ctx, event)
		require.NoError(t, err)
	}

	failed, err := billing.NewEvent("evt_c", "invoice.finalized", []byte(`{}`))
	require.NoError(t, err)
	stored, _, err := repo.Record(ctx, failed)
	require.NoError(t, err)
	stored.MarkFailed(errors.New("boom"))
	require.NoError(t, repo.Update(ctx, stored))

	pending, err := repo.ListByStatus(ctx, billing.EventStatusPending, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	failedList, err := repo.ListByStatus(ctx, billing.EventStatusFailed, 10)
	require.NoError(t, err)
	require.Len(t, failedList, 1)
	assert.Equal(t, "evt_c", failedList[0].EventID())
}
