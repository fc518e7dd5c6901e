package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keygate/internal/domain/subscription"
	"keygate/internal/shared/logger"
)

func createTestSubscription(t *testing.T, repo subscription.Repository, accountID uint, stripeID string, status subscription.Status) *subscription.Subscription {
	t.Helper()

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(30 * 24 * time.Hour)
	sub, err := subscription.NewSubscription(accountID, 1, stripeID, status, &start, &end)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), sub))
	return sub
}

func TestSubscriptionRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, logger.NewNoop())
	ctx := context.Background()

	sub := createTestSubscription(t, repo, 1, "sub_001", subscription.StatusActive)
	assert.NotZero(t, sub.ID())

	stored, err := repo.GetByStripeSubscriptionID(ctx, "sub_001")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, sub.ID(), stored.ID())
	assert.Equal(t, subscription.StatusActive, stored.Status())
	assert.NotNil(t, stored.CurrentPeriodEnd())
}

func TestSubscriptionRepository_GetByStripeSubscriptionID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, logger.NewNoop())

	stored, err := repo.GetByStripeSubscriptionID(context.Background(), "sub_missing")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSubscriptionRepository_Update_RemoteState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, logger.NewNoop())
	ctx := context.Background()

	sub := createTestSubscription(t, repo, 1, "sub_sync", subscription.StatusActive)

	newStart := time.Now()
	newEnd := newStart.Add(30 * 24 * time.Hour)
	require.NoError(t, sub.ApplyRemoteState(subscription.StatusPastDue, &newStart, &newEnd, true))
	require.NoError(t, repo.Update(ctx, sub))

	stored, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, subscription.StatusPastDue, stored.Status())
	assert.True(t, stored.CancelAtPeriodEnd())
	assert.WithinDuration(t, newEnd, *stored.CurrentPeriodEnd(), time.Second)
}

func TestSubscriptionRepository_GetCurrentByAccountID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, logger.NewNoop())
	ctx := context.Background()

	canceled := createTestSubscription(t, repo, 5, "sub_old", subscription.StatusActive)
	canceled.MarkDeleted(nil)
	require.NoError(t, repo.Update(ctx, canceled))

	current := createTestSubscription(t, repo, 5, "sub_new", subscription.StatusActive)

	stored, err := repo.GetCurrentByAccountID(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, current.ID(), stored.ID())

	none, err := repo.GetCurrentByAccountID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSubscriptionRepository_ListByAccountID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, logger.NewNoop())
	ctx := context.Background()

	createTestSubscription(t, repo, 3, "sub_a", subscription.StatusActive)
	createTestSubscription(t, repo, 3, "sub_b", subscription.StatusCanceled)
	createTestSubscription(t, repo, 4, "sub_c", subscription.StatusActive)

	subs, err := repo.ListByAccountID(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}
