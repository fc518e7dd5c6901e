package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keygate/internal/shared/logger"
)

func newSyncUseCase(keys *fakeAPIKeyRepo, subs *fakeSubscriptionRepo, plans *fakePlanRepo, gw *fakeConsumerGateway) *SyncRateLimitsUseCase {
	return NewSyncRateLimitsUseCase(keys, subs, plans, gw, nil, logger.NewNoop())
}

func TestSyncRateLimits_UpdatesAllConsumers(t *testing.T) {
	keys := newFakeAPIKeyRepo()
	first := provisionedKey(t, keys, 42)
	second := provisionedKey(t, keys, 42)

	subs := newFakeSubscriptionRepo()
	subs.currentByAccount[42] = testCurrentSubscription(42, 3)
	plans := newFakePlanRepo()
	plans.byID[3] = testPlan(3, 2000)
	gw := newFakeConsumerGateway()

	uc := newSyncUseCase(keys, subs, plans, gw)

	result, err := uc.Execute(context.Background(), SyncRateLimitsCommand{AccountID: 42})
	require.NoError(t, err)

	assert.Equal(t, 2000, result.RequestsPerHour)
	assert.Equal(t, 2, result.Updated)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 2000, gw.limitUpdates[first.KeyPrefix()])
	assert.Equal(t, 2000, gw.limitUpdates[second.KeyPrefix()])
}

func TestSyncRateLimits_PartialFailureCounted(t *testing.T) {
	keys := newFakeAPIKeyRepo()
	healthy := provisionedKey(t, keys, 42)
	broken := provisionedKey(t, keys, 42)

	gw := newFakeConsumerGateway()
	gw.updateLimitErr[broken.KeyPrefix()] = errGatewayDown

	uc := newSyncUseCase(keys, newFakeSubscriptionRepo(), newFakePlanRepo(), gw)

	result, err := uc.Execute(context.Background(), SyncRateLimitsCommand{AccountID: 42})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, defaultRequestsPerHour, gw.limitUpdates[healthy.KeyPrefix()])
}

func TestSyncRateLimits_NoKeysIsNoop(t *testing.T) {
	uc := newSyncUseCase(newFakeAPIKeyRepo(), newFakeSubscriptionRepo(), newFakePlanRepo(), newFakeConsumerGateway())

	result, err := uc.Execute(context.Background(), SyncRateLimitsCommand{AccountID: 42})
	require.NoError(t, err)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Failed)
}

func TestSyncAccountRateLimits_ReportsFailures(t *testing.T) {
	keys := newFakeAPIKeyRepo()
	broken := provisionedKey(t, keys, 42)

	gw := newFakeConsumerGateway()
	gw.updateLimitErr[broken.KeyPrefix()] = errGatewayDown

	uc := newSyncUseCase(keys, newFakeSubscriptionRepo(), newFakePlanRepo(), gw)

	err := uc.SyncAccountRateLimits(context.Background(), 42)
	assert.Error(t, err)
}
