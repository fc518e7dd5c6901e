package usecases

import (
	"context"
	"fmt"

	"keygate/internal/application/apikey/gateway"
	"keygate/internal/domain/apikey"
	"keygate/internal/domain/subscription"
	"keygate/internal/shared/logger"
)

type SyncRateLimitsCommand struct {
	AccountID uint
}

// SyncRateLimitsResult reports the per-credential outcome of a sync pass.
type SyncRateLimitsResult struct {
	RequestsPerHour int
	Updated         int
	Failed          int
}

// SyncRateLimitsUseCase pushes the account's current plan quota to every
// active gateway consumer. Each credential is attempted independently; a
// failure is counted and logged, never fatal to the pass.
type SyncRateLimitsUseCase struct {
	apikeyRepo       apikey.Repository
	subscriptionRepo subscription.Repository
	planRepo         subscription.PlanRepository
	consumerGateway  gateway.ConsumerGateway
	quotaCache       QuotaCache
	logger           logger.Interface
}

func NewSyncRateLimitsUseCase(
	apikeyRepo apikey.Repository,
	subscriptionRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	consumerGateway gateway.ConsumerGateway,
	quotaCache QuotaCache,
	logger logger.Interface,
) *SyncRateLimitsUseCase {
	return &SyncRateLimitsUseCase{
		apikeyRepo:       apikeyRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		consumerGateway:  consumerGateway,
		quotaCache:       quotaCache,
		logger:           logger,
	}
}

func (uc *SyncRateLimitsUseCase) Execute(ctx context.Context, cmd SyncRateLimitsCommand) (*SyncRateLimitsResult, error) {
	// The quota may have just changed, so the cache is refreshed, not read.
	if uc.quotaCache != nil {
		uc.quotaCache.Invalidate(ctx, cmd.AccountID)
	}

	resolver := &planQuotaResolver{
		subscriptionRepo: uc.subscriptionRepo,
		planRepo:         uc.planRepo,
		cache:            uc.quotaCache,
		logger:           uc.logger,
	}
	quota, err := resolver.resolve(ctx, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan quota: %w", err)
	}

	keys, err := uc.apikeyRepo.ListActiveByAccountID(ctx, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}

	result := &SyncRateLimitsResult{RequestsPerHour: quota}
	for _, key := range keys {
		consumerID := key.KeyPrefix()
		if key.GatewayConsumerID() != nil {
			consumerID = *key.GatewayConsumerID()
		}

		if err := uc.consumerGateway.UpdateRateLimit(ctx, consumerID, quota); err != nil {
			result.Failed++
			uc.logger.Warnw("failed to sync consumer rate limit",
				"error", err,
				"key_id", key.ID(),
				"consumer_id", consumerID,
			)
			continue
		}
		result.Updated++
	}

	uc.logger.Infow("rate limit sync completed",
		"account_id", cmd.AccountID,
		"requests_per_hour", quota,
		"updated", result.Updated,
		"failed", result.Failed,
	)
	return result, nil
}

// SyncAccountRateLimits adapts the use case to callers that only need a
// fire-and-check signature. A pass with any per-consumer failure returns an
// error so callers can log it.
func (uc *SyncRateLimitsUseCase) SyncAccountRateLimits(ctx context.Context, accountID uint) error {
	result, err := uc.Execute(ctx, SyncRateLimitsCommand{AccountID: accountID})
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d consumers failed to sync", result.Failed, result.Failed+result.Updated)
	}
	return nil
}
