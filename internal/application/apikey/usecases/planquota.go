package usecases

import (
	"context"

	"keygate/internal/domain/subscription"
	"keygate/internal/shared/logger"
)

// defaultRequestsPerHour is the quota applied to accounts without a current
// subscription.
const defaultRequestsPerHour = 100

// QuotaCache caches resolved per-account quotas. Implementations must be
// safe to skip entirely; all methods are best effort.
type QuotaCache interface {
	Get(ctx context.Context, accountID uint) (int, bool)
	Set(ctx context.Context, accountID uint, requestsPerHour int)
	Invalidate(ctx context.Context, accountID uint)
}

// planQuotaResolver resolves the hourly request quota an account is entitled
// to from its current subscription's plan.
type planQuotaResolver struct {
	subscriptionRepo subscription.Repository
	planRepo         subscription.PlanRepository
	cache            QuotaCache
	logger           logger.Interface
}

func (r *planQuotaResolver) resolve(ctx context.Context, accountID uint) (int, error) {
	if r.cache != nil {
		if quota, ok := r.cache.Get(ctx, accountID); ok {
			return quota, nil
		}
	}

	quota := defaultRequestsPerHour

	sub, err := r.subscriptionRepo.GetCurrentByAccountID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if sub != nil {
		plan, err := r.planRepo.GetByID(ctx, sub.PlanID())
		if err != nil {
			return 0, err
		}
		if plan != nil {
			quota = plan.RequestsPerHour()
		} else {
			r.logger.Warnw("subscription references missing plan, using default quota",
				"account_id", accountID,
				"plan_id", sub.PlanID(),
			)
		}
	}

	if r.cache != nil {
		r.cache.Set(ctx, accountID, quota)
	}
	return quota, nil
}
