// Package cache holds redis-backed caches for hot read paths.
package cache

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"keygate/internal/shared/logger"
)

const (
	planQuotaKeyPrefix = "keygate:quota:account:"
	planQuotaTTL       = 5 * time.Minute
	planQuotaTTLJitter = 30 * time.Second
)

// PlanQuotaCache caches resolved per-account request quotas in redis. All
// operations are best effort; a cache failure is logged and treated as a
// miss so the caller falls back to the database.
type PlanQuotaCache struct {
	client *redis.Client
	logger logger.Interface
}

func NewPlanQuotaCache(client *redis.Client, logger logger.Interface) *PlanQuotaCache {
	return &PlanQuotaCache{
		client: client,
		logger: logger,
	}
}

func (c *PlanQuotaCache) Get(ctx context.Context, accountID uint) (int, bool) {
	val, err := c.client.Get(ctx, quotaKey(accountID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnw("quota cache read failed", "error", err, "account_id", accountID)
		}
		return 0, false
	}

	quota, err := strconv.Atoi(val)
	if err != nil {
		c.logger.Warnw("quota cache holds malformed value", "value", val, "account_id", accountID)
		return 0, false
	}
	return quota, true
}

func (c *PlanQuotaCache) Set(ctx context.Context, accountID uint, requestsPerHour int) {
	// Jitter spreads expiry so a burst of writes does not expire at once.
	ttl := planQuotaTTL + time.Duration(rand.Int63n(int64(planQuotaTTLJitter)))
	if err := c.client.Set(ctx, quotaKey(accountID), strconv.Itoa(requestsPerHour), ttl).Err(); err != nil {
		c.logger.Warnw("quota cache write failed", "error", err, "account_id", accountID)
	}
}

func (c *PlanQuotaCache) Invalidate(ctx context.Context, accountID uint) {
	if err := c.client.Del(ctx, quotaKey(accountID)).Err(); err != nil {
		c.logger.Warnw("quota cache invalidation failed", "error", err, "account_id", accountID)
	}
}

func quotaKey(accountID uint) string {
	return planQuotaKeyPrefix + fmt.Sprintf("%d", accountID)
}
