package usecases

import (
	"context"
	"fmt"

	"keygate/internal/application/billing/dto"
	"keygate/internal/domain/subscription"
	"keygate/internal/shared/logger"
)

// RateLimitSyncer pushes an account's plan quota to its gateway consumers.
type RateLimitSyncer interface {
	SyncAccountRateLimits(ctx context.Context, accountID uint) error
}

type ReconcileSubscriptionCommand struct {
	Snapshot *dto.SubscriptionSnapshot
	Deleted  bool
}

// ReconcileSubscriptionUseCase applies a provider subscription snapshot to
// the local mirror. The remote state always wins; a snapshot for a
// subscription with no local row is logged and skipped, never an error.
type ReconcileSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	limitSyncer      RateLimitSyncer
	logger           logger.Interface
}

func NewReconcileSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	limitSyncer RateLimitSyncer,
	logger logger.Interface,
) *ReconcileSubscriptionUseCase {
	return &ReconcileSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		limitSyncer:      limitSyncer,
		logger:           logger,
	}
}

func (uc *ReconcileSubscriptionUseCase) Execute(ctx context.Context, cmd ReconcileSubscriptionCommand) error {
	snap := cmd.Snapshot
	if snap == nil {
		return fmt.Errorf("subscription snapshot is required")
	}

	sub, err := uc.subscriptionRepo.GetByStripeSubscriptionID(ctx, snap.ID)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		uc.logger.Warnw("subscription snapshot has no local mirror, skipping",
			"stripe_subscription_id", snap.ID,
			"customer", snap.Customer,
		)
		return nil
	}

	if cmd.Deleted {
		sub.MarkDeleted(snap.EndedAt())
	} else {
		start, end := snap.PeriodBounds()
		if err := sub.ApplyRemoteState(subscription.Status(snap.Status), start, end, snap.CancelAtPeriodEnd); err != nil {
			return fmt.Errorf("failed to apply remote state: %w", err)
		}
		if priceID := snap.PriceID(); priceID != "" {
			sub.SetStripePriceID(priceID)
		}
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist subscription: %w", err)
	}

	uc.logger.Infow("subscription reconciled",
		"subscription_id", sub.ID(),
		"stripe_subscription_id", snap.ID,
		"status", sub.Status(),
		"deleted", cmd.Deleted,
	)

	// Quota propagation is best effort. A gateway hiccup must not fail the
	// reconciliation; the next sync pass converges.
	if uc.limitSyncer != nil {
		if err := uc.limitSyncer.SyncAccountRateLimits(ctx, sub.AccountID()); err != nil {
			uc.logger.Warnw("rate limit sync failed after reconciliation",
				"error", err,
				"account_id", sub.AccountID(),
			)
		}
	}

	return nil
}
