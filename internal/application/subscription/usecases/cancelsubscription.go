package usecases

import (
	"context"
	"fmt"

	"keygate/internal/application/subscription/provider"
	"keygate/internal/domain/subscription"
	"keygate/internal/shared/errors"
	"keygate/internal/shared/logger"
)

// RateLimitSyncer pushes an account's plan quota to its gateway consumers.
type RateLimitSyncer interface {
	SyncAccountRateLimits(ctx context.Context, accountID uint) error
}

type CancelSubscriptionCommand struct {
	AccountID   uint
	Immediately bool
}

// CancelSubscriptionUseCase cancels the account's current subscription at
// the provider and echoes the result locally. Period-end cancellation keeps
// access until the provider confirms the lapse via webhook.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	paymentProvider  provider.PaymentProvider
	limitSyncer      RateLimitSyncer
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	paymentProvider provider.PaymentProvider,
	limitSyncer RateLimitSyncer,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		paymentProvider:  paymentProvider,
		limitSyncer:      limitSyncer,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) error {
	sub, err := uc.subscriptionRepo.GetCurrentByAccountID(ctx, cmd.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load current subscription: %w", err)
	}
	if sub == nil {
		return errors.NewNotFoundError("no current subscription")
	}

	if _, err := uc.paymentProvider.CancelSubscription(ctx, sub.StripeSubscriptionID(), cmd.Immediately); err != nil {
		return fmt.Errorf("failed to cancel provider subscription: %w", err)
	}

	if cmd.Immediately {
		sub.CancelImmediately()
	} else {
		sub.CancelAtPeriodEndRequested()
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist cancellation: %w", err)
	}

	uc.logger.Infow("subscription canceled",
		"subscription_id", sub.ID(),
		"account_id", cmd.AccountID,
		"immediately", cmd.Immediately,
	)

	// An immediate cancellation drops the account back to the default quota.
	if cmd.Immediately && uc.limitSyncer != nil {
		if err := uc.limitSyncer.SyncAccountRateLimits(ctx, cmd.AccountID); err != nil {
			uc.logger.Warnw("rate limit sync failed after cancellation",
				"error", err,
				"account_id", cmd.AccountID,
			)
		}
	}

	return nil
}
