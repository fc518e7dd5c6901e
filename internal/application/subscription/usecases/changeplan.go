package usecases

import (
	"context"
	"fmt"

	"keygate/internal/application/subscription/provider"
	"keygate/internal/domain/subscription"
	"keygate/internal/shared/errors"
	"keygate/internal/shared/logger"
	"keygate/internal/shared/utils"
)

type ChangePlanCommand struct {
	AccountID   uint   `json:"account_id" validate:"required"`
	NewPlanSlug string `json:"new_plan_slug" validate:"required"`
}

// ChangePlanUseCase swaps the current subscription's provider price and
// repoints the local mirror at the new plan. The new quota is pushed to the
// gateway best effort.
type ChangePlanUseCase struct {
	subscriptionRepo subscription.Repository
	planRepo         subscription.PlanRepository
	paymentProvider  provider.PaymentProvider
	limitSyncer      RateLimitSyncer
	logger           logger.Interface
}

func NewChangePlanUseCase(
	subscriptionRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	paymentProvider provider.PaymentProvider,
	limitSyncer RateLimitSyncer,
	logger logger.Interface,
) *ChangePlanUseCase {
	return &ChangePlanUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		paymentProvider:  paymentProvider,
		limitSyncer:      limitSyncer,
		logger:           logger,
	}
}

func (uc *ChangePlanUseCase) Execute(ctx context.Context, cmd ChangePlanCommand) error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return err
	}

	sub, err := uc.subscriptionRepo.GetCurrentByAccountID(ctx, cmd.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load current subscription: %w", err)
	}
	if sub == nil {
		return errors.NewNotFoundError("no current subscription")
	}

	plan, err := uc.planRepo.GetBySlug(ctx, cmd.NewPlanSlug)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil || !plan.IsAvailable() {
		return errors.NewNotFoundError("plan not available")
	}
	if plan.StripePriceID() == nil {
		return errors.NewInternalError(fmt.Sprintf("plan %s has no provider price", plan.Slug()))
	}
	if plan.ID() == sub.PlanID() {
		return errors.NewConflictError("subscription already on this plan")
	}

	data, err := uc.paymentProvider.UpdateSubscriptionPrice(ctx, sub.StripeSubscriptionID(), *plan.StripePriceID())
	if err != nil {
		return fmt.Errorf("failed to update provider subscription: %w", err)
	}

	priceID := *plan.StripePriceID()
	if data != nil && data.PriceID != "" {
		priceID = data.PriceID
	}
	if err := sub.ChangePlan(plan.ID(), priceID); err != nil {
		return err
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist plan change: %w", err)
	}

	uc.logger.Infow("subscription plan changed",
		"subscription_id", sub.ID(),
		"account_id", cmd.AccountID,
		"plan", plan.Slug(),
	)

	if uc.limitSyncer != nil {
		if err := uc.limitSyncer.SyncAccountRateLimits(ctx, cmd.AccountID); err != nil {
			uc.logger.Warnw("rate limit sync failed after plan change",
				"error", err,
				"account_id", cmd.AccountID,
			)
		}
	}

	return nil
}
