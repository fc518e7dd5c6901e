package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"keygate/internal/domain/subscription"
	"keygate/internal/infrastructure/persistence/models"
	"keygate/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := r.toModel(sub)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription",
			"error", err,
			"account_id", sub.AccountID(),
			"stripe_subscription_id", sub.StripeSubscriptionID(),
		)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("subscription created",
		"subscription_id", model.ID,
		"account_id", sub.AccountID(),
		"stripe_subscription_id", sub.StripeSubscriptionID(),
	)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "error", err, "subscription_id", id)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).Where("stripe_subscription_id = ?", stripeSubscriptionID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by provider ID",
			"error", err,
			"stripe_subscription_id", stripeSubscriptionID,
		)
		return nil, fmt.Errorf("failed to get subscription by provider ID: %w", err)
	}

	return r.toEntity(&model)
}

// GetCurrentByAccountID returns the account's access-granting subscription
// (active or trialing), or nil when the account has none.
func (r *SubscriptionRepositoryImpl) GetCurrentByAccountID(ctx context.Context, accountID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND status IN ?", accountID, []string{
			string(subscription.StatusActive),
			string(subscription.StatusTrialing),
		}).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get current subscription", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to get current subscription: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) ListByAccountID(ctx context.Context, accountID uint) ([]*subscription.Subscription, error) {
	var modelList []models.SubscriptionModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list subscriptions", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs := make([]*subscription.Subscription, 0, len(modelList))
	for i := range modelList {
		sub, err := r.toEntity(&modelList[i])
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := r.toModel(sub)
	model.ID = sub.ID()

	result := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Where("id = ?", sub.ID()).
		Updates(map[string]interface{}{
			"plan_id":               model.PlanID,
			"stripe_price_id":       model.StripePriceID,
			"status":                model.Status,
			"current_period_start":  model.CurrentPeriodStart,
			"current_period_end":    model.CurrentPeriodEnd,
			"cancel_at_period_end":  model.CancelAtPeriodEnd,
			"canceled_at":           model.CanceledAt,
			"ended_at":              model.EndedAt,
			"scheduled_plan_id":     model.ScheduledPlanID,
			"scheduled_change_date": model.ScheduledChangeDate,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "error", result.Error, "subscription_id", sub.ID())
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) toModel(sub *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:                   sub.ID(),
		AccountID:            sub.AccountID(),
		PlanID:               sub.PlanID(),
		StripeSubscriptionID: sub.StripeSubscriptionID(),
		StripePriceID:        sub.StripePriceID(),
		Status:               string(sub.Status()),
		CurrentPeriodStart:   sub.CurrentPeriodStart(),
		CurrentPeriodEnd:     sub.CurrentPeriodEnd(),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd(),
		CanceledAt:           sub.CanceledAt(),
		EndedAt:              sub.EndedAt(),
		ScheduledPlanID:      sub.ScheduledPlanID(),
		ScheduledChangeDate:  sub.ScheduledChangeDate(),
		CreatedAt:            sub.CreatedAt(),
		UpdatedAt:            sub.UpdatedAt(),
	}
}

func (r *SubscriptionRepositoryImpl) toEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	return subscription.ReconstructSubscription(
		model.ID,
		model.AccountID,
		model.PlanID,
		model.StripeSubscriptionID,
		model.StripePriceID,
		subscription.Status(model.Status),
		model.CurrentPeriodStart,
		model.CurrentPeriodEnd,
		model.CancelAtPeriodEnd,
		model.CanceledAt,
		model.EndedAt,
		model.ScheduledPlanID,
		model.ScheduledChangeDate,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
