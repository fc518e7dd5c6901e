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

type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *subscription.Plan) error {
	model := r.toModel(plan)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "error", err, "slug", plan.Slug())
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := plan.SetID(model.ID); err != nil {
		return err
	}
	plan.SetUUID(model.UUID)

	r.logger.Infow("plan created", "plan_id", model.ID, "slug", plan.Slug())
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by ID", "error", err, "plan_id", id)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by slug", "error", err, "slug", slug)
		return nil, fmt.Errorf("failed to get plan by slug: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetAvailablePlans(ctx context.Context) ([]*subscription.Plan, error) {
	var modelList []models.PlanModel
	err := r.db.WithContext(ctx).
		Where("active = ? AND public = ? AND deleted_at IS NULL", true, true).
		Order("position ASC, price_cents ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list available plans", "error", err)
		return nil, fmt.Errorf("failed to list available plans: %w", err)
	}

	plans := make([]*subscription.Plan, 0, len(modelList))
	for i := range modelList {
		plan, err := r.toEntity(&modelList[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *subscription.Plan) error {
	model := r.toModel(plan)
	model.ID = plan.ID()

	result := r.db.WithContext(ctx).Model(&models.PlanModel{}).
		Where("id = ?", plan.ID()).
		Updates(map[string]interface{}{
			"name":              model.Name,
			"requests_per_hour": model.RequestsPerHour,
			"price_cents":       model.PriceCents,
			"currency":          model.Currency,
			"billing_period":    model.BillingPeriod,
			"stripe_price_id":   model.StripePriceID,
			"active":            model.Active,
			"public":            model.Public,
			"position":          model.Position,
			"deleted_at":        model.DeletedAt,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "error", result.Error, "plan_id", plan.ID())
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}

	return nil
}

func (r *PlanRepositoryImpl) toModel(plan *subscription.Plan) *models.PlanModel {
	return &models.PlanModel{
		ID:              plan.ID(),
		UUID:            plan.UUID(),
		Name:            plan.Name(),
		Slug:            plan.Slug(),
		RequestsPerHour: plan.RequestsPerHour(),
		PriceCents:      plan.PriceCents(),
		Currency:        plan.Currency(),
		BillingPeriod:   string(plan.BillingPeriod()),
		StripePriceID:   plan.StripePriceID(),
		Active:          plan.Active(),
		Public:          plan.Public(),
		Position:        plan.Position(),
		DeletedAt:       plan.DeletedAt(),
		CreatedAt:       plan.CreatedAt(),
		UpdatedAt:       plan.UpdatedAt(),
	}
}

func (r *PlanRepositoryImpl) toEntity(model *models.PlanModel) (*subscription.Plan, error) {
	return subscription.ReconstructPlan(
		model.ID,
		model.UUID,
		model.Name,
		model.Slug,
		model.RequestsPerHour,
		model.PriceCents,
		model.Currency,
		subscription.BillingPeriod(model.BillingPeriod),
		model.StripePriceID,
		model.Active,
		model.Public,
		model.Position,
		model.DeletedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
