package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"keygate/internal/domain/account"
	"keygate/internal/infrastructure/persistence/models"
	"keygate/internal/shared/logger"
)

type AccountRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAccountRepository(db *gorm.DB, logger logger.Interface) account.Repository {
	return &AccountRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *AccountRepositoryImpl) Create(ctx context.Context, acct *account.Account) error {
	model := r.toModel(acct)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create account", "error", err, "email", acct.Email())
		return fmt.Errorf("failed to create account: %w", err)
	}

	if err := acct.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("account created", "account_id", model.ID, "email", acct.Email())
	return nil
}

func (r *AccountRepositoryImpl) GetByID(ctx context.Context, id uint) (*account.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get account by ID", "error", err, "account_id", id)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return r.toEntity(&model)
}

func (r *AccountRepositoryImpl) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get account by email", "error", err, "email", email)
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return r.toEntity(&model)
}

func (r *AccountRepositoryImpl) GetByStripeCustomerID(ctx context.Context, customerID string) (*account.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get account by customer ID", "error", err, "customer_id", customerID)
		return nil, fmt.Errorf("failed to get account by customer ID: %w", err)
	}

	return r.toEntity(&model)
}

func (r *AccountRepositoryImpl) Update(ctx context.Context, acct *account.Account) error {
	model := r.toModel(acct)
	model.ID = acct.ID()

	result := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("id = ?", acct.ID()).
		Updates(map[string]interface{}{
			"name":                  model.Name,
			"email":                 model.Email,
			"stripe_customer_id":    model.StripeCustomerID,
			"payment_method_type":   model.PaymentMethodType,
			"payment_method_last4":  model.PaymentMethodLast4,
			"payment_method_expiry": model.PaymentMethodExpiry,
			"status":                model.Status,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update account", "error", result.Error, "account_id", acct.ID())
		return fmt.Errorf("failed to update account: %w", result.Error)
	}

	return nil
}

func (r *AccountRepositoryImpl) toModel(acct *account.Account) *models.AccountModel {
	return &models.AccountModel{
		ID:                  acct.ID(),
		Email:               acct.Email(),
		Name:                acct.Name(),
		StripeCustomerID:    acct.StripeCustomerID(),
		PaymentMethodType:   acct.PaymentMethodType(),
		PaymentMethodLast4:  acct.PaymentMethodLast4(),
		PaymentMethodExpiry: acct.PaymentMethodExpiry(),
		Status:              acct.Status(),
		CreatedAt:           acct.CreatedAt(),
		UpdatedAt:           acct.UpdatedAt(),
	}
}

func (r *AccountRepositoryImpl) toEntity(model *models.AccountModel) (*account.Account, error) {
	return account.ReconstructAccount(
		model.ID,
		model.Email,
		model.Name,
		model.StripeCustomerID,
		model.PaymentMethodType,
		model.PaymentMethodLast4,
		model.PaymentMethodExpiry,
		model.Status,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
