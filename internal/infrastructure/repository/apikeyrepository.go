package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"keygate/internal/domain/apikey"
	"keygate/internal/infrastructure/persistence/models"
	"keygate/internal/shared/logger"
)

type APIKeyRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAPIKeyRepository(db *gorm.DB, logger logger.Interface) apikey.Repository {
	return &APIKeyRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *APIKeyRepositoryImpl) Create(ctx context.Context, key *apikey.APIKey) error {
	model := r.toModel(key)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create api key",
			"error", err,
			"account_id", key.AccountID(),
			"key_prefix", key.KeyPrefix(),
		)
		return fmt.Errorf("failed to create api key: %w", err)
	}

	if err := key.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("api key created",
		"key_id", model.ID,
		"account_id", key.AccountID(),
		"key_prefix", key.KeyPrefix(),
	)
	return nil
}

func (r *APIKeyRepositoryImpl) GetByID(ctx context.Context, id uint) (*apikey.APIKey, error) {
	var model models.APIKeyModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get api key by ID", "error", err, "key_id", id)
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}

	return r.toEntity(&model)
}

// GetByPrefix returns the active keys sharing a display prefix. The prefix is
// not unique, so verification still requires a hash comparison per candidate.
func (r *APIKeyRepositoryImpl) GetByPrefix(ctx context.Context, prefix string) ([]*apikey.APIKey, error) {
	var modelList []models.APIKeyModel
	err := r.db.WithContext(ctx).
		Where("key_prefix = ? AND revoked_at IS NULL", prefix).
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get api keys by prefix", "error", err, "key_prefix", prefix)
		return nil, fmt.Errorf("failed to get api keys by prefix: %w", err)
	}

	keys := make([]*apikey.APIKey, 0, len(modelList))
	for i := range modelList {
		key, err := r.toEntity(&modelList[i])
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (r *APIKeyRepositoryImpl) ListActiveByAccountID(ctx context.Context, accountID uint) ([]*apikey.APIKey, error) {
	var modelList []models.APIKeyModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND revoked_at IS NULL", accountID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list api keys", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}

	keys := make([]*apikey.APIKey, 0, len(modelList))
	for i := range modelList {
		key, err := r.toEntity(&modelList[i])
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (r *APIKeyRepositoryImpl) CountByAccountID(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.APIKeyModel{}).
		Where("account_id = ? AND revoked_at IS NULL", accountID).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count api keys", "error", err, "account_id", accountID)
		return 0, fmt.Errorf("failed to count api keys: %w", err)
	}
	return count, nil
}

func (r *APIKeyRepositoryImpl) Update(ctx context.Context, key *apikey.APIKey) error {
	model := r.toModel(key)
	model.ID = key.ID()

	result := r.db.WithContext(ctx).Model(&models.APIKeyModel{}).
		Where("id = ?", key.ID()).
		Updates(map[string]interface{}{
			"name":                model.Name,
			"gateway_consumer_id": model.GatewayConsumerID,
			"revoked_at":          model.RevokedAt,
			"last_used_at":        model.LastUsedAt,
			"expires_at":          model.ExpiresAt,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update api key", "error", result.Error, "key_id", key.ID())
		return fmt.Errorf("failed to update api key: %w", result.Error)
	}

	return nil
}

func (r *APIKeyRepositoryImpl) toModel(key *apikey.APIKey) *models.APIKeyModel {
	return &models.APIKeyModel{
		ID:                key.ID(),
		AccountID:         key.AccountID(),
		Name:              key.Name(),
		KeyHash:           key.KeyHash(),
		KeyPrefix:         key.KeyPrefix(),
		GatewayConsumerID: key.GatewayConsumerID(),
		RevokedAt:         key.RevokedAt(),
		LastUsedAt:        key.LastUsedAt(),
		ExpiresAt:         key.ExpiresAt(),
		CreatedAt:         key.CreatedAt(),
		UpdatedAt:         key.UpdatedAt(),
	}
}

func (r *APIKeyRepositoryImpl) toEntity(model *models.APIKeyModel) (*apikey.APIKey, error) {
	return apikey.ReconstructAPIKey(
		model.ID,
		model.AccountID,
		model.Name,
		model.KeyHash,
		model.KeyPrefix,
		model.GatewayConsumerID,
		model.RevokedAt,
		model.LastUsedAt,
		model.ExpiresAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
