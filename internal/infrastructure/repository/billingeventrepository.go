package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"keygate/internal/domain/billing"
	"keygate/internal/infrastructure/persistence/models"
	"keygate/internal/shared/errors"
	"keygate/internal/shared/logger"
)

type BillingEventRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewBillingEventRepository(db *gorm.DB, logger logger.Interface) billing.EventRepository {
	return &BillingEventRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// Record inserts the event, relying on the unique index on event_id to
// serialize duplicate delivery. On a duplicate the stored row is reloaded and
// returned unchanged; the payload of the first delivery wins.
func (r *BillingEventRepositoryImpl) Record(ctx context.Context, event *billing.Event) (*billing.Event, bool, error) {
	model := r.toModel(event)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			existing, getErr := r.GetByEventID(ctx, event.EventID())
			if getErr != nil {
				return nil, false, getErr
			}
			if existing == nil {
				return nil, false, fmt.Errorf("duplicate event %s vanished during record", event.EventID())
			}
			return existing, true, nil
		}
		r.logger.Errorw("failed to record billing event", "error", err, "event_id", event.EventID())
		return nil, false, fmt.Errorf("failed to record billing event: %w", err)
	}

	if err := event.SetID(model.ID); err != nil {
		return nil, false, err
	}

	return event, false, nil
}

func (r *BillingEventRepositoryImpl) Update(ctx context.Context, event *billing.Event) error {
	result := r.db.WithContext(ctx).Model(&models.BillingEventModel{}).
		Where("id = ?", event.ID()).
		Updates(map[string]interface{}{
			"status":        string(event.Status()),
			"processed_at":  event.ProcessedAt(),
			"error_message": event.ErrorMessage(),
			"updated_at":    event.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update billing event", "error", result.Error, "event_id", event.EventID())
		return fmt.Errorf("failed to update billing event: %w", result.Error)
	}

	return nil
}

func (r *BillingEventRepositoryImpl) GetByEventID(ctx context.Context, eventID string) (*billing.Event, error) {
	var model models.BillingEventModel
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get billing event", "error", err, "event_id", eventID)
		return nil, fmt.Errorf("failed to get billing event: %w", err)
	}

	return r.toEntity(&model)
}

func (r *BillingEventRepositoryImpl) ListByStatus(ctx context.Context, status billing.EventStatus, limit int) ([]*billing.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	var modelList []models.BillingEventModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Limit(limit).
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list billing events", "error", err, "status", status)
		return nil, fmt.Errorf("failed to list billing events: %w", err)
	}

	events := make([]*billing.Event, 0, len(modelList))
	for i := range modelList {
		event, err := r.toEntity(&modelList[i])
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *BillingEventRepositoryImpl) toModel(event *billing.Event) *models.BillingEventModel {
	return &models.BillingEventModel{
		ID:           event.ID(),
		EventID:      event.EventID(),
		Kind:         event.Kind(),
		Status:       string(event.Status()),
		ProcessedAt:  event.ProcessedAt(),
		ErrorMessage: event.ErrorMessage(),
		Payload:      datatypes.JSON(event.Payload()),
		CreatedAt:    event.CreatedAt(),
		UpdatedAt:    event.UpdatedAt(),
	}
}

func (r *BillingEventRepositoryImpl) toEntity(model *models.BillingEventModel) (*billing.Event, error) {
	return billing.ReconstructEvent(
		model.ID,
		model.EventID,
		model.Kind,
		billing.EventStatus(model.Status),
		model.ProcessedAt,
		model.ErrorMessage,
		[]byte(model.Payload),
		model.CreatedAt,
		model.UpdatedAt,
	)
}
