package models

import (
	"time"

	"gorm.io/datatypes"
)

// BillingEventModel is the audit row for one provider notification. The
// unique index on EventID is what serializes concurrent duplicate delivery.
type BillingEventModel struct {
	ID           uint   `gorm:"primarykey"`
	EventID      string `gorm:"uniqueIndex;not null;size:255"`
	Kind         string `gorm:"not null;size:100;index:idx_billing_event_kind"`
	Status       string `gorm:"not null;size:20;default:pending;index:idx_billing_event_status"`
	ProcessedAt  *time.Time
	ErrorMessage *string        `gorm:"type:text"`
	Payload      datatypes.JSON `gorm:"type:json"`
	CreatedAt    time.Time      `gorm:"index"`
	UpdatedAt    time.Time
}

func (BillingEventModel) TableName() string {
	return "billing_events"
}
