package models

import (
	"time"
)

// SubscriptionModel is the database persistence model for subscriptions.
type SubscriptionModel struct {
	ID                   uint    `gorm:"primarykey"`
	AccountID            uint    `gorm:"not null;index:idx_account_subscription"`
	PlanID               uint    `gorm:"not null;index:idx_plan_subscription"`
	StripeSubscriptionID string  `gorm:"uniqueIndex;not null;size:255"`
	StripePriceID        *string `gorm:"size:255"`
	Status               string  `gorm:"not null;size:20;index:idx_subscription_status"`
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time `gorm:"index"`
	CancelAtPeriodEnd    bool       `gorm:"not null;default:false"`
	CanceledAt           *time.Time
	EndedAt              *time.Time
	ScheduledPlanID      *uint
	ScheduledChangeDate  *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
