package models

import (
	"time"
)

// APIKeyModel is the database persistence model for API keys. The plaintext
// secret never reaches this layer.
type APIKeyModel struct {
	ID                uint    `gorm:"primarykey"`
	AccountID         uint    `gorm:"not null;index:idx_account_apikey"`
	Name              string  `gorm:"not null;size:255"`
	KeyHash           string  `gorm:"uniqueIndex;not null;size:255"`
	KeyPrefix         string  `gorm:"index;not null;size:16"`
	GatewayConsumerID *string `gorm:"uniqueIndex;size:255"`
	RevokedAt         *time.Time `gorm:"index"`
	LastUsedAt        *time.Time
	ExpiresAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (APIKeyModel) TableName() string {
	return "api_keys"
}
