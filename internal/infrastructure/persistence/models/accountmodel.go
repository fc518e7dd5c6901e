package models

import (
	"time"
)

// AccountModel is the database persistence model for accounts. This is the
// anti-corruption layer between domain and database.
type AccountModel struct {
	ID                  uint    `gorm:"primarykey"`
	Email               string  `gorm:"uniqueIndex;not null;size:255"`
	Name                string  `gorm:"not null;size:255"`
	StripeCustomerID    *string `gorm:"uniqueIndex;size:255"`
	PaymentMethodType   *string `gorm:"size:50"`
	PaymentMethodLast4  *string `gorm:"size:4"`
	PaymentMethodExpiry *string `gorm:"size:10"`
	Status              string  `gorm:"not null;size:20;default:active"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (AccountModel) TableName() string {
	return "accounts"
}
