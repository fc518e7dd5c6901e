package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanModel is the database persistence model for plans.
type PlanModel struct {
	ID              uint    `gorm:"primarykey"`
	UUID            string  `gorm:"uniqueIndex;not null;size:36"`
	Name            string  `gorm:"not null;size:100"`
	Slug            string  `gorm:"uniqueIndex;not null;size:100"`
	RequestsPerHour int     `gorm:"not null"`
	PriceCents      int64   `gorm:"not null;default:0"`
	Currency        string  `gorm:"not null;size:3;default:usd"`
	BillingPeriod   string  `gorm:"not null;size:10"`
	StripePriceID   *string `gorm:"uniqueIndex;size:255"`
	Active          bool    `gorm:"not null;default:true"`
	Public          bool    `gorm:"not null;default:true"`
	Position        int     `gorm:"default:0"`
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PlanModel) TableName() string {
	return "plans"
}

// BeforeCreate assigns the public identifier.
func (p *PlanModel) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}
	return nil
}
