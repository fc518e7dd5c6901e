// Package migration applies gorm schema migrations.
package migration

import (
	"fmt"

	"gorm.io/gorm"

	"keygate/internal/infrastructure/persistence/models"
	"keygate/internal/shared/logger"
)

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.AccountModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.InvoiceModel{},
		&models.APIKeyModel{},
		&models.BillingEventModel{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", table, err)
		}
	}

	logger.Info("database migration completed", "tables", len(tables))
	return nil
}
