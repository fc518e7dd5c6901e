package models

import (
	"time"
)

// InvoiceModel is the database persistence model for invoice mirrors.
type InvoiceModel struct {
	ID               uint    `gorm:"primarykey"`
	AccountID        uint    `gorm:"not null;index:idx_account_invoice"`
	SubscriptionID   *uint   `gorm:"index"`
	StripeInvoiceID  string  `gorm:"uniqueIndex;not null;size:255"`
	Number           *string `gorm:"size:100"`
	Status           string  `gorm:"not null;size:30;index:idx_invoice_status"`
	AmountDueCents   int64   `gorm:"not null;default:0"`
	AmountPaidCents  int64   `gorm:"not null;default:0"`
	Currency         string  `gorm:"not null;size:3;default:usd"`
	PeriodStart      *time.Time
	PeriodEnd        *time.Time
	DueDate          *time.Time `gorm:"index"`
	PaidAt           *time.Time
	HostedInvoiceURL *string `gorm:"size:2048"`
	InvoicePDFURL    *string `gorm:"size:2048"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (InvoiceModel) TableName() string {
	return "invoices"
}
