package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"keygate/internal/domain/invoice"
	"keygate/internal/infrastructure/persistence/models"
	"keygate/internal/shared/logger"
)

type InvoiceRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewInvoiceRepository(db *gorm.DB, logger logger.Interface) invoice.Repository {
	return &InvoiceRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// Upsert writes the invoice mirror keyed by the provider invoice ID. Repeat
// notifications for the same invoice update the existing row in place.
func (r *InvoiceRepositoryImpl) Upsert(ctx context.Context, inv *invoice.Invoice) error {
	model := r.toModel(inv)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_invoice_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_id",
			"number",
			"status",
			"amount_due_cents",
			"amount_paid_cents",
			"currency",
			"period_start",
			"period_end",
			"due_date",
			"paid_at",
			"hosted_invoice_url",
			"invoice_pdf_url",
			"updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert invoice",
			"error", err,
			"stripe_invoice_id", inv.StripeInvoiceID(),
		)
		return fmt.Errorf("failed to upsert invoice: %w", err)
	}

	if inv.ID() == 0 && model.ID != 0 {
		if err := inv.SetID(model.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *InvoiceRepositoryImpl) GetByStripeInvoiceID(ctx context.Context, stripeInvoiceID string) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("stripe_invoice_id = ?", stripeInvoiceID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get invoice by provider ID", "error", err, "stripe_invoice_id", stripeInvoiceID)
		return nil, fmt.Errorf("failed to get invoice by provider ID: %w", err)
	}

	return r.toEntity(&model)
}

func (r *InvoiceRepositoryImpl) ListByAccountID(ctx context.Context, accountID uint) ([]*invoice.Invoice, error) {
	var modelList []models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list invoices", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]*invoice.Invoice, 0, len(modelList))
	for i := range modelList {
		inv, err := r.toEntity(&modelList[i])
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func (r *InvoiceRepositoryImpl) toModel(inv *invoice.Invoice) *models.InvoiceModel {
	return &models.InvoiceModel{
		ID:               inv.ID(),
		AccountID:        inv.AccountID(),
		SubscriptionID:   inv.SubscriptionID(),
		StripeInvoiceID:  inv.StripeInvoiceID(),
		Number:           inv.Number(),
		Status:           inv.Status(),
		AmountDueCents:   inv.AmountDueCents(),
		AmountPaidCents:  inv.AmountPaidCents(),
		Currency:         inv.Currency(),
		PeriodStart:      inv.PeriodStart(),
		PeriodEnd:        inv.PeriodEnd(),
		DueDate:          inv.DueDate(),
		PaidAt:           inv.PaidAt(),
		HostedInvoiceURL: inv.HostedInvoiceURL(),
		InvoicePDFURL:    inv.InvoicePDFURL(),
		CreatedAt:        inv.CreatedAt(),
		UpdatedAt:        inv.UpdatedAt(),
	}
}

func (r *InvoiceRepositoryImpl) toEntity(model *models.InvoiceModel) (*invoice.Invoice, error) {
	return invoice.ReconstructInvoice(
		model.ID,
		model.AccountID,
		model.SubscriptionID,
		model.StripeInvoiceID,
		model.Number,
		model.Status,
		model.AmountDueCents,
		model.AmountPaidCents,
		model.Currency,
		model.PeriodStart,
		model.PeriodEnd,
		model.DueDate,
		model.PaidAt,
		model.HostedInvoiceURL,
		model.InvoicePDFURL,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
