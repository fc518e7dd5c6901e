package usecases

import (
	"context"
	"fmt"

	"keygate/internal/application/billing/dto"
	"keygate/internal/domain/account"
	"keygate/internal/domain/invoice"
	"keygate/internal/domain/subscription"
	"keygate/internal/shared/logger"
)

// InvoiceOutcome selects how an invoice snapshot is applied to the mirror.
type InvoiceOutcome string

const (
	InvoiceOutcomePaid      InvoiceOutcome = "paid"
	InvoiceOutcomeFailed    InvoiceOutcome = "failed"
	InvoiceOutcomeFinalized InvoiceOutcome = "finalized"
)

type RecordInvoiceCommand struct {
	Snapshot *dto.InvoiceSnapshot
	Outcome  InvoiceOutcome
}

// RecordInvoiceUseCase mirrors a provider invoice locally. The provider
// invoice ID keys the upsert, so redelivery converges on one row. An invoice
// for an unknown customer is logged and skipped.
type RecordInvoiceUseCase struct {
	accountRepo      account.Repository
	subscriptionRepo subscription.Repository
	invoiceRepo      invoice.Repository
	logger           logger.Interface
}

func NewRecordInvoiceUseCase(
	accountRepo account.Repository,
	subscriptionRepo subscription.Repository,
	invoiceRepo invoice.Repository,
	logger logger.Interface,
) *RecordInvoiceUseCase {
	return &RecordInvoiceUseCase{
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
		invoiceRepo:      invoiceRepo,
		logger:           logger,
	}
}

func (uc *RecordInvoiceUseCase) Execute(ctx context.Context, cmd RecordInvoiceCommand) error {
	snap := cmd.Snapshot
	if snap == nil {
		return fmt.Errorf("invoice snapshot is required")
	}

	acct, err := uc.accountRepo.GetByStripeCustomerID(ctx, snap.Customer)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if acct == nil {
		uc.logger.Warnw("invoice references unknown customer, skipping",
			"stripe_invoice_id", snap.ID,
			"customer", snap.Customer,
		)
		return nil
	}

	inv, err := uc.invoiceRepo.GetByStripeInvoiceID(ctx, snap.ID)
	if err != nil {
		return fmt.Errorf("failed to load invoice: %w", err)
	}
	if inv == nil {
		status := snap.Status
		if status == "" {
			status = invoice.StatusOpen
		}
		inv, err = invoice.NewInvoice(acct.ID(), snap.ID, status)
		if err != nil {
			return fmt.Errorf("failed to build invoice: %w", err)
		}
	}

	inv.SetDetails(
		snap.Number,
		snap.AmountDue,
		snap.AmountPaid,
		snap.Currency,
		snap.PeriodStart(),
		snap.PeriodEnd(),
		snap.HostedInvoiceURL,
		snap.InvoicePDF,
	)

	if ref := snap.SubscriptionRef(); ref != "" {
		sub, err := uc.subscriptionRepo.GetByStripeSubscriptionID(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to resolve invoice subscription: %w", err)
		}
		if sub != nil {
			subID := sub.ID()
			inv.SetSubscription(&subID)
		}
	}

	switch cmd.Outcome {
	case InvoiceOutcomePaid:
		inv.MarkPaid(snap.PaidAt())
	case InvoiceOutcomeFailed:
		inv.MarkPaymentFailed(snap.DueDate())
	case InvoiceOutcomeFinalized:
		inv.MarkFinalized(snap.Status, snap.DueDate())
	default:
		return fmt.Errorf("unknown invoice outcome: %s", cmd.Outcome)
	}

	if err := uc.invoiceRepo.Upsert(ctx, inv); err != nil {
		return fmt.Errorf("failed to persist invoice: %w", err)
	}

	uc.logger.Infow("invoice recorded",
		"stripe_invoice_id", snap.ID,
		"account_id", acct.ID(),
		"outcome", cmd.Outcome,
		"status", inv.Status(),
	)
	return nil
}
