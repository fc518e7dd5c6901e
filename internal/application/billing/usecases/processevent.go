package usecases

import (
	"context"
	"fmt"

	"keygate/internal/application/billing/dto"
	"keygate/internal/domain/billing"
	"keygate/internal/shared/logger"
)

// Event kinds the dispatcher routes. Anything else is acknowledged and
// ignored.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventInvoicePaymentOK    = "invoice.payment_succeeded"
	EventInvoicePaymentBad   = "invoice.payment_failed"
	EventInvoiceFinalized    = "invoice.finalized"
)

type ProcessEventCommand struct {
	Event *billing.Event
}

// ProcessEventUseCase routes a recorded provider event to its handler. A
// handler error marks the event failed upstream; an unrecognized kind is
// success.
type ProcessEventUseCase struct {
	reconcileSubscription *ReconcileSubscriptionUseCase
	recordInvoice         *RecordInvoiceUseCase
	logger                logger.Interface
}

func NewProcessEventUseCase(
	reconcileSubscription *ReconcileSubscriptionUseCase,
	recordInvoice *RecordInvoiceUseCase,
	logger logger.Interface,
) *ProcessEventUseCase {
	return &ProcessEventUseCase{
		reconcileSubscription: reconcileSubscription,
		recordInvoice:         recordInvoice,
		logger:                logger,
	}
}

func (uc *ProcessEventUseCase) Execute(ctx context.Context, cmd ProcessEventCommand) error {
	event := cmd.Event
	if event == nil {
		return fmt.Errorf("event is required")
	}

	env, err := dto.ParseEnvelope(event.Payload())
	if err != nil {
		return err
	}

	switch event.Kind() {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		snap, err := dto.ParseSubscriptionSnapshot(env.Data.Object)
		if err != nil {
			return err
		}
		return uc.reconcileSubscription.Execute(ctx, ReconcileSubscriptionCommand{
			Snapshot: snap,
			Deleted:  event.Kind() == EventSubscriptionDeleted,
		})

	case EventInvoicePaymentOK, EventInvoicePaymentBad, EventInvoiceFinalized:
		snap, err := dto.ParseInvoiceSnapshot(env.Data.Object)
		if err != nil {
			return err
		}
		return uc.recordInvoice.Execute(ctx, RecordInvoiceCommand{
			Snapshot: snap,
			Outcome:  invoiceOutcomeForKind(event.Kind()),
		})

	default:
		uc.logger.Infow("ignoring unhandled event kind",
			"event_id", event.EventID(),
			"kind", event.Kind(),
		)
		return nil
	}
}

func invoiceOutcomeForKind(kind string) InvoiceOutcome {
	switch kind {
	case EventInvoicePaymentOK:
		return InvoiceOutcomePaid
	case EventInvoicePaymentBad:
		return InvoiceOutcomeFailed
	default:
		return InvoiceOutcomeFinalized
	}
}
