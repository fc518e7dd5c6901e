package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"

	billingusecases "keygate/internal/application/billing/usecases"
	"keygate/internal/domain/billing"
	"keygate/internal/shared/logger"
)

// maxWebhookBodyBytes caps the request body read for signature verification.
const maxWebhookBodyBytes = 1 << 20

type eventProcessor interface {
	Execute(ctx context.Context, cmd billingusecases.ProcessEventCommand) error
}

// WebhookHandler receives billing provider notifications. After the
// signature check every delivery is acknowledged with 200: the event record
// carries the processing outcome, and a retried delivery of a settled event
// is acknowledged without running handlers again. A recorded event still
// pending is dispatched again; handlers are idempotent, so a redelivery
// whose first outcome write was lost converges instead of sticking.
type WebhookHandler struct {
	eventRepo     billing.EventRepository
	processor     eventProcessor
	webhookSecret string
	logger        logger.Interface
}

func NewWebhookHandler(
	eventRepo billing.EventRepository,
	processor eventProcessor,
	webhookSecret string,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		eventRepo:     eventRepo,
		processor:     processor,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// HandleStripeWebhook handles POST /webhooks/stripe.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	signedEvent, err := webhook.ConstructEventWithOptions(
		body,
		c.GetHeader("Stripe-Signature"),
		h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.logger.Warnw("webhook signature verification failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	event, err := billing.NewEvent(signedEvent.ID, string(signedEvent.Type), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	stored, alreadyRecorded, err := h.eventRepo.Record(c.Request.Context(), event)
	if err != nil {
		h.logger.Errorw("failed to record webhook event", "error", err, "event_id", signedEvent.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record event"})
		return
	}
	if alreadyRecorded && stored.Status() != billing.EventStatusPending {
		h.logger.Infow("duplicate webhook delivery acknowledged",
			"event_id", stored.EventID(),
			"status", stored.Status(),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.processor.Execute(c.Request.Context(), billingusecases.ProcessEventCommand{Event: stored}); err != nil {
		h.logger.Errorw("webhook event processing failed",
			"error", err,
			"event_id", stored.EventID(),
			"kind", stored.Kind(),
		)
		stored.MarkFailed(err)
	} else {
		stored.MarkProcessed()
	}

	if err := h.eventRepo.Update(c.Request.Context(), stored); err != nil {
		h.logger.Errorw("failed to persist event outcome", "error", err, "event_id", stored.EventID())
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
