package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"keygate/internal/domain/billing"
	"keygate/internal/shared/logger"
)

// BillingEventHandler exposes the event audit trail for operators.
type BillingEventHandler struct {
	eventRepo billing.EventRepository
	logger    logger.Interface
}

func NewBillingEventHandler(eventRepo billing.EventRepository, logger logger.Interface) *BillingEventHandler {
	return &BillingEventHandler{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

type billingEventResponse struct {
	ID           uint       `json:"id"`
	EventID      string     `json:"event_id"`
	Kind         string     `json:"kind"`
	Status       string     `json:"status"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// List handles GET /admin/billing-events. Defaults to failed events, the
// list operators actually triage.
func (h *BillingEventHandler) List(c *gin.Context) {
	status := billing.EventStatus(c.DefaultQuery("status", string(billing.EventStatusFailed)))
	if !billing.ValidEventStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	events, err := h.eventRepo.ListByStatus(c.Request.Context(), status, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]billingEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, billingEventResponse{
			ID:           event.ID(),
			EventID:      event.EventID(),
			Kind:         event.Kind(),
			Status:       string(event.Status()),
			ProcessedAt:  event.ProcessedAt(),
			ErrorMessage: event.ErrorMessage(),
			CreatedAt:    event.CreatedAt(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": responses})
}
