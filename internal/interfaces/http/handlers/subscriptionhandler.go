package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	subusecases "keygate/internal/application/subscription/usecases"
	"keygate/internal/domain/subscription"
	"keygate/internal/interfaces/http/middleware"
	"keygate/internal/shared/logger"
)

type planLister interface {
	GetAvailablePlans(ctx context.Context) ([]*subscription.Plan, error)
}

type currentSubscriptionGetter interface {
	GetCurrentByAccountID(ctx context.Context, accountID uint) (*subscription.Subscription, error)
}

// SubscriptionHandler exposes checkout and subscription management.
type SubscriptionHandler struct {
	createSubscription  *subusecases.CreateSubscriptionUseCase
	cancelSubscription  *subusecases.CancelSubscriptionUseCase
	changePlan          *subusecases.ChangePlanUseCase
	updatePaymentMethod *subusecases.UpdatePaymentMethodUseCase
	planRepo            planLister
	subscriptionRepo    currentSubscriptionGetter
	logger              logger.Interface
}

func NewSubscriptionHandler(
	createSubscription *subusecases.CreateSubscriptionUseCase,
	cancelSubscription *subusecases.CancelSubscriptionUseCase,
	changePlan *subusecases.ChangePlanUseCase,
	updatePaymentMethod *subusecases.UpdatePaymentMethodUseCase,
	planRepo planLister,
	subscriptionRepo currentSubscriptionGetter,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createSubscription:  createSubscription,
		cancelSubscription:  cancelSubscription,
		changePlan:          changePlan,
		updatePaymentMethod: updatePaymentMethod,
		planRepo:            planRepo,
		subscriptionRepo:    subscriptionRepo,
		logger:              logger,
	}
}

type planResponse struct {
	UUID            string `json:"uuid"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	RequestsPerHour int    `json:"requests_per_hour"`
	PriceCents      int64  `json:"price_cents"`
	Currency        string `json:"currency"`
	BillingPeriod   string `json:"billing_period"`
}

// ListPlans handles GET /plans.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.planRepo.GetAvailablePlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]planResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, planResponse{
			UUID:            plan.UUID(),
			Name:            plan.Name(),
			Slug:            plan.Slug(),
			RequestsPerHour: plan.RequestsPerHour(),
			PriceCents:      plan.PriceCents(),
			Currency:        plan.Currency(),
			BillingPeriod:   string(plan.BillingPeriod()),
		})
	}
	c.JSON(http.StatusOK, gin.H{"plans": responses})
}

type subscriptionResponse struct {
	ID                 uint       `json:"id"`
	Status             string     `json:"status"`
	PlanID             uint       `json:"plan_id"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
}

func toSubscriptionResponse(sub *subscription.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:                 sub.ID(),
		Status:             string(sub.Status()),
		PlanID:             sub.PlanID(),
		CurrentPeriodStart: sub.CurrentPeriodStart(),
		CurrentPeriodEnd:   sub.CurrentPeriodEnd(),
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd(),
	}
}

// GetCurrent handles GET /subscription.
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account identity"})
		return
	}

	sub, err := h.subscriptionRepo.GetCurrentByAccountID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no current subscription"})
		return
	}

	c.JSON(http.StatusOK, toSubscriptionResponse(sub))
}

type createSubscriptionRequest struct {
	PlanSlug        string `json:"plan_slug" binding:"required"`
	PaymentMethodID string `json:"payment_method_id"`
}

// Create handles POST /subscription.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account identity"})
		return
	}

	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_slug is required"})
		return
	}

	result, err := h.createSubscription.Execute(c.Request.Context(), subusecases.CreateSubscriptionCommand{
		AccountID:       accountID,
		PlanSlug:        req.PlanSlug,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"subscription": toSubscriptionResponse(result.Subscription)}
	if result.ClientSecret != "" {
		response["client_secret"] = result.ClientSecret
	}
	c.JSON(http.StatusCreated, response)
}

// Cancel handles DELETE /subscription. The immediately query flag skips the
// period-end grace.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account identity"})
		return
	}

	immediately := c.Query("immediately") == "true"
	err := h.cancelSubscription.Execute(c.Request.Context(), subusecases.CancelSubscriptionCommand{
		AccountID:   accountID,
		Immediately: immediately,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"canceled": true, "immediately": immediately})
}

type changePlanRequest struct {
	PlanSlug string `json:"plan_slug" binding:"required"`
}

// ChangePlan handles PUT /subscription/plan.
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account identity"})
		return
	}

	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_slug is required"})
		return
	}

	err := h.changePlan.Execute(c.Request.Context(), subusecases.ChangePlanCommand{
		AccountID:   accountID,
		NewPlanSlug: req.PlanSlug,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"changed": true})
}

type updatePaymentMethodRequest struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

// UpdatePaymentMethod handles PUT /payment-method.
func (h *SubscriptionHandler) UpdatePaymentMethod(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account identity"})
		return
	}

	var req updatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_method_id is required"})
		return
	}

	err := h.updatePaymentMethod.Execute(c.Request.Context(), subusecases.UpdatePaymentMethodCommand{
		AccountID:       accountID,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}
