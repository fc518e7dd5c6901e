// Package payment implements the billing provider contract on top of the
// Stripe API.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"keygate/internal/application/subscription/provider"
	"keygate/internal/shared/config"
	"keygate/internal/shared/logger"
)

// StripeClient implements provider.PaymentProvider against the Stripe API.
type StripeClient struct {
	api    *client.API
	logger logger.Interface
}

func NewStripeClient(cfg *config.StripeConfig, logger logger.Interface) *StripeClient {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeClient{
		api:    api,
		logger: logger,
	}
}

func (c *StripeClient) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx

	customer, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return customer.ID, nil
}

func (c *StripeClient) RetrieveCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	customer, err := c.api.Customers.Get(customerID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}
	return customer, nil
}

func (c *StripeClient) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	if _, err := c.api.PaymentMethods.Attach(paymentMethodID, params); err != nil {
		return fmt.Errorf("failed to attach payment method: %w", err)
	}
	return nil
}

func (c *StripeClient) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx

	if _, err := c.api.Customers.Update(customerID, params); err != nil {
		return fmt.Errorf("failed to set default payment method: %w", err)
	}
	return nil
}

func (c *StripeClient) GetPaymentMethodSummary(ctx context.Context, paymentMethodID string) (*provider.PaymentMethodSummary, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx

	pm, err := c.api.PaymentMethods.Get(paymentMethodID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}

	summary := &provider.PaymentMethodSummary{Type: string(pm.Type)}
	if pm.Card != nil {
		summary.Type = string(pm.Card.Brand)
		summary.Last4 = pm.Card.Last4
		summary.Expiry = fmt.Sprintf("%02d/%d", pm.Card.ExpMonth, pm.Card.ExpYear)
	}
	return summary, nil
}

// CreateSubscription starts a subscription with payment collection deferred
// to the client. The returned client secret confirms the first invoice's
// payment.
func (c *StripeClient) CreateSubscription(ctx context.Context, customerID, priceID string) (*provider.SubscriptionData, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
	}
	params.Context = ctx
	params.AddExpand("latest_invoice.confirmation_secret")

	sub, err := c.api.Subscriptions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	data := subscriptionData(sub)
	if sub.LatestInvoice != nil && sub.LatestInvoice.ConfirmationSecret != nil {
		data.ClientSecret = sub.LatestInvoice.ConfirmationSecret.ClientSecret
	}

	c.logger.Infow("provider subscription created",
		"stripe_subscription_id", sub.ID,
		"customer_id", customerID,
		"status", sub.Status,
	)
	return data, nil
}

// UpdateSubscriptionPrice swaps the single subscription item to a new price
// with prorations.
func (c *StripeClient) UpdateSubscriptionPrice(ctx context.Context, subscriptionID, newPriceID string) (*provider.SubscriptionData, error) {
	getParams := &stripe.SubscriptionParams{}
	getParams.Context = ctx

	current, err := c.api.Subscriptions.Get(subscriptionID, getParams)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if len(current.Items.Data) == 0 {
		return nil, fmt.Errorf("subscription %s has no items", subscriptionID)
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(current.Items.Data[0].ID),
				Price: stripe.String(newPriceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}
	params.Context = ctx

	updated, err := c.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription price: %w", err)
	}

	c.logger.Infow("provider subscription price updated",
		"stripe_subscription_id", subscriptionID,
		"price_id", newPriceID,
	)
	return subscriptionData(updated), nil
}

func (c *StripeClient) CancelSubscription(ctx context.Context, subscriptionID string, immediately bool) (*provider.SubscriptionData, error) {
	var sub *stripe.Subscription
	var err error

	if immediately {
		params := &stripe.SubscriptionCancelParams{}
		params.Context = ctx
		sub, err = c.api.Subscriptions.Cancel(subscriptionID, params)
	} else {
		params := &stripe.SubscriptionParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		}
		params.Context = ctx
		sub, err = c.api.Subscriptions.Update(subscriptionID, params)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	c.logger.Infow("provider subscription canceled",
		"stripe_subscription_id", subscriptionID,
		"immediately", immediately,
	)
	return subscriptionData(sub), nil
}

func (c *StripeClient) RetrievePrice(ctx context.Context, priceID string) (*stripe.Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx

	price, err := c.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve price: %w", err)
	}
	return price, nil
}

// CreatePrice registers a recurring monthly price for a product. Used by
// plan tooling, not the request path.
func (c *StripeClient) CreatePrice(ctx context.Context, productID, currency string, unitAmountCents int64) (*stripe.Price, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		Currency:   stripe.String(currency),
		UnitAmount: stripe.Int64(unitAmountCents),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String("month"),
		},
	}
	params.Context = ctx

	price, err := c.api.Prices.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create price: %w", err)
	}

	c.logger.Infow("provider price created", "price_id", price.ID, "product_id", productID)
	return price, nil
}

// ArchivePrice deactivates a price so new subscriptions cannot use it.
// Existing subscriptions keep billing against it.
func (c *StripeClient) ArchivePrice(ctx context.Context, priceID string) error {
	params := &stripe.PriceParams{
		Active: stripe.Bool(false),
	}
	params.Context = ctx

	if _, err := c.api.Prices.Update(priceID, params); err != nil {
		return fmt.Errorf("failed to archive price: %w", err)
	}

	c.logger.Infow("provider price archived", "price_id", priceID)
	return nil
}

// subscriptionData maps the Stripe subscription to the provider-neutral
// shape. Billing period bounds live on the subscription item.
func subscriptionData(sub *stripe.Subscription) *provider.SubscriptionData {
	data := &provider.SubscriptionData{
		ID:     sub.ID,
		Status: string(sub.Status),
	}

	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		data.PeriodStart = unixToTime(item.CurrentPeriodStart)
		data.PeriodEnd = unixToTime(item.CurrentPeriodEnd)
		if item.Price != nil {
			data.PriceID = item.Price.ID
		}
	}
	return data
}

func unixToTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
