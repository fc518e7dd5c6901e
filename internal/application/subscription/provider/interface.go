// Package provider defines the contract between checkout use cases and the
// billing provider.
package provider

import (
	"context"
	"time"
)

// SubscriptionData is the provider-side subscription state returned by
// mutating calls. ClientSecret is present only while the first payment still
// needs confirmation.
type SubscriptionData struct {
	ID           string
	Status       string
	PriceID      string
	PeriodStart  *time.Time
	PeriodEnd    *time.Time
	ClientSecret string
}

// PaymentMethodSummary is display data for a stored payment method.
type PaymentMethodSummary struct {
	Type   string
	Last4  string
	Expiry string
}

// PaymentProvider wraps the billing provider API surface the checkout flow
// needs. All methods hit the remote API.
type PaymentProvider interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	GetPaymentMethodSummary(ctx context.Context, paymentMethodID string) (*PaymentMethodSummary, error)

	CreateSubscription(ctx context.Context, customerID, priceID string) (*SubscriptionData, error)
	UpdateSubscriptionPrice(ctx context.Context, subscriptionID, newPriceID string) (*SubscriptionData, error)
	CancelSubscription(ctx context.Context, subscriptionID string, immediately bool) (*SubscriptionData, error)
}
