package subscription

import "context"

// Repository persists subscriptions. Lookups return (nil, nil) when no
// matching row exists.
type Repository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error)
	// GetCurrentByAccountID returns the account's newest active or trialing
	// subscription, or (nil, nil) when the account has none.
	GetCurrentByAccountID(ctx context.Context, accountID uint) (*Subscription, error)
	ListByAccountID(ctx context.Context, accountID uint) ([]*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error
}

// PlanRepository persists plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySlug(ctx context.Context, slug string) (*Plan, error)
	GetAvailablePlans(ctx context.Context) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
}
