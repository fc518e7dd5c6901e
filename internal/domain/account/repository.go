package account

import "context"

// Repository persists accounts. Lookups return (nil, nil) when no matching
// row exists.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uint) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*Account, error)
	Update(ctx context.Context, account *Account) error
}
