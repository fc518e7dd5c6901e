package invoice

import "context"

// Repository persists invoice mirrors. Upsert is keyed by the provider
// invoice reference and must be safe to run repeatedly with the same
// snapshot.
type Repository interface {
	Upsert(ctx context.Context, invoice *Invoice) error
	GetByStripeInvoiceID(ctx context.Context, stripeInvoiceID string) (*Invoice, error)
	ListByAccountID(ctx context.Context, accountID uint) ([]*Invoice, error)
}
