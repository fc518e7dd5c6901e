package apikey

import "context"

// Repository persists API keys. Lookups return (nil, nil) when no matching
// row exists.
type Repository interface {
	Create(ctx context.Context, key *APIKey) error
	GetByID(ctx context.Context, id uint) (*APIKey, error)
	GetByPrefix(ctx context.Context, prefix string) ([]*APIKey, error)
	ListActiveByAccountID(ctx context.Context, accountID uint) ([]*APIKey, error)
	CountByAccountID(ctx context.Context, accountID uint) (int64, error)
	Update(ctx context.Context, key *APIKey) error
}
