package usecases

import (
	"context"
	"errors"

	"keygate/internal/domain/account"
	"keygate/internal/domain/invoice"
	"keygate/internal/domain/subscription"
)

type fakeSubscriptionRepo struct {
	byStripeID map[string]*subscription.Subscription
	updated    []*subscription.Subscription
	updateErr  error
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byStripeID: map[string]*subscription.Subscription{}}
}

func (f *fakeSubscriptionRepo) add(sub *subscription.Subscription) {
	f.byStripeID[sub.StripeSubscriptionID()] = sub
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	f.byStripeID[sub.StripeSubscriptionID()] = sub
	return nil
}

func (f *fakeSubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	for _, sub := range f.byStripeID {
		if sub.ID() == id {
			return sub, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) GetByStripeSubscriptionID(ctx context.Context, stripeID string) (*subscription.Subscription, error) {
	return f.byStripeID[stripeID], nil
}

func (f *fakeSubscriptionRepo) GetCurrentByAccountID(ctx context.Context, accountID uint) (*subscription.Subscription, error) {
	for _, sub := range f.byStripeID {
		if sub.AccountID() == accountID && sub.IsCurrent() {
			return sub, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) ListByAccountID(ctx context.Context, accountID uint) ([]*subscription.Subscription, error) {
	var subs []*subscription.Subscription
	for _, sub := range f.byStripeID {
		if sub.AccountID() == accountID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (f *fakeSubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, sub)
	return nil
}

type fakeAccountRepo struct {
	byCustomerID map[string]*account.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byCustomerID: map[string]*account.Account{}}
}

func (f *fakeAccountRepo) add(customerID string, acct *account.Account) {
	f.byCustomerID[customerID] = acct
}

func (f *fakeAccountRepo) Create(ctx context.Context, acct *account.Account) error { return nil }

func (f *fakeAccountRepo) GetByID(ctx context.Context, id uint) (*account.Account, error) {
	for _, acct := range f.byCustomerID {
		if acct.ID() == id {
			return acct, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) GetByStripeCustomerID(ctx context.Context, customerID string) (*account.Account, error) {
	return f.byCustomerID[customerID], nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, acct *account.Account) error { return nil }

type fakeInvoiceRepo struct {
	byStripeID map[string]*invoice.Invoice
	upserted   []*invoice.Invoice
	upsertErr  error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{byStripeID: map[string]*invoice.Invoice{}}
}

func (f *fakeInvoiceRepo) Upsert(ctx context.Context, inv *invoice.Invoice) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.byStripeID[inv.StripeInvoiceID()] = inv
	f.upserted = append(f.upserted, inv)
	return nil
}

func (f *fakeInvoiceRepo) GetByStripeInvoiceID(ctx context.Context, stripeID string) (*invoice.Invoice, error) {
	return f.byStripeID[stripeID], nil
}

func (f *fakeInvoiceRepo) ListByAccountID(ctx context.Context, accountID uint) ([]*invoice.Invoice, error) {
	return nil, nil
}

type fakeLimitSyncer struct {
	syncedAccounts []uint
	err            error
}

func (f *fakeLimitSyncer) SyncAccountRateLimits(ctx context.Context, accountID uint) error {
	f.syncedAccounts = append(f.syncedAccounts, accountID)
	return f.err
}

var errFakeRepo = errors.New("repo failure")
