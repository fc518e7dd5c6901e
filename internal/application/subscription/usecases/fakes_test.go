package usecases

import (
	"context"
	"errors"
	"time"

	"keygate/internal/application/subscription/provider"
	"keygate/internal/domain/account"
	"keygate/internal/domain/subscription"
)

var errProviderDown = errors.New("provider unavailable")

type fakePaymentProvider struct {
	customers        int
	attached         []string
	defaults         []string
	createdSubs      []string
	priceUpdates     map[string]string
	cancellations    map[string]bool
	createSubErr     error
	cancelErr        error
	updatePriceErr   error
	subscriptionData *provider.SubscriptionData
}

func newFakePaymentProvider() *fakePaymentProvider {
	start := time.Now()
	end := start.Add(30 * 24 * time.Hour)
	return &fakePaymentProvider{
		priceUpdates:  map[string]string{},
		cancellations: map[string]bool{},
		subscriptionData: &provider.SubscriptionData{
			ID:           "sub_new",
			Status:       "incomplete",
			PriceID:      "price_pro",
			PeriodStart:  &start,
			PeriodEnd:    &end,
			ClientSecret: "pi_secret_123",
		},
	}
}

func (f *fakePaymentProvider) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	f.customers++
	return "cus_new", nil
}

func (f *fakePaymentProvider) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	f.attached = append(f.attached, paymentMethodID)
	return nil
}

func (f *fakePaymentProvider) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	f.defaults = append(f.defaults, paymentMethodID)
	return nil
}

func (f *fakePaymentProvider) GetPaymentMethodSummary(ctx context.Context, paymentMethodID string) (*provider.PaymentMethodSummary, error) {
	return &provider.PaymentMethodSummary{Type: "visa", Last4: "4242", Expiry: "12/2030"}, nil
}

func (f *fakePaymentProvider) CreateSubscription(ctx context.Context, customerID, priceID string) (*provider.SubscriptionData, error) {
	if f.createSubErr != nil {
		return nil, f.createSubErr
	}
	f.createdSubs = append(f.createdSubs, priceID)
	return f.subscriptionData, nil
}

func (f *fakePaymentProvider) UpdateSubscriptionPrice(ctx context.Context, subscriptionID, newPriceID string) (*provider.SubscriptionData, error) {
	if f.updatePriceErr != nil {
		return nil, f.updatePriceErr
	}
	f.priceUpdates[subscriptionID] = newPriceID
	return &provider.SubscriptionData{ID: subscriptionID, Status: "active", PriceID: newPriceID}, nil
}

func (f *fakePaymentProvider) CancelSubscription(ctx context.Context, subscriptionID string, immediately bool) (*provider.SubscriptionData, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	f.cancellations[subscriptionID] = immediately
	return &provider.SubscriptionData{ID: subscriptionID, Status: "canceled"}, nil
}

type fakeAccountRepo struct {
	byID    map[uint]*account.Account
	updates int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: map[uint]*account.Account{}}
}

func (f *fakeAccountRepo) add(acct *account.Account) { f.byID[acct.ID()] = acct }

func (f *fakeAccountRepo) Create(ctx context.Context, acct *account.Account) error { return nil }

func (f *fakeAccountRepo) GetByID(ctx context.Context, id uint) (*account.Account, error) {
	return f.byID[id], nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) GetByStripeCustomerID(ctx context.Context, customerID string) (*account.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, acct *account.Account) error {
	f.updates++
	return nil
}

type fakeSubscriptionRepo struct {
	currentByAccount map[uint]*subscription.Subscription
	created          []*subscription.Subscription
	updated          []*subscription.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{currentByAccount: map[uint]*subscription.Subscription{}}
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	_ = sub.SetID(uint(len(f.created) + 1))
	f.created = append(f.created, sub)
	return nil
}

func (f *fakeSubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) GetByStripeSubscriptionID(ctx context.Context, stripeID string) (*subscription.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) GetCurrentByAccountID(ctx context.Context, accountID uint) (*subscription.Subscription, error) {
	return f.currentByAccount[accountID], nil
}

func (f *fakeSubscriptionRepo) ListByAccountID(ctx context.Context, accountID uint) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	f.updated = append(f.updated, sub)
	return nil
}

type fakePlanRepo struct {
	bySlug map[string]*subscription.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{bySlug: map[string]*subscription.Plan{}}
}

func (f *fakePlanRepo) add(plan *subscription.Plan) { f.bySlug[plan.Slug()] = plan }

func (f *fakePlanRepo) Create(ctx context.Context, plan *subscription.Plan) error { return nil }

func (f *fakePlanRepo) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	for _, plan := range f.bySlug {
		if plan.ID() == id {
			return plan, nil
		}
	}
	return nil, nil
}

func (f *fakePlanRepo) GetBySlug(ctx context.Context, slug string) (*subscription.Plan, error) {
	return f.bySlug[slug], nil
}

func (f *fakePlanRepo) GetAvailablePlans(ctx context.Context) ([]*subscription.Plan, error) {
	return nil, nil
}

func (f *fakePlanRepo) Update(ctx context.Context, plan *subscription.Plan) error { return nil }

type fakeLimitSyncer struct {
	synced []uint
	err    error
}

func (f *fakeLimitSyncer) SyncAccountRateLimits(ctx context.Context, accountID uint) error {
	f.synced = append(f.synced, accountID)
	return f.err
}

func testAccount(id uint, customerID *string) *account.Account {
	acct, err := account.ReconstructAccount(
		id, "owner@example.com", "Owner", customerID,
		nil, nil, nil,
		account.StatusActive,
		time.Now(), time.Now(),
	)
	if err != nil {
		panic(err)
	}
	return acct
}

func testPaidPlan(id uint, slug, priceID string) *subscription.Plan {
	plan, err := subscription.ReconstructPlan(
		id, "uuid-"+slug, "Plan "+slug, slug,
		1000, 2900, "usd",
		subscription.BillingPeriodMonth,
		&priceID, true, true, 0, nil,
		time.Now(), time.Now(),
	)
	if err != nil {
		panic(err)
	}
	return plan
}

func testCurrentSubscription(id, accountID, planID uint, stripeID string) *subscription.Subscription {
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(24 * time.Hour)
	sub, err := subscription.ReconstructSubscription(
		id, accountID, planID, stripeID, nil,
		subscription.StatusActive,
		&start, &end,
		false, nil, nil, nil, nil,
		time.Now(), time.Now(),
	)
	if err != nil {
		panic(err)
	}
	return sub
}
