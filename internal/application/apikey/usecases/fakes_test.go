package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keygate/internal/application/apikey/gateway"
	"keygate/internal/domain/account"
	"keygate/internal/domain/apikey"
	"keygate/internal/domain/subscription"
)

var (
	errGatewayDown = errors.New("gateway down")
	errFakeStore   = errors.New("store failure")
)

type fakeAPIKeyRepo struct {
	keys      map[uint]*apikey.APIKey
	nextID    uint
	createErr error
	updateErr error
}

func newFakeAPIKeyRepo() *fakeAPIKeyRepo {
	return &fakeAPIKeyRepo{keys: map[uint]*apikey.APIKey{}, nextID: 1}
}

func (f *fakeAPIKeyRepo) Create(ctx context.Context, key *apikey.APIKey) error {
	if f.createErr != nil {
		return f.createErr
	}
	if err := key.SetID(f.nextID); err != nil {
		return err
	}
	f.keys[f.nextID] = key
	f.nextID++
	return nil
}

func (f *fakeAPIKeyRepo) GetByID(ctx context.Context, id uint) (*apikey.APIKey, error) {
	return f.keys[id], nil
}

func (f *fakeAPIKeyRepo) GetByPrefix(ctx context.Context, prefix string) ([]*apikey.APIKey, error) {
	var out []*apikey.APIKey
	for _, key := range f.keys {
		if key.KeyPrefix() == prefix && key.RevokedAt() == nil {
			out = append(out, key)
		}
	}
	return out, nil
}

func (f *fakeAPIKeyRepo) ListActiveByAccountID(ctx context.Context, accountID uint) ([]*apikey.APIKey, error) {
	var out []*apikey.APIKey
	for _, key := range f.keys {
		if key.AccountID() == accountID && key.RevokedAt() == nil {
			out = append(out, key)
		}
	}
	return out, nil
}

func (f *fakeAPIKeyRepo) CountByAccountID(ctx context.Context, accountID uint) (int64, error) {
	keys, _ := f.ListActiveByAccountID(ctx, accountID)
	return int64(len(keys)), nil
}

func (f *fakeAPIKeyRepo) Update(ctx context.Context, key *apikey.APIKey) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.keys[key.ID()] = key
	return nil
}

type ensureCall struct {
	params gateway.EnsureConsumerParams
}

type fakeConsumerGateway struct {
	ensured        []ensureCall
	deleted        []string
	limitUpdates   map[string]int
	ensureErr      error
	deleteErr      error
	updateLimitErr map[string]error
}

func newFakeConsumerGateway() *fakeConsumerGateway {
	return &fakeConsumerGateway{
		limitUpdates:   map[string]int{},
		updateLimitErr: map[string]error{},
	}
}

func (f *fakeConsumerGateway) EnsureConsumer(ctx context.Context, params gateway.EnsureConsumerParams) error {
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.ensured = append(f.ensured, ensureCall{params: params})
	return nil
}

func (f *fakeConsumerGateway) GetConsumer(ctx context.Context, username string) (*gateway.Consumer, bool, error) {
	return nil, false, nil
}

func (f *fakeConsumerGateway) UpdateRateLimit(ctx context.Context, username string, requestsPerHour int) error {
	if err := f.updateLimitErr[username]; err != nil {
		return err
	}
	f.limitUpdates[username] = requestsPerHour
	return nil
}

func (f *fakeConsumerGateway) DeleteConsumer(ctx context.Context, username string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, username)
	return nil
}

type fakeAccountRepo struct {
	byID map[uint]*account.Account
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

func (f *fakeAccountRepo) Update(ctx context.Context, acct *account.Account) error { return nil }

type fakeSubscriptionRepo struct {
	currentByAccount map[uint]*subscription.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{currentByAccount: map[uint]*subscription.Subscription{}}
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
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
	return nil
}

type fakePlanRepo struct {
	byID map[uint]*subscription.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{byID: map[uint]*subscription.Plan{}}
}

func (f *fakePlanRepo) Create(ctx context.Context, plan *subscription.Plan) error { return nil }

func (f *fakePlanRepo) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	return f.byID[id], nil
}

func (f *fakePlanRepo) GetBySlug(ctx context.Context, slug string) (*subscription.Plan, error) {
	return nil, nil
}

func (f *fakePlanRepo) GetAvailablePlans(ctx context.Context) ([]*subscription.Plan, error) {
	return nil, nil
}

func (f *fakePlanRepo) Update(ctx context.Context, plan *subscription.Plan) error { return nil }

func testAccount(id uint) *account.Account {
	acct, err := account.ReconstructAccount(
		id, "owner@example.com", "Owner", nil,
		nil, nil, nil,
		account.StatusActive,
		time.Now(), time.Now(),
	)
	if err != nil {
		panic(err)
	}
	return acct
}

func testPlan(id uint, requestsPerHour int) *subscription.Plan {
	plan, err := subscription.ReconstructPlan(
		id, fmt.Sprintf("uuid-%d", id), "Pro", "pro",
		requestsPerHour, 2900, "usd",
		subscription.BillingPeriodMonth,
		nil, true, true, 0, nil,
		time.Now(), time.Now(),
	)
	if err != nil {
		panic(err)
	}
	return plan
}

func testCurrentSubscription(accountID, planID uint) *subscription.Subscription {
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(24 * time.Hour)
	sub, err := subscription.ReconstructSubscription(
		1, accountID, planID, "sub_test", nil,
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
