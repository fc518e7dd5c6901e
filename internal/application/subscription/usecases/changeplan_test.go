package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keygate/internal/shared/errors"
	"keygate/internal/shared/logger"
)

func TestChangePlan_SwapsPriceAndSyncsLimits(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	sub := testCurrentSubscription(1, 42, 3, "sub_live")
	subs.currentByAccount[42] = sub
	plans := newFakePlanRepo()
	plans.add(testPaidPlan(5, "scale", "price_scale"))
	pp := newFakePaymentProvider()
	syncer := &fakeLimitSyncer{}

	uc := NewChangePlanUseCase(subs, plans, pp, syncer, logger.NewNoop())

	err := uc.Execute(context.Background(), ChangePlanCommand{AccountID: 42, NewPlanSlug: "scale"})
	require.NoError(t, err)

	assert.Equal(t, "price_scale", pp.priceUpdates["sub_live"])
	assert.Equal(t, uint(5), sub.PlanID())
	require.NotNil(t, sub.StripePriceID())
	assert.Equal(t, "price_scale", *sub.StripePriceID())
	assert.Equal(t, []uint{42}, syncer.synced)
	require.Len(t, subs.updated, 1)
}

func TestChangePlan_SamePlanRefused(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	subs.currentByAccount[42] = testCurrentSubscription(1, 42, 5, "sub_live")
	plans := newFakePlanRepo()
	plans.add(testPaidPlan(5, "scale", "price_scale"))

	uc := NewChangePlanUseCase(subs, plans, newFakePaymentProvider(), nil, logger.NewNoop())

	err := uc.Execute(context.Background(), ChangePlanCommand{AccountID: 42, NewPlanSlug: "scale"})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
}

func TestChangePlan_ProviderFailureLeavesMirrorUntouched(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	sub := testCurrentSubscription(1, 42, 3, "sub_live")
	subs.currentByAccount[42] = sub
	plans := newFakePlanRepo()
	plans.add(testPaidPlan(5, "scale", "price_scale"))
	pp := newFakePaymentProvider()
	pp.updatePriceErr = errProviderDown

	uc := NewChangePlanUseCase(subs, plans, pp, nil, logger.NewNoop())

	err := uc.Execute(context.Background(), ChangePlanCommand{AccountID: 42, NewPlanSlug: "scale"})
	require.Error(t, err)
	assert.Equal(t, uint(3), sub.PlanID())
	assert.Empty(t, subs.updated)
}

func TestChangePlan_SyncFailureDoesNotFail(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	subs.currentByAccount[42] = testCurrentSubscription(1, 42, 3, "sub_live")
	plans := newFakePlanRepo()
	plans.add(testPaidPlan(5, "scale", "price_scale"))
	syncer := &fakeLimitSyncer{err: errProviderDown}

	uc := NewChangePlanUseCase(subs, plans, newFakePaymentProvider(), syncer, logger.NewNoop())

	err := uc.Execute(context.Background(), ChangePlanCommand{AccountID: 42, NewPlanSlug: "scale"})
	assert.NoError(t, err)
	assert.Len(t, syncer.synced, 1)
}

func TestUpdatePaymentMethod(t *testing.T) {
	customerID := "cus_existing"
	accounts := newFakeAccountRepo()
	acct := testAccount(42, &customerID)
	accounts.add(acct)
	pp := newFakePaymentProvider()

	uc := NewUpdatePaymentMethodUseCase(accounts, pp, logger.NewNoop())

	err := uc.Execute(context.Background(), UpdatePaymentMethodCommand{AccountID: 42, PaymentMethodID: "pm_new"})
	require.NoError(t, err)

	assert.Equal(t, []string{"pm_new"}, pp.attached)
	assert.Equal(t, []string{"pm_new"}, pp.defaults)
	require.NotNil(t, acct.PaymentMethodLast4())
	assert.Equal(t, "4242", *acct.PaymentMethodLast4())
}

func TestUpdatePaymentMethod_NoCustomer(t *testing.T) {
	accounts := newFakeAccountRepo()
	accounts.add(testAccount(42, nil))

	uc := NewUpdatePaymentMethodUseCase(accounts, newFakePaymentProvider(), logger.NewNoop())

	err := uc.Execute(context.Background(), UpdatePaymentMethodCommand{AccountID: 42, PaymentMethodID: "pm_new"})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
}
