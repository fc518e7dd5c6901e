package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func periodBounds(t *testing.T) (*time.Time, *time.Time) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return &start, &end
}

func newActiveSubscription(t *testing.T) *Subscription {
	t.Helper()
	start, end := periodBounds(t)
	sub, err := NewSubscription(1, 2, "sub_123", StatusActive, start, end)
	require.NoError(t, err)
	return sub
}

func TestNewSubscription_ValidInput(t *testing.T) {
	sub := newActiveSubscription(t)

	assert.Equal(t, uint(1), sub.AccountID())
	assert.Equal(t, uint(2), sub.PlanID())
	assert.Equal(t, "sub_123", sub.StripeSubscriptionID())
	assert.Equal(t, StatusActive, sub.Status())
	assert.True(t, sub.IsCurrent())
	assert.False(t, sub.CancelAtPeriodEnd())
	assert.NotNil(t, sub.CurrentPeriodStart())
	assert.NotNil(t, sub.CurrentPeriodEnd())
}

func TestNewSubscription_IncompleteWithoutBounds(t *testing.T) {
	sub, err := NewSubscription(1, 2, "sub_123", StatusIncomplete, nil, nil)

	require.NoError(t, err)
	assert.Nil(t, sub.CurrentPeriodStart())
	assert.Nil(t, sub.CurrentPeriodEnd())
}

func TestNewSubscription_ActiveWithoutBounds(t *testing.T) {
	sub, err := NewSubscription(1, 2, "sub_123", StatusActive, nil, nil)

	assert.Error(t, err)
	assert.Nil(t, sub)
}

func TestNewSubscription_InvalidStatus(t *testing.T) {
	start, end := periodBounds(t)
	sub, err := NewSubscription(1, 2, "sub_123", "paused", start, end)

	assert.Error(t, err)
	assert.Nil(t, sub)
}

func TestNewSubscription_MissingExternalID(t *testing.T) {
	start, end := periodBounds(t)
	sub, err := NewSubscription(1, 2, "", StatusActive, start, end)

	assert.Error(t, err)
	assert.Nil(t, sub)
}

func TestApplyRemoteState_OverwritesMirroredFields(t *testing.T) {
	sub := newActiveSubscription(t)
	newStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	newEnd := newStart.AddDate(0, 1, 0)

	err := sub.ApplyRemoteState(StatusPastDue, &newStart, &newEnd, true)

	require.NoError(t, err)
	assert.Equal(t, StatusPastDue, sub.Status())
	assert.Equal(t, newStart, *sub.CurrentPeriodStart())
	assert.Equal(t, newEnd, *sub.CurrentPeriodEnd())
	assert.True(t, sub.CancelAtPeriodEnd())
}

func TestApplyRemoteState_Idempotent(t *testing.T) {
	sub := newActiveSubscription(t)
	start, end := periodBounds(t)

	require.NoError(t, sub.ApplyRemoteState(StatusActive, start, end, false))
	firstStatus := sub.Status()
	firstStart := *sub.CurrentPeriodStart()
	firstEnd := *sub.CurrentPeriodEnd()

	require.NoError(t, sub.ApplyRemoteState(StatusActive, start, end, false))

	assert.Equal(t, firstStatus, sub.Status())
	assert.Equal(t, firstStart, *sub.CurrentPeriodStart())
	assert.Equal(t, firstEnd, *sub.CurrentPeriodEnd())
}

func TestApplyRemoteState_RejectsUnknownStatus(t *testing.T) {
	sub := newActiveSubscription(t)

	err := sub.ApplyRemoteState("resumed", nil, nil, false)

	assert.Error(t, err)
	assert.Equal(t, StatusActive, sub.Status())
}

func TestMarkDeleted_WithRemoteEndedAt(t *testing.T) {
	sub := newActiveSubscription(t)
	ended := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	sub.MarkDeleted(&ended)

	assert.Equal(t, StatusCanceled, sub.Status())
	require.NotNil(t, sub.EndedAt())
	assert.Equal(t, ended, *sub.EndedAt())
}

func TestMarkDeleted_WithoutRemoteEndedAt(t *testing.T) {
	sub := newActiveSubscription(t)
	before := time.Now()

	sub.MarkDeleted(nil)

	assert.Equal(t, StatusCanceled, sub.Status())
	require.NotNil(t, sub.EndedAt())
	assert.False(t, sub.EndedAt().Before(before))
}

func TestCancelAtPeriodEndRequested(t *testing.T) {
	sub := newActiveSubscription(t)

	sub.CancelAtPeriodEndRequested()

	assert.True(t, sub.CancelAtPeriodEnd())
	assert.NotNil(t, sub.CanceledAt())
	// Still active until the provider confirms the lapse.
	assert.Equal(t, StatusActive, sub.Status())
}

func TestCancelImmediately(t *testing.T) {
	sub := newActiveSubscription(t)

	sub.CancelImmediately()

	assert.Equal(t, StatusCanceled, sub.Status())
	assert.NotNil(t, sub.CanceledAt())
	assert.NotNil(t, sub.EndedAt())
}

func TestReactivate(t *testing.T) {
	sub := newActiveSubscription(t)
	sub.CancelAtPeriodEndRequested()

	sub.Reactivate()

	assert.False(t, sub.CancelAtPeriodEnd())
	assert.Nil(t, sub.CanceledAt())
}

func TestReactivate_NoopWithoutPendingCancel(t *testing.T) {
	sub := newActiveSubscription(t)

	sub.Reactivate()

	assert.False(t, sub.CancelAtPeriodEnd())
}

func TestChangePlan(t *testing.T) {
	sub := newActiveSubscription(t)
	require.NoError(t, sub.SchedulePlanChange(9))

	err := sub.ChangePlan(5, "price_new")

	require.NoError(t, err)
	assert.Equal(t, uint(5), sub.PlanID())
	require.NotNil(t, sub.StripePriceID())
	assert.Equal(t, "price_new", *sub.StripePriceID())
	assert.Nil(t, sub.ScheduledPlanID())
	assert.Nil(t, sub.ScheduledChangeDate())
}

func TestSchedulePlanChange(t *testing.T) {
	sub := newActiveSubscription(t)

	require.NoError(t, sub.SchedulePlanChange(7))

	require.NotNil(t, sub.ScheduledPlanID())
	assert.Equal(t, uint(7), *sub.ScheduledPlanID())
	assert.Equal(t, sub.CurrentPeriodEnd(), sub.ScheduledChangeDate())
}
