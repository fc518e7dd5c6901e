package subscription

import (
	"fmt"
	"time"
)

// Status mirrors the billing provider's subscription status values.
type Status string

const (
	StatusActive            Status = "active"
	StatusTrialing          Status = "trialing"
	StatusPastDue           Status = "past_due"
	StatusCanceled          Status = "canceled"
	StatusIncomplete        Status = "incomplete"
	StatusIncompleteExpired Status = "incomplete_expired"
	StatusUnpaid            Status = "unpaid"
)

// ValidStatuses enumerates the allowed status values.
var ValidStatuses = map[Status]bool{
	StatusActive:            true,
	StatusTrialing:          true,
	StatusPastDue:           true,
	StatusCanceled:          true,
	StatusIncomplete:        true,
	StatusIncompleteExpired: true,
	StatusUnpaid:            true,
}

// Subscription binds one account to one plan and mirrors the provider's
// subscription state. The provider subscription reference is its stable
// external identity. State is mutated locally only as an optimistic echo of
// provider-side changes; the durable truth arrives via webhook
// reconciliation.
type Subscription struct {
	id                   uint
	accountID            uint
	planID               uint
	stripeSubscriptionID string
	stripePriceID        *string
	status               Status
	currentPeriodStart   *time.Time
	currentPeriodEnd     *time.Time
	cancelAtPeriodEnd    bool
	canceledAt           *time.Time
	endedAt              *time.Time
	scheduledPlanID      *uint
	scheduledChangeDate  *time.Time
	createdAt            time.Time
	updatedAt            time.Time
}

// NewSubscription creates a local record for a provider subscription created
// through the checkout flow. Period bounds may be nil only while the
// subscription is incomplete (payment not yet confirmed).
func NewSubscription(accountID, planID uint, stripeSubscriptionID string, status Status, periodStart, periodEnd *time.Time) (*Subscription, error) {
	if accountID == 0 {
		return nil, fmt.Errorf("account ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if stripeSubscriptionID == "" {
		return nil, fmt.Errorf("provider subscription ID is required")
	}
	if !ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if (periodStart == nil || periodEnd == nil) && status != StatusIncomplete {
		return nil, fmt.Errorf("period bounds are required for status %s", status)
	}

	now := time.Now()
	return &Subscription{
		accountID:            accountID,
		planID:               planID,
		stripeSubscriptionID: stripeSubscriptionID,
		status:               status,
		currentPeriodStart:   periodStart,
		currentPeriodEnd:     periodEnd,
		createdAt:            now,
		updatedAt:            now,
	}, nil
}

// ReconstructSubscription reconstructs a subscription from persistence.
func ReconstructSubscription(
	id, accountID, planID uint,
	stripeSubscriptionID string,
	stripePriceID *string,
	status Status,
	currentPeriodStart, currentPeriodEnd *time.Time,
	cancelAtPeriodEnd bool,
	canceledAt, endedAt *time.Time,
	scheduledPlanID *uint,
	scheduledChangeDate *time.Time,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if accountID == 0 {
		return nil, fmt.Errorf("account ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	return &Subscription{
		id:                   id,
		accountID:            accountID,
		planID:               planID,
		stripeSubscriptionID: stripeSubscriptionID,
		stripePriceID:        stripePriceID,
		status:               status,
		currentPeriodStart:   currentPeriodStart,
		currentPeriodEnd:     currentPeriodEnd,
		cancelAtPeriodEnd:    cancelAtPeriodEnd,
		canceledAt:           canceledAt,
		endedAt:              endedAt,
		scheduledPlanID:      scheduledPlanID,
		scheduledChangeDate:  scheduledChangeDate,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}, nil
}

func (s *Subscription) ID() uint                        { return s.id }
func (s *Subscription) AccountID() uint                 { return s.accountID }
func (s *Subscription) PlanID() uint                    { return s.planID }
func (s *Subscription) StripeSubscriptionID() string    { return s.stripeSubscriptionID }
func (s *Subscription) StripePriceID() *string          { return s.stripePriceID }
func (s *Subscription) Status() Status                  { return s.status }
func (s *Subscription) CurrentPeriodStart() *time.Time  { return s.currentPeriodStart }
func (s *Subscription) CurrentPeriodEnd() *time.Time    { return s.currentPeriodEnd }
func (s *Subscription) CancelAtPeriodEnd() bool         { return s.cancelAtPeriodEnd }
func (s *Subscription) CanceledAt() *time.Time          { return s.canceledAt }
func (s *Subscription) EndedAt() *time.Time             { return s.endedAt }
func (s *Subscription) ScheduledPlanID() *uint          { return s.scheduledPlanID }
func (s *Subscription) ScheduledChangeDate() *time.Time { return s.scheduledChangeDate }
func (s *Subscription) CreatedAt() time.Time            { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time            { return s.updatedAt }

func (s *Subscription) IsActive() bool   { return s.status == StatusActive }
func (s *Subscription) IsTrialing() bool { return s.status == StatusTrialing }
func (s *Subscription) IsCanceled() bool { return s.status == StatusCanceled }

// IsCurrent reports whether the subscription grants access right now.
func (s *Subscription) IsCurrent() bool {
	return s.status == StatusActive || s.status == StatusTrialing
}

// SetID assigns the persistence identity after the initial insert.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// SetStripePriceID records the provider price currently backing the
// subscription.
func (s *Subscription) SetStripePriceID(priceID string) {
	s.stripePriceID = &priceID
	s.updatedAt = time.Now()
}

// ApplyRemoteState overwrites the mirrored fields with a provider snapshot.
// Last write wins per field; out-of-order deliveries are an accepted gap, so
// no sequencing is attempted here. Absent period bounds are valid (the
// provider omits them for incomplete subscriptions).
func (s *Subscription) ApplyRemoteState(status Status, periodStart, periodEnd *time.Time, cancelAtPeriodEnd bool) error {
	if !ValidStatuses[status] {
		return fmt.Errorf("invalid subscription status: %s", status)
	}
	s.status = status
	s.currentPeriodStart = periodStart
	s.currentPeriodEnd = periodEnd
	s.cancelAtPeriodEnd = cancelAtPeriodEnd
	s.updatedAt = time.Now()
	return nil
}

// MarkDeleted applies a provider deletion event: status is forced to
// canceled and the ended time is stamped from the remote value, or now when
// the provider omitted it.
func (s *Subscription) MarkDeleted(remoteEndedAt *time.Time) {
	now := time.Now()
	ended := remoteEndedAt
	if ended == nil {
		ended = &now
	}
	s.status = StatusCanceled
	s.endedAt = ended
	s.updatedAt = now
}

// CancelAtPeriodEndRequested flags the subscription to lapse at the end of
// the current period. The provider confirms via a later notification.
func (s *Subscription) CancelAtPeriodEndRequested() {
	now := time.Now()
	s.cancelAtPeriodEnd = true
	s.canceledAt = &now
	s.updatedAt = now
}

// CancelImmediately terminates the subscription locally following an
// immediate provider-side cancellation.
func (s *Subscription) CancelImmediately() {
	now := time.Now()
	s.status = StatusCanceled
	s.canceledAt = &now
	s.endedAt = &now
	s.updatedAt = now
}

// Reactivate clears a pending period-end cancellation.
func (s *Subscription) Reactivate() {
	if !s.cancelAtPeriodEnd {
		return
	}
	s.cancelAtPeriodEnd = false
	s.canceledAt = nil
	s.updatedAt = time.Now()
}

// ChangePlan repoints the subscription at a new plan and provider price.
func (s *Subscription) ChangePlan(newPlanID uint, newPriceID string) error {
	if newPlanID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	if newPriceID == "" {
		return fmt.Errorf("provider price ID is required")
	}
	s.planID = newPlanID
	s.stripePriceID = &newPriceID
	s.scheduledPlanID = nil
	s.scheduledChangeDate = nil
	s.updatedAt = time.Now()
	return nil
}

// SchedulePlanChange records a plan switch to take effect at period end.
func (s *Subscription) SchedulePlanChange(newPlanID uint) error {
	if newPlanID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	s.scheduledPlanID = &newPlanID
	s.scheduledChangeDate = s.currentPeriodEnd
	s.updatedAt = time.Now()
	return nil
}

// CancelScheduledChange clears a pending scheduled plan switch.
func (s *Subscription) CancelScheduledChange() {
	s.scheduledPlanID = nil
	s.scheduledChangeDate = nil
	s.updatedAt = time.Now()
}
