package subscription

import (
	"fmt"
	"time"
)

// BillingPeriod is the plan billing interval.
type BillingPeriod string

const (
	BillingPeriodMonth BillingPeriod = "month"
	BillingPeriodYear  BillingPeriod = "year"
)

func (b BillingPeriod) IsValid() bool {
	return b == BillingPeriodMonth || b == BillingPeriodYear
}

// Plan is a purchasable tier. Prices are integer minor currency units. Free
// plans carry no provider price reference. Once a price reference backs live
// subscriptions it must not be silently repointed; price migration is an
// explicit administrative operation outside this module.
type Plan struct {
	id              uint
	uuid            string
	name            string
	slug            string
	requestsPerHour int
	priceCents      int64
	currency        string
	billingPeriod   BillingPeriod
	stripePriceID   *string
	active          bool
	public          bool
	position        int
	deletedAt       *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPlan creates a new plan.
func NewPlan(name, slug string, requestsPerHour int, priceCents int64, currency string, billingPeriod BillingPeriod) (*Plan, error) {
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("plan slug is required")
	}
	if requestsPerHour <= 0 {
		return nil, fmt.Errorf("requests per hour must be positive")
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}
	if currency == "" {
		currency = "usd"
	}
	if !billingPeriod.IsValid() {
		return nil, fmt.Errorf("invalid billing period: %s", billingPeriod)
	}

	now := time.Now()
	return &Plan{
		name:            name,
		slug:            slug,
		requestsPerHour: requestsPerHour,
		priceCents:      priceCents,
		currency:        currency,
		billingPeriod:   billingPeriod,
		active:          true,
		public:          true,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructPlan reconstructs a plan from persistence.
func ReconstructPlan(
	id uint,
	uuid, name, slug string,
	requestsPerHour int,
	priceCents int64,
	currency string,
	billingPeriod BillingPeriod,
	stripePriceID *string,
	active, public bool,
	position int,
	deletedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if slug == "" {
		return nil, fmt.Errorf("plan slug is required")
	}
	if !billingPeriod.IsValid() {
		return nil, fmt.Errorf("invalid billing period: %s", billingPeriod)
	}

	return &Plan{
		id:              id,
		uuid:            uuid,
		name:            name,
		slug:            slug,
		requestsPerHour: requestsPerHour,
		priceCents:      priceCents,
		currency:        currency,
		billingPeriod:   billingPeriod,
		stripePriceID:   stripePriceID,
		active:          active,
		public:          public,
		position:        position,
		deletedAt:       deletedAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (p *Plan) ID() uint                     { return p.id }
func (p *Plan) UUID() string                 { return p.uuid }
func (p *Plan) Name() string                 { return p.name }
func (p *Plan) Slug() string                 { return p.slug }
func (p *Plan) RequestsPerHour() int         { return p.requestsPerHour }
func (p *Plan) PriceCents() int64            { return p.priceCents }
func (p *Plan) Currency() string             { return p.currency }
func (p *Plan) BillingPeriod() BillingPeriod { return p.billingPeriod }
func (p *Plan) StripePriceID() *string       { return p.stripePriceID }
func (p *Plan) Active() bool                 { return p.active }
func (p *Plan) Public() bool                 { return p.public }
func (p *Plan) Position() int                { return p.position }
func (p *Plan) DeletedAt() *time.Time        { return p.deletedAt }
func (p *Plan) CreatedAt() time.Time         { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time         { return p.updatedAt }

// SetID assigns the persistence identity after the initial insert.
func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

// SetUUID records the persistence-assigned public identifier.
func (p *Plan) SetUUID(uuid string) {
	p.uuid = uuid
}

func (p *Plan) IsFree() bool { return p.priceCents == 0 }

// IsActive reports whether the plan is live (not deprecated or deleted).
func (p *Plan) IsActive() bool { return p.active && p.deletedAt == nil }

// IsAvailable reports whether the plan can be offered to new subscribers.
func (p *Plan) IsAvailable() bool { return p.IsActive() && p.public }

// SetStripePriceID associates the provider price backing paid checkouts.
func (p *Plan) SetStripePriceID(priceID string) error {
	if priceID == "" {
		return fmt.Errorf("provider price ID is required")
	}
	p.stripePriceID = &priceID
	p.updatedAt = time.Now()
	return nil
}

// Grandfather keeps the plan live for existing subscribers but hides it from
// new signups.
func (p *Plan) Grandfather() {
	p.public = false
	p.updatedAt = time.Now()
}

// SoftDelete retires the plan entirely.
func (p *Plan) SoftDelete() {
	now := time.Now()
	p.active = false
	p.public = false
	p.deletedAt = &now
	p.updatedAt = now
}
