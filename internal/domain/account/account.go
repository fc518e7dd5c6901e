package account

import (
	"fmt"
	"strings"
	"time"
)

// Account represents a paying entity. The billing provider customer
// reference, once set, is immutable identity for the account's provider-side
// resources.
type Account struct {
	id                  uint
	email               string
	name                string
	stripeCustomerID    *string
	paymentMethodType   *string
	paymentMethodLast4  *string
	paymentMethodExpiry *string
	status              string
	createdAt           time.Time
	updatedAt           time.Time
}

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// NewAccount creates a new account.
func NewAccount(email, name string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %s", email)
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	now := time.Now()
	return &Account{
		email:     email,
		name:      name,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructAccount reconstructs an account from persistence.
func ReconstructAccount(
	id uint,
	email, name string,
	stripeCustomerID *string,
	paymentMethodType, paymentMethodLast4, paymentMethodExpiry *string,
	status string,
	createdAt, updatedAt time.Time,
) (*Account, error) {
	if id == 0 {
		return nil, fmt.Errorf("account ID cannot be zero")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	return &Account{
		id:                  id,
		email:               email,
		name:                name,
		stripeCustomerID:    stripeCustomerID,
		paymentMethodType:   paymentMethodType,
		paymentMethodLast4:  paymentMethodLast4,
		paymentMethodExpiry: paymentMethodExpiry,
		status:              status,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}, nil
}

func (a *Account) ID() uint                     { return a.id }
func (a *Account) Email() string                { return a.email }
func (a *Account) Name() string                 { return a.name }
func (a *Account) StripeCustomerID() *string    { return a.stripeCustomerID }
func (a *Account) PaymentMethodType() *string   { return a.paymentMethodType }
func (a *Account) PaymentMethodLast4() *string  { return a.paymentMethodLast4 }
func (a *Account) PaymentMethodExpiry() *string { return a.paymentMethodExpiry }
func (a *Account) Status() string               { return a.status }
func (a *Account) CreatedAt() time.Time         { return a.createdAt }
func (a *Account) UpdatedAt() time.Time         { return a.updatedAt }

// SetID assigns the persistence identity after the initial insert.
func (a *Account) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("account ID already set")
	}
	if id == 0 {
		return fmt.Errorf("account ID cannot be zero")
	}
	a.id = id
	return nil
}

// LinkStripeCustomer records the provider customer reference. It can be set
// exactly once; repointing an account at a different customer is refused.
func (a *Account) LinkStripeCustomer(customerID string) error {
	if customerID == "" {
		return fmt.Errorf("customer ID is required")
	}
	if a.stripeCustomerID != nil && *a.stripeCustomerID != customerID {
		return fmt.Errorf("account already linked to customer %s", *a.stripeCustomerID)
	}
	a.stripeCustomerID = &customerID
	a.updatedAt = time.Now()
	return nil
}

// UpdatePaymentMethodSummary caches display data for the default payment
// method (brand, last four digits, expiry). Never holds full card data.
func (a *Account) UpdatePaymentMethodSummary(methodType, last4, expiry string) {
	a.paymentMethodType = &methodType
	a.paymentMethodLast4 = &last4
	a.paymentMethodExpiry = &expiry
	a.updatedAt = time.Now()
}
