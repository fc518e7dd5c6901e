package invoice

import (
	"fmt"
	"time"
)

// Invoice status values written by the reconciliation engine. Other
// provider-defined statuses (draft, void, uncollectible) pass through as
// received.
const (
	StatusPaid = "paid"
	StatusOpen = "open"
)

// Invoice mirrors one provider invoice. The provider invoice reference is
// the idempotency key: repeated notifications for the same invoice upsert,
// never duplicate. The parent subscription is optional and may be nullified
// later without deleting the invoice.
type Invoice struct {
	id               uint
	accountID        uint
	subscriptionID   *uint
	stripeInvoiceID  string
	number           *string
	status           string
	amountDueCents   int64
	amountPaidCents  int64
	currency         string
	periodStart      *time.Time
	periodEnd        *time.Time
	dueDate          *time.Time
	paidAt           *time.Time
	hostedInvoiceURL *string
	invoicePDFURL    *string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewInvoice builds an invoice mirror from a provider snapshot.
func NewInvoice(accountID uint, stripeInvoiceID, status string) (*Invoice, error) {
	if accountID == 0 {
		return nil, fmt.Errorf("account ID is required")
	}
	if stripeInvoiceID == "" {
		return nil, fmt.Errorf("provider invoice ID is required")
	}
	if status == "" {
		return nil, fmt.Errorf("invoice status is required")
	}

	now := time.Now()
	return &Invoice{
		accountID:       accountID,
		stripeInvoiceID: stripeInvoiceID,
		status:          status,
		currency:        "usd",
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructInvoice reconstructs an invoice from persistence.
func ReconstructInvoice(
	id, accountID uint,
	subscriptionID *uint,
	stripeInvoiceID string,
	number *string,
	status string,
	amountDueCents, amountPaidCents int64,
	currency string,
	periodStart, periodEnd, dueDate, paidAt *time.Time,
	hostedInvoiceURL, invoicePDFURL *string,
	createdAt, updatedAt time.Time,
) (*Invoice, error) {
	if id == 0 {
		return nil, fmt.Errorf("invoice ID cannot be zero")
	}
	if stripeInvoiceID == "" {
		return nil, fmt.Errorf("provider invoice ID is required")
	}

	return &Invoice{
		id:               id,
		accountID:        accountID,
		subscriptionID:   subscriptionID,
		stripeInvoiceID:  stripeInvoiceID,
		number:           number,
		status:           status,
		amountDueCents:   amountDueCents,
		amountPaidCents:  amountPaidCents,
		currency:         currency,
		periodStart:      periodStart,
		periodEnd:        periodEnd,
		dueDate:          dueDate,
		paidAt:           paidAt,
		hostedInvoiceURL: hostedInvoiceURL,
		invoicePDFURL:    invoicePDFURL,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (i *Invoice) ID() uint                   { return i.id }
func (i *Invoice) AccountID() uint            { return i.accountID }
func (i *Invoice) SubscriptionID() *uint      { return i.subscriptionID }
func (i *Invoice) StripeInvoiceID() string    { return i.stripeInvoiceID }
func (i *Invoice) Number() *string            { return i.number }
func (i *Invoice) Status() string             { return i.status }
func (i *Invoice) AmountDueCents() int64      { return i.amountDueCents }
func (i *Invoice) AmountPaidCents() int64     { return i.amountPaidCents }
func (i *Invoice) Currency() string           { return i.currency }
func (i *Invoice) PeriodStart() *time.Time    { return i.periodStart }
func (i *Invoice) PeriodEnd() *time.Time      { return i.periodEnd }
func (i *Invoice) DueDate() *time.Time        { return i.dueDate }
func (i *Invoice) PaidAt() *time.Time         { return i.paidAt }
func (i *Invoice) HostedInvoiceURL() *string  { return i.hostedInvoiceURL }
func (i *Invoice) InvoicePDFURL() *string     { return i.invoicePDFURL }
func (i *Invoice) CreatedAt() time.Time       { return i.createdAt }
func (i *Invoice) UpdatedAt() time.Time       { return i.updatedAt }

func (i *Invoice) IsPaid() bool { return i.status == StatusPaid }

// SetID assigns the persistence identity after the initial insert.
func (i *Invoice) SetID(id uint) error {
	if i.id != 0 {
		return fmt.Errorf("invoice ID already set")
	}
	if id == 0 {
		return fmt.Errorf("invoice ID cannot be zero")
	}
	i.id = id
	return nil
}

// SetSubscription links the invoice to a local subscription, if one resolved.
func (i *Invoice) SetSubscription(subscriptionID *uint) {
	i.subscriptionID = subscriptionID
	i.updatedAt = time.Now()
}

// SetDetails fills the mirrored billing fields from a provider snapshot.
func (i *Invoice) SetDetails(number *string, amountDue, amountPaid int64, currency string, periodStart, periodEnd *time.Time, hostedURL, pdfURL *string) {
	i.number = number
	i.amountDueCents = amountDue
	i.amountPaidCents = amountPaid
	if currency != "" {
		i.currency = currency
	}
	i.periodStart = periodStart
	i.periodEnd = periodEnd
	i.hostedInvoiceURL = hostedURL
	i.invoicePDFURL = pdfURL
	i.updatedAt = time.Now()
}

// MarkPaid records payment, defaulting the paid time to now when the
// provider omitted the status transition timestamp.
func (i *Invoice) MarkPaid(paidAt *time.Time) {
	now := time.Now()
	if paidAt == nil {
		paidAt = &now
	}
	i.status = StatusPaid
	i.paidAt = paidAt
	i.updatedAt = now
}

// MarkPaymentFailed reopens the invoice with its due date.
func (i *Invoice) MarkPaymentFailed(dueDate *time.Time) {
	i.status = StatusOpen
	i.dueDate = dueDate
	i.updatedAt = time.Now()
}

// MarkFinalized stores the provider status as-is with the due date.
func (i *Invoice) MarkFinalized(status string, dueDate *time.Time) {
	if status != "" {
		i.status = status
	}
	i.dueDate = dueDate
	i.updatedAt = time.Now()
}
