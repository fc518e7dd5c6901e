// Package dto holds the decoded shapes of provider webhook payloads. Only
// the fields the reconciliation engine reads are declared; everything else in
// the payload passes through untouched.
package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the outer webhook event shape.
type Envelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ParseEnvelope decodes the outer event wrapper.
func ParseEnvelope(payload []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("failed to parse event envelope: %w", err)
	}
	return &env, nil
}

// SubscriptionSnapshot is the subscription object carried by subscription
// lifecycle events. Billing period bounds appear either at the top level or
// nested under the first subscription item, depending on the provider API
// version that produced the payload.
type SubscriptionSnapshot struct {
	ID                 string `json:"id"`
	Customer           string `json:"customer"`
	Status             string `json:"status"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	EndedAtUnix        int64  `json:"ended_at"`
	Items              struct {
		Data []struct {
			CurrentPeriodStart int64 `json:"current_period_start"`
			CurrentPeriodEnd   int64 `json:"current_period_end"`
			Price              struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// ParseSubscriptionSnapshot decodes a subscription object.
func ParseSubscriptionSnapshot(object json.RawMessage) (*SubscriptionSnapshot, error) {
	var snap SubscriptionSnapshot
	if err := json.Unmarshal(object, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse subscription snapshot: %w", err)
	}
	if snap.ID == "" {
		return nil, fmt.Errorf("subscription snapshot missing id")
	}
	return &snap, nil
}

// PeriodBounds resolves the billing period from whichever location the
// payload populated, preferring the top-level fields.
func (s *SubscriptionSnapshot) PeriodBounds() (*time.Time, *time.Time) {
	start := s.CurrentPeriodStart
	end := s.CurrentPeriodEnd
	if start == 0 && end == 0 && len(s.Items.Data) > 0 {
		start = s.Items.Data[0].CurrentPeriodStart
		end = s.Items.Data[0].CurrentPeriodEnd
	}
	return unixToTime(start), unixToTime(end)
}

// PriceID returns the provider price backing the first subscription item.
func (s *SubscriptionSnapshot) PriceID() string {
	if len(s.Items.Data) > 0 {
		return s.Items.Data[0].Price.ID
	}
	return ""
}

// EndedAt returns the provider's subscription end time, if present.
func (s *SubscriptionSnapshot) EndedAt() *time.Time {
	return unixToTime(s.EndedAtUnix)
}

// InvoiceSnapshot is the invoice object carried by invoice events. The
// parent subscription reference appears either top level or nested under
// parent.subscription_details, again varying by provider API version.
type InvoiceSnapshot struct {
	ID               string  `json:"id"`
	Customer         string  `json:"customer"`
	Subscription     string  `json:"subscription"`
	Number           *string `json:"number"`
	Status           string  `json:"status"`
	AmountDue        int64   `json:"amount_due"`
	AmountPaid       int64   `json:"amount_paid"`
	Currency         string  `json:"currency"`
	PeriodStartUnix  int64   `json:"period_start"`
	PeriodEndUnix    int64   `json:"period_end"`
	DueDateUnix      int64   `json:"due_date"`
	HostedInvoiceURL *string `json:"hosted_invoice_url"`
	InvoicePDF       *string `json:"invoice_pdf"`
	Parent           struct {
		SubscriptionDetails struct {
			Subscription string `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
	StatusTransitions struct {
		PaidAtUnix int64 `json:"paid_at"`
	} `json:"status_transitions"`
}

// ParseInvoiceSnapshot decodes an invoice object.
func ParseInvoiceSnapshot(object json.RawMessage) (*InvoiceSnapshot, error) {
	var snap InvoiceSnapshot
	if err := json.Unmarshal(object, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse invoice snapshot: %w", err)
	}
	if snap.ID == "" {
		return nil, fmt.Errorf("invoice snapshot missing id")
	}
	return &snap, nil
}

// SubscriptionRef resolves the parent subscription reference from whichever
// location the payload populated.
func (s *InvoiceSnapshot) SubscriptionRef() string {
	if s.Subscription != "" {
		return s.Subscription
	}
	return s.Parent.SubscriptionDetails.Subscription
}

func (s *InvoiceSnapshot) PeriodStart() *time.Time { return unixToTime(s.PeriodStartUnix) }
func (s *InvoiceSnapshot) PeriodEnd() *time.Time   { return unixToTime(s.PeriodEndUnix) }
func (s *InvoiceSnapshot) DueDate() *time.Time     { return unixToTime(s.DueDateUnix) }

// PaidAt returns the provider's payment timestamp, if present.
func (s *InvoiceSnapshot) PaidAt() *time.Time {
	return unixToTime(s.StatusTransitions.PaidAtUnix)
}

func unixToTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
