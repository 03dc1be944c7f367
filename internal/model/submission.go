package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DispatchStatus string

const (
	DispatchStatusPending DispatchStatus = "PENDING"
	DispatchStatusSent    DispatchStatus = "SENT"
	DispatchStatusFailed  DispatchStatus = "FAILED"
	DispatchStatusSkipped DispatchStatus = "SKIPPED"
)

type Recipient string

const (
	RecipientCustomer Recipient = "CUSTOMER"
	RecipientInternal Recipient = "INTERNAL"
)

// QuoteSnapshot is everything needed to render and resend a submitted quote
// without pricing it again.
type QuoteSnapshot struct {
	Job       JobRequest      `json:"job"`
	Customer  Customer        `json:"customer"`
	Quote     InternalView    `json:"quote"`
	Narrative string          `json:"narrative,omitempty"`
	VATRate   decimal.Decimal `json:"vat_rate"`
}

type Submission struct {
	ID             uuid.UUID
	Snapshot       QuoteSnapshot
	CustomerStatus DispatchStatus
	CustomerError  *string
	InternalStatus DispatchStatus
	InternalError  *string
	Attempts       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s Submission) Status(recipient Recipient) DispatchStatus {
	if recipient == RecipientCustomer {
		return s.CustomerStatus
	}
	return s.InternalStatus
}

// Delivered reports whether no notification is left to (re)send.
func (s Submission) Delivered() bool {
	done := func(status DispatchStatus) bool {
		return status == DispatchStatusSent || status == DispatchStatusSkipped
	}
	return done(s.CustomerStatus) && done(s.InternalStatus)
}

// Quote rebuilds the quote value from the snapshot.
func (s QuoteSnapshot) ToQuote() Quote {
	view := s.Quote
	return Quote{
		Kind:      view.Kind,
		Job:       s.Job,
		Selection: view.Selection,
		LineItems: view.LineItems,
		Summary:   view.Summary,
		Meta:      view.Meta,
		Advisory:  view.Advisory,
		CostBasis: view.CostBasis,
	}
}

type SubmissionFilter struct {
	// Undelivered keeps submissions with a pending or failed notification.
	Undelivered bool
	Limit       int
}
