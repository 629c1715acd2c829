package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkStatus is the delivery lifecycle stage of a project.
type WorkStatus string

const (
	WorkQuoteToSend WorkStatus = "quote_to_send"
	WorkQuoteSent   WorkStatus = "quote_sent"
	WorkInProgress  WorkStatus = "in_progress"
	WorkDelivered   WorkStatus = "delivered"
	WorkCancelled   WorkStatus = "cancelled"
)

// WorkStatuses lists all work statuses in lifecycle order, used when the
// UI cycles through them.
var WorkStatuses = []WorkStatus{
	WorkQuoteToSend,
	WorkQuoteSent,
	WorkInProgress,
	WorkDelivered,
	WorkCancelled,
}

// Label returns the human-readable form of a work status.
func (s WorkStatus) Label() string {
	switch s {
	case WorkQuoteToSend:
		return "Quote to send"
	case WorkQuoteSent:
		return "Quote sent"
	case WorkInProgress:
		return "In progress"
	case WorkDelivered:
		return "Delivered"
	case WorkCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// PaymentStatus is the billing/collection stage of a project. It is cached
// on the project and kept consistent with the payment list by the finance
// package; it is never derived lazily at read time.
type PaymentStatus string

const (
	PaymentToInvoice     PaymentStatus = "to_invoice"
	PaymentInvoiced      PaymentStatus = "invoiced"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

// PaymentStatuses lists all payment statuses in collection order, used
// when the UI cycles through them.
var PaymentStatuses = []PaymentStatus{
	PaymentToInvoice,
	PaymentInvoiced,
	PaymentPartiallyPaid,
	PaymentPaid,
}

// Label returns the human-readable form of a payment status.
func (s PaymentStatus) Label() string {
	switch s {
	case PaymentToInvoice:
		return "To invoice"
	case PaymentInvoiced:
		return "Invoiced"
	case PaymentPartiallyPaid:
		return "Partially paid"
	case PaymentPaid:
		return "Paid"
	default:
		return string(s)
	}
}

// Priority is the user-assigned importance of a project.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists all priorities from low to high, used when the UI
// cycles through them.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Label returns the human-readable form of a priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// Rank returns the numeric ordering of a priority (higher is more urgent).
// Unknown values rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Project is a unit of billable work belonging to a client.
type Project struct {
	ID            string          `json:"id" db:"id"`
	ClientID      string          `json:"client_id" db:"client_id"`
	Name          string          `json:"name" db:"name"`
	Value         decimal.Decimal `json:"value" db:"value"`
	WorkStatus    WorkStatus      `json:"work_status" db:"work_status"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	Priority      Priority        `json:"priority" db:"priority"`
	Notes         string          `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`

	// PaidAt is set the first time PaymentStatus enters Paid and cleared
	// when it regresses away from Paid.
	PaidAt *time.Time `json:"paid_at,omitempty" db:"paid_at"`

	// Payments is populated by queries that join with the payments table.
	Payments []Payment `json:"payments,omitempty" db:"-"`
}
