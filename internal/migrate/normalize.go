// Package migrate upgrades legacy project records to the current shape.
// Old exports carried a single free-text status instead of the split
// work/payment pair, and predate the priority field and the payment list.
// Normalization happens once at the import boundary; the rest of the
// application never branches on legacy shapes.
package migrate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlocatelli/progetta/internal/model"
)

// RawProject is a project record as found in a backup file, old or new.
// Legacy fields and current fields coexist so one shape parses both.
type RawProject struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"client_id"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	Payments  []model.Payment `json:"payments,omitempty"`

	// Status is the legacy merged field, present only in old records.
	Status string `json:"status,omitempty"`

	// Current split fields, absent in old records.
	WorkStatus    model.WorkStatus    `json:"work_status,omitempty"`
	PaymentStatus model.PaymentStatus `json:"payment_status,omitempty"`
	Priority      model.Priority      `json:"priority,omitempty"`
}

// legacyStatuses maps each merged status value to the split pair. Unknown
// values fall back to the earliest stage.
var legacyStatuses = map[string]struct {
	work    model.WorkStatus
	payment model.PaymentStatus
}{
	"quote_to_send":     {model.WorkQuoteToSend, model.PaymentToInvoice},
	"quote_sent":        {model.WorkQuoteSent, model.PaymentToInvoice},
	"quote_accepted":    {model.WorkInProgress, model.PaymentToInvoice},
	"project_delivered": {model.WorkDelivered, model.PaymentToInvoice},
	"awaiting_payment":  {model.WorkDelivered, model.PaymentInvoiced},
	"paid":              {model.WorkDelivered, model.PaymentPaid},
}

// NormalizeProject upgrades one raw record to the current Project shape.
// Records already in the new shape pass through unchanged, so running it
// twice is a no-op. A missing priority defaults to Medium and a missing
// payment list to empty.
func NormalizeProject(raw RawProject) model.Project {
	work := raw.WorkStatus
	payment := raw.PaymentStatus
	if work == "" {
		mapped, ok := legacyStatuses[raw.Status]
		if !ok {
			mapped = legacyStatuses["quote_to_send"]
		}
		work = mapped.work
		payment = mapped.payment
	}

	priority := raw.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	payments := raw.Payments
	if payments == nil {
		payments = []model.Payment{}
	}
	for i := range payments {
		if payments[i].ProjectID == "" {
			payments[i].ProjectID = raw.ID
		}
	}

	return model.Project{
		ID:            raw.ID,
		ClientID:      raw.ClientID,
		Name:          raw.Name,
		Value:         raw.Value,
		WorkStatus:    work,
		PaymentStatus: payment,
		Priority:      priority,
		Notes:         raw.Notes,
		CreatedAt:     raw.CreatedAt,
		PaidAt:        raw.PaidAt,
		Payments:      payments,
	}
}
