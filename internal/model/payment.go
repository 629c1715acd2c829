package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a single payment received against a project. Its lifecycle is
// bound to the owning project.
type Payment struct {
	ID        string          `json:"id" db:"id"`
	ProjectID string          `json:"project_id" db:"project_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Date      time.Time       `json:"date" db:"date"`
	Notes     string          `json:"notes,omitempty" db:"notes"`
}

// Snapshot is the full in-memory entity graph the derivation engine
// operates on. Projects carry their payments.
type Snapshot struct {
	Clients  []Client  `json:"clients"`
	Projects []Project `json:"projects"`
	Todos    []Todo    `json:"todos"`
}
