package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Todo is a task within a project. Its income, if any, contributes to the
// owning project's total.
type Todo struct {
	ID        string          `json:"id" db:"id"`
	ProjectID string          `json:"project_id" db:"project_id"`
	Task      string          `json:"task" db:"task"`
	Income    decimal.Decimal `json:"income" db:"income"`
	Completed bool            `json:"completed" db:"completed"`
	DueDate   *time.Time      `json:"due_date,omitempty" db:"due_date"`

	// Order is the manual sort key assigned by reordering in the task
	// view. Legacy records have none; ranking treats nil as 0.
	Order *int64 `json:"order,omitempty" db:"sort_order"`
}
