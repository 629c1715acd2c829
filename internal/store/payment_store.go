package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mlocatelli/progetta/internal/finance"
	"github.com/mlocatelli/progetta/internal/model"
)

// AddPayment records a payment against a project and reconciles the cached
// payment status in the same transaction. Returns the updated project.
func (s *SQLiteStore) AddPayment(ctx context.Context, projectID string, payment model.Payment) (model.Project, error) {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.ProjectID = projectID

	return s.mutatePayments(ctx, projectID, func(tx *sqlx.Tx) error {
		return insertPaymentTx(ctx, tx, payment)
	})
}

// DeletePayment removes a payment from a project and reconciles the cached
// payment status in the same transaction. Returns the updated project.
func (s *SQLiteStore) DeletePayment(ctx context.Context, projectID, paymentID string) (model.Project, error) {
	return s.mutatePayments(ctx, projectID, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			"DELETE FROM payments WHERE id = ? AND project_id = ?",
			paymentID, projectID)
		if err != nil {
			return fmt.Errorf("deleting payment %s: %w", paymentID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("payment %s not found", paymentID)
		}
		return nil
	})
}

// mutatePayments applies a payment-list mutation and then runs the shared
// consistency rule on the result, all inside one transaction. Add and
// delete funnel through here so the two call sites can never diverge.
func (s *SQLiteStore) mutatePayments(ctx context.Context, projectID string, mutate func(tx *sqlx.Tx) error) (model.Project, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Project{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var project model.Project
	if err := tx.GetContext(ctx, &project,
		"SELECT * FROM projects WHERE id = ?", projectID); err != nil {
		return model.Project{}, fmt.Errorf("getting project %s: %w", projectID, err)
	}

	if err := mutate(tx); err != nil {
		return model.Project{}, err
	}

	var payments []model.Payment
	if err := tx.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE project_id = ? ORDER BY date", projectID); err != nil {
		return model.Project{}, fmt.Errorf("querying payments of project %s: %w", projectID, err)
	}
	project.Payments = payments

	var todos []model.Todo
	rows, err := tx.QueryxContext(ctx,
		"SELECT * FROM todos WHERE project_id = ?", projectID)
	if err != nil {
		return model.Project{}, fmt.Errorf("querying todos of project %s: %w", projectID, err)
	}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			rows.Close()
			return model.Project{}, err
		}
		todos = append(todos, todo)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return model.Project{}, err
	}

	updated := finance.ReconcilePayments(project, todos, s.now())
	if _, err := tx.ExecContext(ctx,
		"UPDATE projects SET payment_status = ?, paid_at = ? WHERE id = ?",
		updated.PaymentStatus, updated.PaidAt, projectID); err != nil {
		return model.Project{}, fmt.Errorf("updating payment status of project %s: %w", projectID, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Project{}, err
	}
	return updated, nil
}

// getPayments returns the payments of one project, oldest first.
func (s *SQLiteStore) getPayments(ctx context.Context, projectID string) ([]model.Payment, error) {
	payments := []model.Payment{}
	err := s.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE project_id = ? ORDER BY date", projectID)
	if err != nil {
		return nil, fmt.Errorf("querying payments of project %s: %w", projectID, err)
	}
	return payments, nil
}

// getPaymentsGrouped returns payments grouped by project, optionally
// limited to the projects of one client.
func (s *SQLiteStore) getPaymentsGrouped(ctx context.Context, clientID string) (map[string][]model.Payment, error) {
	query := "SELECT * FROM payments"
	var args []interface{}
	if clientID != "" {
		query += " WHERE project_id IN (SELECT id FROM projects WHERE client_id = ?)"
		args = append(args, clientID)
	}
	query += " ORDER BY date"

	var payments []model.Payment
	if err := s.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("querying payments: %w", err)
	}

	grouped := make(map[string][]model.Payment)
	for _, p := range payments {
		grouped[p.ProjectID] = append(grouped[p.ProjectID], p)
	}
	return grouped, nil
}

// insertPaymentTx inserts a payment row.
func insertPaymentTx(ctx context.Context, e sqlx.ExecerContext, p model.Payment) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO payments (id, project_id, amount, date, notes)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.ProjectID, p.Amount, p.Date, p.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting payment %s: %w", p.ID, err)
	}
	return nil
}
