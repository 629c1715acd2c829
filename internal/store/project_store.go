package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mlocatelli/progetta/internal/finance"
	"github.com/mlocatelli/progetta/internal/model"
)

// CreateProject inserts a new project. Generates a UUID and created_at if
// missing; new projects start at the quote stage with Medium priority.
func (s *SQLiteStore) CreateProject(ctx context.Context, project model.Project) (model.Project, error) {
	if strings.TrimSpace(project.Name) == "" {
		return model.Project{}, fmt.Errorf("project name must not be empty")
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = s.now()
	}
	if project.WorkStatus == "" {
		project.WorkStatus = model.WorkQuoteToSend
	}
	if project.PaymentStatus == "" {
		project.PaymentStatus = model.PaymentToInvoice
	}
	if project.Priority == "" {
		project.Priority = model.PriorityMedium
	}
	if project.Payments == nil {
		project.Payments = []model.Payment{}
	}

	if err := insertProjectTx(ctx, s.db, project); err != nil {
		return model.Project{}, err
	}
	return project, nil
}

// UpdateProject updates name, value, and notes of an existing project.
// Statuses and priority have dedicated setters.
func (s *SQLiteStore) UpdateProject(ctx context.Context, project model.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("project name must not be empty")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET name = ?, value = ?, notes = ? WHERE id = ?",
		project.Name, project.Value, project.Notes, project.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", project.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s not found", project.ID)
	}
	return nil
}

// DeleteProject removes a project together with its todos and payments.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM projects WHERE id = ?", id); err != nil {
		return fmt.Errorf("checking project %s: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("project %s not found", id)
	}

	if err := deleteProjectRowsTx(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// GetProjectByID retrieves a single project by ID, including its payments.
func (s *SQLiteStore) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := s.db.GetContext(ctx, &project, "SELECT * FROM projects WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}

	payments, err := s.getPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Payments = payments
	return &project, nil
}

// GetProjects retrieves projects with their payments attached, newest
// first. An empty clientID returns projects for all clients.
func (s *SQLiteStore) GetProjects(ctx context.Context, clientID string) ([]model.Project, error) {
	query := "SELECT * FROM projects"
	var args []interface{}
	if clientID != "" {
		query += " WHERE client_id = ?"
		args = append(args, clientID)
	}
	query += " ORDER BY created_at DESC"

	var projects []model.Project
	if err := s.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}

	byProject, err := s.getPaymentsGrouped(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		payments := byProject[projects[i].ID]
		if payments == nil {
			payments = []model.Payment{}
		}
		projects[i].Payments = payments
	}
	return projects, nil
}

// DuplicateProject copies a project and its todos under fresh ids. The
// copy restarts at the quote stage: statuses reset, payments and paid_at
// dropped, todos reopened.
func (s *SQLiteStore) DuplicateProject(ctx context.Context, id string) (model.Project, error) {
	original, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return model.Project{}, err
	}
	todos, err := s.GetTodos(ctx, id)
	if err != nil {
		return model.Project{}, err
	}

	dup := *original
	dup.ID = uuid.New().String()
	dup.Name = original.Name + " (copy)"
	dup.WorkStatus = model.WorkQuoteToSend
	dup.PaymentStatus = model.PaymentToInvoice
	dup.CreatedAt = s.now()
	dup.PaidAt = nil
	dup.Payments = []model.Payment{}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Project{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertProjectTx(ctx, tx, dup); err != nil {
		return model.Project{}, err
	}
	for _, t := range todos {
		t.ID = uuid.New().String()
		t.ProjectID = dup.ID
		t.Completed = false
		if err := insertTodoTx(ctx, tx, t); err != nil {
			return model.Project{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Project{}, err
	}
	return dup, nil
}

// SetProjectWorkStatus updates the delivery stage of a project.
func (s *SQLiteStore) SetProjectWorkStatus(ctx context.Context, id string, status model.WorkStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET work_status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("updating work status of project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s not found", id)
	}
	return nil
}

// SetProjectPaymentStatus applies a manual payment-status edit. It skips
// the payment-derived rule but keeps the paid_at stamping consistent.
func (s *SQLiteStore) SetProjectPaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	updated := finance.SetPaymentStatus(*project, status, s.now())
	_, err = s.db.ExecContext(ctx,
		"UPDATE projects SET payment_status = ?, paid_at = ? WHERE id = ?",
		updated.PaymentStatus, updated.PaidAt, id)
	if err != nil {
		return fmt.Errorf("updating payment status of project %s: %w", id, err)
	}
	return nil
}

// SetProjectPriority updates the user-assigned priority of a project.
func (s *SQLiteStore) SetProjectPriority(ctx context.Context, id string, priority model.Priority) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET priority = ? WHERE id = ?", priority, id)
	if err != nil {
		return fmt.Errorf("updating priority of project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s not found", id)
	}
	return nil
}

// SetProjectNotes updates a project's free-text notes.
func (s *SQLiteStore) SetProjectNotes(ctx context.Context, id string, notes string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET notes = ? WHERE id = ?", notes, id)
	if err != nil {
		return fmt.Errorf("updating notes of project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s not found", id)
	}
	return nil
}

// insertProjectTx inserts a project row.
func insertProjectTx(ctx context.Context, e sqlx.ExecerContext, p model.Project) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO projects (
			id, client_id, name, value,
			work_status, payment_status, priority,
			notes, created_at, paid_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ClientID, p.Name, p.Value,
		p.WorkStatus, p.PaymentStatus, p.Priority,
		p.Notes, p.CreatedAt, p.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("inserting project %s: %w", p.ID, err)
	}
	return nil
}
