package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mlocatelli/progetta/internal/model"
)

// CreateClient inserts a new client. Generates a UUID if ID is empty and
// appends the client to the end of the manual sort order.
func (s *SQLiteStore) CreateClient(ctx context.Context, client model.Client) (model.Client, error) {
	if strings.TrimSpace(client.Name) == "" {
		return model.Client{}, fmt.Errorf("client name must not be empty")
	}
	if client.ID == "" {
		client.ID = uuid.New().String()
	}

	if client.SortOrder == 0 {
		var maxOrder int
		err := s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM clients")
		if err != nil {
			return model.Client{}, fmt.Errorf("getting max sort_order: %w", err)
		}
		client.SortOrder = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, email, sort_order)
		VALUES (?, ?, ?, ?)`,
		client.ID, client.Name, client.Email, client.SortOrder,
	)
	if err != nil {
		return model.Client{}, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

// UpdateClient updates name and email of an existing client.
func (s *SQLiteStore) UpdateClient(ctx context.Context, client model.Client) error {
	if strings.TrimSpace(client.Name) == "" {
		return fmt.Errorf("client name must not be empty")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE clients SET name = ?, email = ? WHERE id = ?",
		client.Name, client.Email, client.ID,
	)
	if err != nil {
		return fmt.Errorf("updating client %s: %w", client.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("client %s not found", client.ID)
	}
	return nil
}

// DeleteClient removes a client together with its projects and their todos
// and payments. Dependent ids are collected explicitly and deleted in one
// transaction; nothing is left orphaned.
func (s *SQLiteStore) DeleteClient(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var projectIDs []string
	err = tx.SelectContext(ctx, &projectIDs,
		"SELECT id FROM projects WHERE client_id = ?", id)
	if err != nil {
		return fmt.Errorf("collecting projects of client %s: %w", id, err)
	}

	for _, pid := range projectIDs {
		if err := deleteProjectRowsTx(ctx, tx, pid); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting client %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("client %s not found", id)
	}

	return tx.Commit()
}

// GetClients retrieves all clients in manual sort order.
func (s *SQLiteStore) GetClients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	err := s.db.SelectContext(ctx, &clients,
		"SELECT * FROM clients ORDER BY sort_order")
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	return clients, nil
}

// ReorderClients rewrites the manual sort order to match orderedIDs.
func (s *SQLiteStore) ReorderClients(ctx context.Context, orderedIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, id := range orderedIDs {
		_, err := tx.ExecContext(ctx,
			"UPDATE clients SET sort_order = ? WHERE id = ?", i+1, id)
		if err != nil {
			return fmt.Errorf("reordering client %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// deleteProjectRowsTx removes one project with its todos and payments.
func deleteProjectRowsTx(ctx context.Context, tx *sqlx.Tx, projectID string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM payments WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("deleting payments of project %s: %w", projectID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM todos WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("deleting todos of project %s: %w", projectID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM projects WHERE id = ?", projectID); err != nil {
		return fmt.Errorf("deleting project %s: %w", projectID, err)
	}
	return nil
}
