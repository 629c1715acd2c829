package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mlocatelli/progetta/internal/model"
)

// CreateTodo inserts a new todo. Generates a UUID if ID is empty. The
// manual order key stays unset until the user reorders the task list.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	if strings.TrimSpace(todo.Task) == "" {
		return model.Todo{}, fmt.Errorf("todo task must not be empty")
	}
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}

	if err := insertTodoTx(ctx, s.db, todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// UpdateTodo updates an existing todo by ID.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, todo model.Todo) error {
	if strings.TrimSpace(todo.Task) == "" {
		return fmt.Errorf("todo task must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET
			task = ?, income = ?, completed = ?,
			due_date = ?, sort_order = ?
		WHERE id = ?`,
		todo.Task, todo.Income, boolToInt(todo.Completed),
		todo.DueDate, todo.Order,
		todo.ID,
	)
	if err != nil {
		return fmt.Errorf("updating todo %s: %w", todo.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s not found", todo.ID)
	}
	return nil
}

// DeleteTodo removes a todo by ID.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s not found", id)
	}
	return nil
}

// GetTodos retrieves todos, optionally limited to one project. Ordering is
// left to the ranking package; rows come back in insertion order.
func (s *SQLiteStore) GetTodos(ctx context.Context, projectID string) ([]model.Todo, error) {
	query := "SELECT * FROM todos"
	var args []interface{}
	if projectID != "" {
		query += " WHERE project_id = ?"
		args = append(args, projectID)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// ToggleTodo sets the completed flag of a todo.
func (s *SQLiteStore) ToggleTodo(ctx context.Context, id string, completed bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE todos SET completed = ? WHERE id = ?", boolToInt(completed), id)
	if err != nil {
		return fmt.Errorf("toggling todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s not found", id)
	}
	return nil
}

// SetTodoOrders persists the manual order keys of the given todos in one
// transaction, after a reorder in the task view.
func (s *SQLiteStore) SetTodoOrders(ctx context.Context, todos []model.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range todos {
		_, err := tx.ExecContext(ctx,
			"UPDATE todos SET sort_order = ? WHERE id = ?", t.Order, t.ID)
		if err != nil {
			return fmt.Errorf("reordering todo %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// insertTodoTx inserts a todo row.
func insertTodoTx(ctx context.Context, e sqlx.ExecerContext, t model.Todo) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO todos (id, project_id, task, income, completed, due_date, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Task, t.Income, boolToInt(t.Completed), t.DueDate, t.Order,
	)
	if err != nil {
		return fmt.Errorf("inserting todo %s: %w", t.ID, err)
	}
	return nil
}

// scanTodo scans a todo row from sqlx.Rows.
func scanTodo(rows *sqlx.Rows) (model.Todo, error) {
	var (
		todo         model.Todo
		completedInt int
	)

	err := rows.Scan(
		&todo.ID, &todo.ProjectID, &todo.Task, &todo.Income,
		&completedInt, &todo.DueDate, &todo.Order,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("scanning todo row: %w", err)
	}

	todo.Completed = completedInt != 0
	return todo, nil
}
