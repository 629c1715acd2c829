package store

import (
	"context"

	"github.com/mlocatelli/progetta/internal/model"
)

// Store defines the persistence interface for clients, projects, todos,
// and payments. Mutations that touch a project's payment list run the
// payment-status consistency rule inside the same transaction; the cached
// status is never left stale relative to the payments.
type Store interface {
	// === Snapshot ===

	// LoadSnapshot returns the full entity graph, projects carrying
	// their payments, for the derivation engine to consume.
	LoadSnapshot(ctx context.Context) (model.Snapshot, error)

	// ImportSnapshot replaces all stored data with the given snapshot.
	ImportSnapshot(ctx context.Context, snap model.Snapshot) error

	// === Clients ===

	CreateClient(ctx context.Context, client model.Client) (model.Client, error)
	UpdateClient(ctx context.Context, client model.Client) error
	DeleteClient(ctx context.Context, id string) error
	GetClients(ctx context.Context) ([]model.Client, error)
	ReorderClients(ctx context.Context, orderedIDs []string) error

	// === Projects ===

	CreateProject(ctx context.Context, project model.Project) (model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) error
	DeleteProject(ctx context.Context, id string) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	GetProjects(ctx context.Context, clientID string) ([]model.Project, error)
	DuplicateProject(ctx context.Context, id string) (model.Project, error)
	SetProjectWorkStatus(ctx context.Context, id string, status model.WorkStatus) error
	SetProjectPaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error
	SetProjectPriority(ctx context.Context, id string, priority model.Priority) error
	SetProjectNotes(ctx context.Context, id string, notes string) error

	// === Todos ===

	CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error)
	UpdateTodo(ctx context.Context, todo model.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	GetTodos(ctx context.Context, projectID string) ([]model.Todo, error)
	ToggleTodo(ctx context.Context, id string, completed bool) error
	SetTodoOrders(ctx context.Context, todos []model.Todo) error

	// === Payments ===

	AddPayment(ctx context.Context, projectID string, payment model.Payment) (model.Project, error)
	DeletePayment(ctx context.Context, projectID, paymentID string) (model.Project, error)
}
