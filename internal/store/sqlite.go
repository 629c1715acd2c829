package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mlocatelli/progetta/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB

	// now is the clock used for created_at and paid_at stamping.
	// Overridable in tests.
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SetClock overrides the store's clock. Intended for tests that need
// deterministic created_at and paid_at values.
func (s *SQLiteStore) SetClock(now func() time.Time) {
	s.now = now
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// LoadSnapshot reads the full entity graph in one pass. Projects carry
// their payments so the derivation engine can work on plain values.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (model.Snapshot, error) {
	clients, err := s.GetClients(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}

	projects, err := s.GetProjects(ctx, "")
	if err != nil {
		return model.Snapshot{}, err
	}

	todos, err := s.GetTodos(ctx, "")
	if err != nil {
		return model.Snapshot{}, err
	}

	return model.Snapshot{Clients: clients, Projects: projects, Todos: todos}, nil
}

// ImportSnapshot replaces all stored data with the given snapshot inside
// one transaction. Callers normalize legacy records before importing.
func (s *SQLiteStore) ImportSnapshot(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"payments", "todos", "projects", "clients"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, c := range snap.Clients {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO clients (id, name, email, sort_order)
			VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, c.Email, i+1,
		)
		if err != nil {
			return fmt.Errorf("importing client %s: %w", c.ID, err)
		}
	}

	for _, p := range snap.Projects {
		if err := insertProjectTx(ctx, tx, p); err != nil {
			return err
		}
		for _, pay := range p.Payments {
			if err := insertPaymentTx(ctx, tx, pay); err != nil {
				return err
			}
		}
	}

	for _, t := range snap.Todos {
		if err := insertTodoTx(ctx, tx, t); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
