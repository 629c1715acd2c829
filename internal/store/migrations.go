package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS projects (
	id             TEXT PRIMARY KEY,
	client_id      TEXT NOT NULL REFERENCES clients(id),
	name           TEXT NOT NULL,
	value          TEXT NOT NULL DEFAULT '0',
	work_status    TEXT NOT NULL DEFAULT 'quote_to_send'
		CHECK(work_status IN ('quote_to_send', 'quote_sent', 'in_progress', 'delivered', 'cancelled')),
	payment_status TEXT NOT NULL DEFAULT 'to_invoice'
		CHECK(payment_status IN ('to_invoice', 'invoiced', 'partially_paid', 'paid')),
	priority       TEXT NOT NULL DEFAULT 'medium'
		CHECK(priority IN ('low', 'medium', 'high')),
	notes          TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL,
	paid_at        DATETIME
);

CREATE TABLE IF NOT EXISTS todos (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id),
	task       TEXT NOT NULL,
	income     TEXT NOT NULL DEFAULT '0',
	completed  INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	due_date   DATETIME,
	sort_order INTEGER
);

CREATE TABLE IF NOT EXISTS payments (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id),
	amount     TEXT NOT NULL,
	date       DATETIME NOT NULL,
	notes      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_projects_client_id ON projects(client_id);
CREATE INDEX IF NOT EXISTS idx_projects_work_status ON projects(work_status);
CREATE INDEX IF NOT EXISTS idx_todos_project_id ON todos(project_id);
CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date);
CREATE INDEX IF NOT EXISTS idx_payments_project_id ON payments(project_id);
CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(date);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
