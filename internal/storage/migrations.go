package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one ordered schema change. Statements are written to the
// SQL subset shared by sqlite and postgres so a single file serves both.
type migration struct {
	version string
	stmts   string
}

var migrations = []migration{
	{
		version: "0001_init",
		stmts: `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	filename TEXT,
	document_type TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT 'en',
	size_bytes BIGINT NOT NULL DEFAULT 0,
	content TEXT NOT NULL,
	uploaded_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id),
	overall_risk TEXT NOT NULL,
	risk_score INTEGER NOT NULL DEFAULT 0,
	result TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents (uploaded_at);
CREATE INDEX IF NOT EXISTS idx_analyses_document_created ON analyses (document_id, created_at);
`,
	},
}

// Migrate applies pending schema migrations, recording each applied
// version in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	if err := ensureSchemaMigrations(ctx, db, driver); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if _, err := db.ExecContext(ctx, m.stmts); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}
	return nil
}

// ensureSchemaMigrations creates the schema_migrations table if it
// doesn't exist.
func ensureSchemaMigrations(ctx context.Context, db *sql.DB, driver string) error {
	var query string
	switch driver {
	case "sqlite3", "":
		query = `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				version TEXT UNIQUE NOT NULL,
				applied_at TEXT NOT NULL DEFAULT (datetime('now'))
			);
		`
	default:
		query = `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				id SERIAL PRIMARY KEY,
				version TEXT UNIQUE NOT NULL,
				applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`
	}
	_, err := db.ExecContext(ctx, query)
	return err
}

// appliedVersions returns the set of already applied migration versions.
func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
