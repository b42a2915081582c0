package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// NodeTables maps each outline-numbered table to its kind-specific text column.
var NodeTables = map[string]string{
	"decisions":           "title",
	"uncertainties":       "name",
	"system_requirements": "statement",
}

// nodeTable returns the DDL shared by the three outline-numbered hierarchies.
// Children cascade with their parent; generated_id is NULL until the first
// reorder pass labels the row.
func nodeTable(table, textColumn string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
		id           TEXT PRIMARY KEY,
		model_id     TEXT NOT NULL REFERENCES models(id) ON DELETE CASCADE,
		parent_id    TEXT REFERENCES %[1]s(id) ON DELETE CASCADE,
		generated_id TEXT,
		level        INTEGER NOT NULL DEFAULT 0 CHECK(level >= 0),
		%[2]s        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		created_by   TEXT NOT NULL DEFAULT '',
		updated_by   TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`, table, textColumn)
}

func nodeIndexes(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_model ON %[1]s(model_id)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_parent ON %[1]s(model_id, parent_id)`, table),
	}
}

var migrations = buildMigrations()

func buildMigrations() []string {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS models (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		)`,
		`ALTER TABLE models ADD COLUMN description TEXT NOT NULL DEFAULT ''`,
	}
	for _, table := range []string{"decisions", "uncertainties", "system_requirements"} {
		stmts = append(stmts, nodeTable(table, NodeTables[table]))
		stmts = append(stmts, nodeIndexes(table)...)
	}
	return stmts
}
