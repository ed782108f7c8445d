package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: older databases indexed item_history by item only, which
	// made audit views re-sort on every read. Replace it with the composite
	// index used by the history listing query.
	`DROP INDEX IF EXISTS idx_item_history_item_id`,
	`CREATE INDEX IF NOT EXISTS idx_item_history_item
	     ON item_history(item_id, timestamp DESC, id DESC)`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
