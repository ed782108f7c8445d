package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'viewer' CHECK (role IN ('superuser', 'technician', 'viewer')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id               INTEGER PRIMARY KEY,
    manufacturer     TEXT NOT NULL,
    model            TEXT NOT NULL,
    part_or_unit     TEXT NOT NULL DEFAULT 'unit' CHECK (part_or_unit IN ('unit', 'part')),
    part_number      TEXT NOT NULL DEFAULT '',
    description      TEXT NOT NULL DEFAULT '',
    location         TEXT NOT NULL DEFAULT '',
    quantity         INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    min_quantity     INTEGER NOT NULL DEFAULT 0,
    unit_price       TEXT NOT NULL DEFAULT '0.01',
    last_modified_by INTEGER REFERENCES users(id),
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS item_history (
    id        INTEGER PRIMARY KEY,
    item_id   INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    action    TEXT NOT NULL CHECK (action IN ('create', 'update', 'use')),
    changes   TEXT NOT NULL DEFAULT '',
    user_id   INTEGER REFERENCES users(id),
    timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_item_history_item
    ON item_history(item_id, timestamp DESC, id DESC);

CREATE TABLE IF NOT EXISTS used_items (
    id            INTEGER PRIMARY KEY,
    item_id       INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    work_order    TEXT NOT NULL,
    datetime_used DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    used_by       INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS item_requests (
    id                 INTEGER PRIMARY KEY,
    manufacturer       TEXT NOT NULL,
    model_part_num     TEXT NOT NULL,
    quantity_requested INTEGER NOT NULL CHECK (quantity_requested > 0),
    description        TEXT NOT NULL DEFAULT '',
    unit_price         TEXT NOT NULL DEFAULT '0.01',
    requested_by       INTEGER REFERENCES users(id),
    status             TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Approved', 'Rejected')),
    status_changed_by  INTEGER REFERENCES users(id),
    timestamp          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS purchase_order_items (
    id               INTEGER PRIMARY KEY,
    manufacturer     TEXT NOT NULL,
    model_part_num   TEXT NOT NULL,
    quantity_ordered INTEGER NOT NULL CHECK (quantity_ordered > 0),
    description      TEXT NOT NULL DEFAULT '',
    serial_num       TEXT NOT NULL DEFAULT '',
    property_num     TEXT NOT NULL DEFAULT '',
    unit_price       TEXT NOT NULL DEFAULT '0.01'
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
