// Package db provides SQLite storage for the ledger export history.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Export history table
-- One row per transaction appended to a Beancount ledger file, per data file
CREATE TABLE IF NOT EXISTS export_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    store_path TEXT NOT NULL,          -- Absolute path of the JSON data file
    transaction_id INTEGER NOT NULL,   -- Transaction ID within that data file
    transaction_at TEXT NOT NULL,      -- Transaction timestamp, RFC3339 (UTC, nanoseconds)
    month TEXT NOT NULL,               -- YYYY-MM of the transaction timestamp
    amount REAL NOT NULL,
    ledger_file TEXT NOT NULL,         -- Path to Beancount file
    exported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    -- IDs can be handed out again after the newest transaction is deleted,
    -- so the immutable timestamp is part of the identity
    UNIQUE(store_path, transaction_id, transaction_at)
);

CREATE INDEX IF NOT EXISTS idx_export_history_month
    ON export_history(month);

-- Export metadata table
CREATE TABLE IF NOT EXISTS export_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// MetadataLastExport is the metadata key holding the RFC3339 time of the last sync.
const MetadataLastExport = "last_export_at"

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
