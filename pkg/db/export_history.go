package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ExportKey identifies one transaction of a data file.
// The timestamp distinguishes a transaction from a later one that received the same ID.
type ExportKey struct {
	TransactionID uint32
	TransactionAt string // RFC3339 with nanoseconds, UTC
}

// NewExportKey builds the key for a transaction ID and timestamp.
func NewExportKey(id uint32, at time.Time) ExportKey {
	return ExportKey{TransactionID: id, TransactionAt: at.UTC().Format(time.RFC3339Nano)}
}

// ExportRecord is one transaction appended to a ledger file.
type ExportRecord struct {
	ID         int64
	StorePath  string
	Key        ExportKey
	Month      string
	Amount     float64
	LedgerFile string
	ExportedAt time.Time
}

// ExportHistory tracks which transactions of which data file have been exported.
type ExportHistory struct {
	conn *Connection
}

// NewExportHistory creates a new ExportHistory instance.
func NewExportHistory(conn *Connection) *ExportHistory {
	return &ExportHistory{conn: conn}
}

// RecordExports records a batch of exports in one SQL transaction.
// An existing record with the same store path and key is updated.
func (h *ExportHistory) RecordExports(records []ExportRecord) error {
	query := `
		INSERT INTO export_history (store_path, transaction_id, transaction_at, month, amount, ledger_file)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(store_path, transaction_id, transaction_at) DO UPDATE SET
			month = excluded.month,
			amount = excluded.amount,
			ledger_file = excluded.ledger_file,
			exported_at = CURRENT_TIMESTAMP
	`

	return h.conn.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare export insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			_, err := stmt.Exec(r.StorePath, r.Key.TransactionID, r.Key.TransactionAt, r.Month, r.Amount, r.LedgerFile)
			if err != nil {
				return fmt.Errorf("failed to record export of transaction %d: %w", r.Key.TransactionID, err)
			}
		}
		return nil
	})
}

// GetExportRecord returns the record for a transaction, or nil when none exists.
func (h *ExportHistory) GetExportRecord(storePath string, key ExportKey) (*ExportRecord, error) {
	query := `
		SELECT id, store_path, transaction_id, transaction_at, month, amount, ledger_file, exported_at
		FROM export_history
		WHERE store_path = ? AND transaction_id = ? AND transaction_at = ?
	`

	var r ExportRecord
	err := h.conn.QueryRow(query, storePath, key.TransactionID, key.TransactionAt).Scan(
		&r.ID,
		&r.StorePath,
		&r.Key.TransactionID,
		&r.Key.TransactionAt,
		&r.Month,
		&r.Amount,
		&r.LedgerFile,
		&r.ExportedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export record: %w", err)
	}
	return &r, nil
}

// GetExportedKeys returns the keys of all exported transactions of a data file.
func (h *ExportHistory) GetExportedKeys(storePath string) (map[ExportKey]struct{}, error) {
	rows, err := h.conn.Query(
		`SELECT transaction_id, transaction_at FROM export_history WHERE store_path = ?`,
		storePath,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get exported keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[ExportKey]struct{})
	for rows.Next() {
		var k ExportKey
		if err := rows.Scan(&k.TransactionID, &k.TransactionAt); err != nil {
			return nil, fmt.Errorf("failed to scan export key: %w", err)
		}
		keys[k] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exported keys: %w", err)
	}
	return keys, nil
}

// DeleteExportRecord removes a record so the transaction is exported again on the next sync.
func (h *ExportHistory) DeleteExportRecord(storePath string, key ExportKey) (bool, error) {
	result, err := h.conn.Exec(
		`DELETE FROM export_history WHERE store_path = ? AND transaction_id = ? AND transaction_at = ?`,
		storePath, key.TransactionID, key.TransactionAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete export record: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// Stats summarizes the export history.
type Stats struct {
	TotalExported int
	TotalMonths   int
}

// GetStats retrieves export counts across all data files.
func (h *ExportHistory) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT month) FROM export_history`).
		Scan(&stats.TotalExported, &stats.TotalMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to get export counts: %w", err)
	}
	return &stats, nil
}

// GetMetadata retrieves a metadata value, or "" when the key is unset.
func (h *ExportHistory) GetMetadata(key string) (string, error) {
	var value string
	err := h.conn.QueryRow(`SELECT value FROM export_metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata sets a metadata value.
func (h *ExportHistory) SetMetadata(key, value string) error {
	query := `
		INSERT INTO export_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := h.conn.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}
