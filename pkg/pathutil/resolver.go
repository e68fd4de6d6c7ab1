// Package pathutil provides centralized path management for the data file and ledger export.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PathResolver manages paths for the data file, Beancount ledger files, and export history database.
type PathResolver struct {
	dataPath     string
	ledgerRoot   string
	databasePath string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// DataPath is the JSON file holding transactions, categories and the limit
	DataPath string
	// LedgerRoot is the root directory for exported Beancount files (e.g., ./beancount)
	LedgerRoot string
	// DatabasePath is the path to the SQLite database file for export history
	DatabasePath string
}

// New creates a new PathResolver with the given configuration.
// If DataPath is empty, it defaults to data/data.json
// If DatabasePath is empty, it defaults to {LedgerRoot}/.sync/export.db
func New(config Config) *PathResolver {
	dataPath := config.DataPath
	if dataPath == "" {
		dataPath = filepath.Join("data", "data.json")
	}

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.LedgerRoot, ".sync", "export.db")
	}

	return &PathResolver{
		dataPath:     dataPath,
		ledgerRoot:   config.LedgerRoot,
		databasePath: dbPath,
	}
}

// GetDataPath returns the data file path.
func (p *PathResolver) GetDataPath() string {
	return p.dataPath
}

// GetLedgerRoot returns the Beancount root directory.
func (p *PathResolver) GetLedgerRoot() string {
	return p.ledgerRoot
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetYearDir returns the directory path for a year.
// Example: ./beancount/2024
func (p *PathResolver) GetYearDir(year string) string {
	return filepath.Join(p.ledgerRoot, year)
}

// GetMonthFilePath returns the file path for a month.
// yearMonth must be a real month in YYYY-MM format.
// Example: ./beancount/2024/2024-01.beancount
func (p *PathResolver) GetMonthFilePath(yearMonth string) (string, error) {
	if len(yearMonth) != len("2006-01") {
		return "", fmt.Errorf("invalid year-month format: %s. Expected YYYY-MM", yearMonth)
	}
	if _, err := time.Parse("2006-01", yearMonth); err != nil {
		return "", fmt.Errorf("invalid year-month format: %s. Expected YYYY-MM", yearMonth)
	}

	yearDir := p.GetYearDir(yearMonth[:4])
	filename := fmt.Sprintf("%s.beancount", yearMonth)

	return filepath.Join(yearDir, filename), nil
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	return p.EnsureDir(filepath.Dir(filePath))
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
