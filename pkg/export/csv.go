// Package export writes transactions to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
)

// Header is the first CSV row.
var Header = []string{"id", "description", "amount", "timestamp", "category"}

// WriteCSV writes one row per transaction, in the given order, after the header.
func WriteCSV(w io.Writer, txns []models.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, t := range txns {
		row := []string{
			strconv.FormatUint(uint64(t.ID), 10),
			t.Description,
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			t.Datetime.UTC().Format(time.RFC3339),
			t.CategoryName(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for transaction %d: %w", t.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteCSVFile writes the transactions to path, creating parent directories as needed.
func WriteCSVFile(path string, txns []models.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := WriteCSV(f, txns); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}
